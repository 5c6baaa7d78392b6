package inventory_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/stockmind/stockmind-api/internal/application/inventory"
	"github.com/stockmind/stockmind-api/internal/domain"
	"github.com/stockmind/stockmind-api/internal/domain/entity"
	domaininv "github.com/stockmind/stockmind-api/internal/domain/inventory"
	"github.com/stockmind/stockmind-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un store con mutex que simula la serialización por fila que
// en PostgreSQL da el SELECT FOR UPDATE, y con snapshot/rollback por transacción.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompany   = "c-0001"
	testUser      = "u-0001"
	testProduct   = "p-0001"
	testWarehouse = "w-0001"
	testWarehouse2 = "w-0002"
)

type memStore struct {
	mu        sync.Mutex
	movements map[string]*entity.Movement
	items     map[string]*entity.InventoryItem
	orders    map[string]*entity.Order

	// conflictos pendientes por inyectar en UpdateStock (simula carrera de versión)
	injectConflicts int
}

func newMemStore() *memStore {
	return &memStore{
		movements: make(map[string]*entity.Movement),
		items:     make(map[string]*entity.InventoryItem),
		orders:    make(map[string]*entity.Order),
	}
}

func invKey(companyID, warehouseID, productID string) string {
	return companyID + "|" + warehouseID + "|" + productID
}

func (s *memStore) snapshot() (map[string]*entity.Movement, map[string]*entity.InventoryItem, map[string]*entity.Order) {
	movs := make(map[string]*entity.Movement, len(s.movements))
	for k, v := range s.movements {
		c := *v
		movs[k] = &c
	}
	items := make(map[string]*entity.InventoryItem, len(s.items))
	for k, v := range s.items {
		c := *v
		items[k] = &c
	}
	orders := make(map[string]*entity.Order, len(s.orders))
	for k, v := range s.orders {
		c := *v
		c.Lines = append([]entity.OrderLine(nil), v.Lines...)
		orders[k] = &c
	}
	return movs, items, orders
}

// stock lee el stock actual de una llave directamente del store (solo tests).
func (s *memStore) stock(t *testing.T, warehouseID, productID string) int64 {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[invKey(testCompany, warehouseID, productID)]
	if !ok {
		return -1
	}
	return it.CurrentStock
}

type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	ordRepo repository.OrderRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	movSnap, itemSnap, ordSnap := r.store.snapshot()
	err := fn(
		&memMovementRepo{store: r.store, inTx: true},
		&memInventoryRepo{store: r.store},
		&memOrderRepo{store: r.store},
	)
	if err != nil {
		// rollback
		r.store.movements = movSnap
		r.store.items = itemSnap
		r.store.orders = ordSnap
		return err
	}
	return nil
}

type memMovementRepo struct {
	store *memStore
	inTx  bool
}

func (r *memMovementRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memMovementRepo) Create(m *entity.Movement) error {
	defer r.lock()()
	c := *m
	r.store.movements[m.ID] = &c
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.Movement, error) {
	defer r.lock()()
	m, ok := r.store.movements[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r *memMovementRepo) Update(m *entity.Movement) error {
	defer r.lock()()
	if _, ok := r.store.movements[m.ID]; !ok {
		// cero filas afectadas, igual que el adaptador de PostgreSQL
		return domain.ErrConflict
	}
	c := *m
	r.store.movements[m.ID] = &c
	return nil
}

func (r *memMovementRepo) Delete(id string) error {
	defer r.lock()()
	if _, ok := r.store.movements[id]; !ok {
		return domain.ErrConflict
	}
	delete(r.store.movements, id)
	return nil
}

func (r *memMovementRepo) ListByCompany(companyID, movementType string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.CompanyID != companyID {
			continue
		}
		if movementType != "" && m.Type != movementType {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	// más recientes primero, como el adaptador real
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMovementRepo) ListByKey(companyID, warehouseID, productID string) ([]*entity.Movement, error) {
	defer r.lock()()
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.CompanyID == companyID && m.WarehouseID == warehouseID && m.ProductID == productID {
			c := *m
			out = append(out, &c)
		}
	}
	// orden cronológico ascendente
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Date.Before(out[i].Date) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type memInventoryRepo struct{ store *memStore }

func (r *memInventoryRepo) Get(companyID, warehouseID, productID string) (*entity.InventoryItem, error) {
	return r.GetForUpdate(companyID, warehouseID, productID)
}

func (r *memInventoryRepo) GetForUpdate(companyID, warehouseID, productID string) (*entity.InventoryItem, error) {
	it, ok := r.store.items[invKey(companyID, warehouseID, productID)]
	if !ok {
		return nil, nil
	}
	c := *it
	return &c, nil
}

func (r *memInventoryRepo) Create(item *entity.InventoryItem) error {
	key := invKey(item.CompanyID, item.WarehouseID, item.ProductID)
	if _, ok := r.store.items[key]; ok {
		// violación de unicidad → el caller reintenta y encuentra la fila
		return domain.ErrConflict
	}
	c := *item
	r.store.items[key] = &c
	return nil
}

func (r *memInventoryRepo) UpdateStock(item *entity.InventoryItem) error {
	if r.store.injectConflicts > 0 {
		r.store.injectConflicts--
		return domain.ErrConflict
	}
	key := invKey(item.CompanyID, item.WarehouseID, item.ProductID)
	cur, ok := r.store.items[key]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != item.Version {
		return domain.ErrConflict
	}
	c := *item
	c.Version++
	r.store.items[key] = &c
	return nil
}

func (r *memInventoryRepo) SetMinimum(companyID, warehouseID, productID string, minimum int64) error {
	it, ok := r.store.items[invKey(companyID, warehouseID, productID)]
	if !ok {
		return domain.ErrNotFound
	}
	it.MinimumStock = minimum
	return nil
}

func (r *memInventoryRepo) ListByCompany(companyID, warehouseID string, limit, offset int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range r.store.items {
		if it.CompanyID != companyID {
			continue
		}
		if warehouseID != "" && it.WarehouseID != warehouseID {
			continue
		}
		c := *it
		out = append(out, &c)
	}
	return out, nil
}

func (r *memInventoryRepo) ListLowStock(companyID, warehouseID string) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range r.store.items {
		if it.CompanyID != companyID {
			continue
		}
		if warehouseID != "" && it.WarehouseID != warehouseID {
			continue
		}
		if it.BelowMinimum() {
			c := *it
			out = append(out, &c)
		}
	}
	return out, nil
}

type memOrderRepo struct{ store *memStore }

func (r *memOrderRepo) Create(o *entity.Order) error {
	for _, existing := range r.store.orders {
		if existing.CompanyID == o.CompanyID && existing.Number == o.Number {
			return domain.ErrDuplicate
		}
	}
	c := *o
	c.Lines = append([]entity.OrderLine(nil), o.Lines...)
	r.store.orders[o.ID] = &c
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	c.Lines = append([]entity.OrderLine(nil), o.Lines...)
	return &c, nil
}

func (r *memOrderRepo) UpdateStatus(id, status string) error {
	o, ok := r.store.orders[id]
	if !ok || o.Status != entity.OrderStatusPending {
		return domain.ErrOrderNotPending
	}
	o.Status = status
	return nil
}

func (r *memOrderRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if o.CompanyID != companyID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		c := *o
		out = append(out, &c)
	}
	return out, nil
}

type stubProductRepo struct{ products map[string]*entity.Product }

func (r *stubProductRepo) Create(*entity.Product) error { return nil }
func (r *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}
func (r *stubProductRepo) GetBySKU(string, string) (*entity.Product, error) { return nil, nil }
func (r *stubProductRepo) Update(*entity.Product) error                     { return nil }
func (r *stubProductRepo) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) Delete(string) error { return nil }

type stubWarehouseRepo struct{ warehouses map[string]*entity.Warehouse }

func (r *stubWarehouseRepo) Create(*entity.Warehouse) error { return nil }
func (r *stubWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, nil
	}
	return w, nil
}
func (r *stubWarehouseRepo) Update(*entity.Warehouse) error { return nil }
func (r *stubWarehouseRepo) ListByCompany(string, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r *stubWarehouseRepo) Delete(string) error { return nil }

// newTestUseCase arma el caso de uso con store en memoria, producto y bodegas
// de la empresa de prueba ya registrados.
func newTestUseCase(policy domaininv.NegativeStockPolicy) (*appinv.MovementUseCase, *memStore) {
	store := newMemStore()
	products := &stubProductRepo{products: map[string]*entity.Product{
		testProduct: {ID: testProduct, CompanyID: testCompany, SKU: "SKU-001", Name: "Café molido 500g"},
	}}
	warehouses := &stubWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		testWarehouse:  {ID: testWarehouse, CompanyID: testCompany, Name: "Bodega Central"},
		testWarehouse2: {ID: testWarehouse2, CompanyID: testCompany, Name: "Bodega Norte"},
	}}
	uc := appinv.NewMovementUseCase(&memTxRunner{store: store}, &memMovementRepo{store: store}, products, warehouses, policy)
	return uc, store
}

func record(t *testing.T, uc *appinv.MovementUseCase, movType string, qty int64) *entity.Movement {
	t.Helper()
	mov, err := uc.Record(context.Background(), appinv.MovementInput{
		CompanyID:   testCompany,
		UserID:      testUser,
		ProductID:   testProduct,
		WarehouseID: testWarehouse,
		Type:        movType,
		Quantity:    qty,
	})
	require.NoError(t, err)
	require.NotNil(t, mov)
	return mov
}

// ──────────────────────────────────────────────────────────────────────────────
// Protocolo de ajuste
// ──────────────────────────────────────────────────────────────────────────────

// Primera entrada sobre una llave sin registro: crea la proyección con
// stock = cantidad y mínimo = 0.
func TestRecord_CreaProyeccionEnPrimerUso(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)

	record(t, uc, entity.MovementTypeIN, 5)

	store.mu.Lock()
	item := store.items[invKey(testCompany, testWarehouse, testProduct)]
	store.mu.Unlock()
	require.NotNil(t, item, "debe crearse el registro de inventario")
	assert.Equal(t, int64(5), item.CurrentStock)
	assert.Equal(t, int64(0), item.MinimumStock)
}

// Salida sobre llave inexistente: se crea con stock 0 (no hay nada que restar).
func TestRecord_SalidaSobreLlaveNueva(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)

	record(t, uc, entity.MovementTypeOUT, 5)

	assert.Equal(t, int64(0), store.stock(t, testWarehouse, testProduct))
}

// Escenario de la vista: IN 20 sobre llave nueva → 20; luego OUT 25 → clamp a 0.
func TestRecord_SecuenciaConClamp(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)

	record(t, uc, entity.MovementTypeIN, 20)
	assert.Equal(t, int64(20), store.stock(t, testWarehouse, testProduct))

	record(t, uc, entity.MovementTypeOUT, 25)
	assert.Equal(t, int64(0), store.stock(t, testWarehouse, testProduct))
}

// Con política reject un movimiento que dejaría stock negativo se rechaza y la
// transacción completa se revierte: ni proyección ni ledger cambian.
func TestRecord_PoliticaReject(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyReject)

	record(t, uc, entity.MovementTypeIN, 10)

	_, err := uc.Record(context.Background(), appinv.MovementInput{
		CompanyID:   testCompany,
		ProductID:   testProduct,
		WarehouseID: testWarehouse,
		Type:        entity.MovementTypeOUT,
		Quantity:    50,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), store.stock(t, testWarehouse, testProduct), "el stock no debe cambiar")

	store.mu.Lock()
	assert.Len(t, store.movements, 1, "el movimiento rechazado no debe quedar en el ledger")
	store.mu.Unlock()
}

// Registrar y luego eliminar un movimiento devuelve el stock al valor previo.
func TestRecordLuegoDelete_RestauraStock(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)

	record(t, uc, entity.MovementTypeIN, 10)
	out := record(t, uc, entity.MovementTypeOUT, 4)
	assert.Equal(t, int64(6), store.stock(t, testWarehouse, testProduct))

	require.NoError(t, uc.Delete(context.Background(), testCompany, out.ID))
	assert.Equal(t, int64(10), store.stock(t, testWarehouse, testProduct))

	store.mu.Lock()
	_, exists := store.movements[out.ID]
	store.mu.Unlock()
	assert.False(t, exists, "el movimiento debe salir del ledger")
}

// Editar (IN,10) → (OUT,4) con stock inicial 10: revierte la entrada (10-10=0)
// y aplica la salida con clamp (0-4 → 0).
func TestEdit_RevierteYReaplica(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)

	mov := record(t, uc, entity.MovementTypeIN, 10)
	assert.Equal(t, int64(10), store.stock(t, testWarehouse, testProduct))

	updated, err := uc.Edit(context.Background(), testCompany, mov.ID, appinv.MovementInput{
		CompanyID:   testCompany,
		ProductID:   testProduct,
		WarehouseID: testWarehouse,
		Type:        entity.MovementTypeOUT,
		Quantity:    4,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeOUT, updated.Type)
	assert.Equal(t, int64(4), updated.Quantity)
	assert.Equal(t, int64(0), store.stock(t, testWarehouse, testProduct))
}

// Editar hacia otra bodega mueve el efecto completo de llave: la vieja queda
// revertida y la nueva recibe el delta.
func TestEdit_CambiaDeBodega(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)

	mov := record(t, uc, entity.MovementTypeIN, 5)

	_, err := uc.Edit(context.Background(), testCompany, mov.ID, appinv.MovementInput{
		CompanyID:   testCompany,
		ProductID:   testProduct,
		WarehouseID: testWarehouse2,
		Type:        entity.MovementTypeIN,
		Quantity:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.stock(t, testWarehouse, testProduct))
	assert.Equal(t, int64(5), store.stock(t, testWarehouse2, testProduct))
}

// Un tenant no puede editar ni borrar movimientos de otra empresa.
func TestEditDelete_OtraEmpresaProhibido(t *testing.T) {
	uc, _ := newTestUseCase(domaininv.PolicyClamp)
	mov := record(t, uc, entity.MovementTypeIN, 5)

	_, err := uc.Edit(context.Background(), "otra-empresa", mov.ID, appinv.MovementInput{
		ProductID:   testProduct,
		WarehouseID: testWarehouse,
		Type:        entity.MovementTypeIN,
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = uc.Delete(context.Background(), "otra-empresa", mov.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecord_Validaciones(t *testing.T) {
	uc, _ := newTestUseCase(domaininv.PolicyClamp)
	ctx := context.Background()

	_, err := uc.Record(ctx, appinv.MovementInput{
		CompanyID: testCompany, ProductID: testProduct, WarehouseID: testWarehouse,
		Type: "TRANSFER", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = uc.Record(ctx, appinv.MovementInput{
		CompanyID: testCompany, ProductID: testProduct, WarehouseID: testWarehouse,
		Type: entity.MovementTypeIN, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.Record(ctx, appinv.MovementInput{
		CompanyID: testCompany, ProductID: "no-existe", WarehouseID: testWarehouse,
		Type: entity.MovementTypeIN, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")
}

func TestList_TipoInvalido(t *testing.T) {
	uc, _ := newTestUseCase(domaininv.PolicyClamp)
	_, err := uc.List(testCompany, "ADJUST", nil, nil, 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// List respeta los filtros de tipo y rango de fechas y la paginación, con los
// más recientes primero.
func TestList_FiltrosDeTipoYFecha(t *testing.T) {
	uc, _ := newTestUseCase(domaininv.PolicyClamp)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, spec := range []struct {
		movType string
		qty     int64
		day     int
	}{
		{entity.MovementTypeIN, 10, 1},
		{entity.MovementTypeOUT, 2, 3},
		{entity.MovementTypeIN, 5, 5},
		{entity.MovementTypeIN, 1, 9},
	} {
		_, err := uc.Record(ctx, appinv.MovementInput{
			CompanyID: testCompany, UserID: testUser, ProductID: testProduct,
			WarehouseID: testWarehouse, Type: spec.movType, Quantity: spec.qty,
			Date: base.AddDate(0, 0, spec.day),
		})
		require.NoError(t, err)
	}

	from := base.AddDate(0, 0, 2)
	to := base.AddDate(0, 0, 6)
	list, err := uc.List(testCompany, entity.MovementTypeIN, &from, &to, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1, "solo la entrada del día 5 cae en el rango")
	assert.Equal(t, int64(5), list[0].Quantity)

	list, err = uc.List(testCompany, "", &from, &to, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(5), list[0].Quantity)
	assert.Equal(t, int64(2), list[1].Quantity)

	list, err = uc.List(testCompany, "", nil, nil, 2, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(5), list[0].Quantity)
	assert.Equal(t, int64(2), list[1].Quantity)
}

// Editar un movimiento que otro cliente ya eliminó termina en ErrNotFound: la
// lectura dentro de la transacción ve el borrado y no se revierte un efecto
// que ya no existe.
func TestEdit_MovimientoYaEliminado(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)
	mov := record(t, uc, entity.MovementTypeIN, 10)
	require.NoError(t, uc.Delete(context.Background(), testCompany, mov.ID))

	_, err := uc.Edit(context.Background(), testCompany, mov.ID, appinv.MovementInput{
		ProductID: testProduct, WarehouseID: testWarehouse,
		Type: entity.MovementTypeIN, Quantity: 4,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(0), store.stock(t, testWarehouse, testProduct))
	store.mu.Lock()
	assert.Empty(t, store.movements)
	store.mu.Unlock()
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Dos ajustes concurrentes sobre la misma llave (IN 5 y OUT 3 desde stock 10)
// deben serializarse a 12 en cualquier orden; nunca 15 ni 7 (lost update).
func TestConcurrencia_NoSePierdenActualizaciones(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)
	record(t, uc, entity.MovementTypeIN, 10)

	errs := make(chan error, 2)
	run := func(movType string, qty int64) {
		_, err := uc.Record(context.Background(), appinv.MovementInput{
			CompanyID: testCompany, ProductID: testProduct, WarehouseID: testWarehouse,
			Type: movType, Quantity: qty,
		})
		errs <- err
	}
	go run(entity.MovementTypeIN, 5)
	go run(entity.MovementTypeOUT, 3)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	assert.Equal(t, int64(12), store.stock(t, testWarehouse, testProduct))
}

// Muchas entradas concurrentes de 1 unidad: el total debe conservarse exacto.
func TestConcurrencia_EntradasMasivas(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)

	const n = 50
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := uc.Record(context.Background(), appinv.MovementInput{
				CompanyID: testCompany, ProductID: testProduct, WarehouseID: testWarehouse,
				Type: entity.MovementTypeIN, Quantity: 1,
			})
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	assert.Equal(t, int64(n), store.stock(t, testWarehouse, testProduct))
}

// Edit y Delete concurrentes sobre el mismo movimiento: gane quien gane, la
// proyección termina igual al replay del ledger. Aquí ambos caminos dejan el
// ledger vacío y el stock en cero; nunca stock con ledger vacío.
func TestConcurrencia_EditarYEliminarMismoMovimiento(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)
	mov := record(t, uc, entity.MovementTypeIN, 10)

	errs := make(chan error, 2)
	go func() {
		errs <- uc.Delete(context.Background(), testCompany, mov.ID)
	}()
	go func() {
		_, err := uc.Edit(context.Background(), testCompany, mov.ID, appinv.MovementInput{
			ProductID: testProduct, WarehouseID: testWarehouse,
			Type: entity.MovementTypeIN, Quantity: 4,
		})
		errs <- err
	}()
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			assert.ErrorIs(t, err, domain.ErrNotFound)
		}
	}

	store.mu.Lock()
	assert.Empty(t, store.movements, "el ledger debe quedar vacío")
	store.mu.Unlock()
	assert.Equal(t, int64(0), store.stock(t, testWarehouse, testProduct))
}

// Un ErrConflict transitorio (versión vieja de la proyección) debe reintentarse
// y terminar aplicando el ajuste una sola vez.
func TestRecord_ReintentaTrasConflicto(t *testing.T) {
	uc, store := newTestUseCase(domaininv.PolicyClamp)
	record(t, uc, entity.MovementTypeIN, 10)

	store.mu.Lock()
	store.injectConflicts = 2
	store.mu.Unlock()

	record(t, uc, entity.MovementTypeIN, 5)
	assert.Equal(t, int64(15), store.stock(t, testWarehouse, testProduct))

	store.mu.Lock()
	assert.Equal(t, 0, store.injectConflicts, "los conflictos inyectados deben consumirse")
	store.mu.Unlock()
}
