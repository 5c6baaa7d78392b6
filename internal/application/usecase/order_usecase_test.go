package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockmind/stockmind-api/internal/application/dto"
	appinv "github.com/stockmind/stockmind-api/internal/application/inventory"
	"github.com/stockmind/stockmind-api/internal/application/usecase"
	"github.com/stockmind/stockmind-api/internal/domain"
	"github.com/stockmind/stockmind-api/internal/domain/entity"
	domaininv "github.com/stockmind/stockmind-api/internal/domain/inventory"
	"github.com/stockmind/stockmind-api/internal/domain/repository"
)

// Fakes en memoria para el flujo de órdenes: un store compartido con snapshot y
// rollback por transacción, igual que el que usan los tests del motor de
// inventario. Lo que importa aquí es que orden, líneas y movimientos viajen en
// la misma transacción.

const (
	ordCompany   = "c-1001"
	ordUser      = "u-1001"
	ordSupplier  = "s-1001"
	ordWarehouse = "w-1001"
	ordProductA  = "p-a001"
	ordProductB  = "p-b001"
)

type ordStore struct {
	mu        sync.Mutex
	movements map[string]*entity.Movement
	items     map[string]*entity.InventoryItem
	orders    map[string]*entity.Order
}

func newOrdStore() *ordStore {
	return &ordStore{
		movements: make(map[string]*entity.Movement),
		items:     make(map[string]*entity.InventoryItem),
		orders:    make(map[string]*entity.Order),
	}
}

func ordKey(companyID, warehouseID, productID string) string {
	return companyID + "|" + warehouseID + "|" + productID
}

func (s *ordStore) snapshot() (map[string]*entity.Movement, map[string]*entity.InventoryItem, map[string]*entity.Order) {
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

func (s *ordStore) stock(t *testing.T, productID string) int64 {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[ordKey(ordCompany, ordWarehouse, productID)]
	if !ok {
		return -1
	}
	return it.CurrentStock
}

type ordTxRunner struct{ store *ordStore }

func (r *ordTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	ordRepo repository.OrderRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	movSnap, itemSnap, ordSnap := r.store.snapshot()
	err := fn(&ordMovementRepo{store: r.store}, &ordInventoryRepo{store: r.store}, &ordOrderRepo{store: r.store})
	if err != nil {
		r.store.movements = movSnap
		r.store.items = itemSnap
		r.store.orders = ordSnap
		return err
	}
	return nil
}

type ordMovementRepo struct{ store *ordStore }

func (r *ordMovementRepo) Create(m *entity.Movement) error {
	c := *m
	r.store.movements[m.ID] = &c
	return nil
}

func (r *ordMovementRepo) GetByID(id string) (*entity.Movement, error) {
	m, ok := r.store.movements[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (r *ordMovementRepo) Update(m *entity.Movement) error {
	if _, ok := r.store.movements[m.ID]; !ok {
		return domain.ErrConflict
	}
	c := *m
	r.store.movements[m.ID] = &c
	return nil
}

func (r *ordMovementRepo) Delete(id string) error {
	if _, ok := r.store.movements[id]; !ok {
		return domain.ErrConflict
	}
	delete(r.store.movements, id)
	return nil
}

func (r *ordMovementRepo) ListByCompany(string, string, *time.Time, *time.Time, int, int) ([]*entity.Movement, error) {
	return nil, nil
}

func (r *ordMovementRepo) ListByKey(companyID, warehouseID, productID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.CompanyID == companyID && m.WarehouseID == warehouseID && m.ProductID == productID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

type ordInventoryRepo struct{ store *ordStore }

func (r *ordInventoryRepo) Get(companyID, warehouseID, productID string) (*entity.InventoryItem, error) {
	return r.GetForUpdate(companyID, warehouseID, productID)
}

func (r *ordInventoryRepo) GetForUpdate(companyID, warehouseID, productID string) (*entity.InventoryItem, error) {
	it, ok := r.store.items[ordKey(companyID, warehouseID, productID)]
	if !ok {
		return nil, nil
	}
	c := *it
	return &c, nil
}

func (r *ordInventoryRepo) Create(item *entity.InventoryItem) error {
	key := ordKey(item.CompanyID, item.WarehouseID, item.ProductID)
	if _, ok := r.store.items[key]; ok {
		return domain.ErrConflict
	}
	c := *item
	r.store.items[key] = &c
	return nil
}

func (r *ordInventoryRepo) UpdateStock(item *entity.InventoryItem) error {
	key := ordKey(item.CompanyID, item.WarehouseID, item.ProductID)
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

func (r *ordInventoryRepo) SetMinimum(string, string, string, int64) error { return nil }
func (r *ordInventoryRepo) ListByCompany(string, string, int, int) ([]*entity.InventoryItem, error) {
	return nil, nil
}
func (r *ordInventoryRepo) ListLowStock(string, string) ([]*entity.InventoryItem, error) {
	return nil, nil
}

type ordOrderRepo struct{ store *ordStore }

func (r *ordOrderRepo) Create(o *entity.Order) error {
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

func (r *ordOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	c.Lines = append([]entity.OrderLine(nil), o.Lines...)
	return &c, nil
}

// UpdateStatus solo saca órdenes de PENDING, como el adaptador de PostgreSQL.
func (r *ordOrderRepo) UpdateStatus(id, status string) error {
	o, ok := r.store.orders[id]
	if !ok || o.Status != entity.OrderStatusPending {
		return domain.ErrOrderNotPending
	}
	o.Status = status
	return nil
}

func (r *ordOrderRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Order, error) {
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

type ordProductRepo struct{ products map[string]*entity.Product }

func (r *ordProductRepo) Create(*entity.Product) error { return nil }
func (r *ordProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}
func (r *ordProductRepo) GetBySKU(string, string) (*entity.Product, error) { return nil, nil }
func (r *ordProductRepo) Update(*entity.Product) error                     { return nil }
func (r *ordProductRepo) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *ordProductRepo) Delete(string) error { return nil }

type ordWarehouseRepo struct{ warehouses map[string]*entity.Warehouse }

func (r *ordWarehouseRepo) Create(*entity.Warehouse) error { return nil }
func (r *ordWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, nil
	}
	return w, nil
}
func (r *ordWarehouseRepo) Update(*entity.Warehouse) error { return nil }
func (r *ordWarehouseRepo) ListByCompany(string, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r *ordWarehouseRepo) Delete(string) error { return nil }

type ordSupplierRepo struct{ suppliers map[string]*entity.Supplier }

func (r *ordSupplierRepo) Create(*entity.Supplier) error { return nil }
func (r *ordSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (r *ordSupplierRepo) Update(*entity.Supplier) error { return nil }
func (r *ordSupplierRepo) ListByCompany(string, int, int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (r *ordSupplierRepo) Delete(string) error { return nil }

// newOrderTest arma el caso de uso de órdenes sobre el store en memoria. Los
// productos registrados se pueden ajustar por test para simular líneas que
// fallan la validación.
func newOrderTest() (*usecase.OrderUseCase, *ordStore, *ordProductRepo) {
	store := newOrdStore()
	products := &ordProductRepo{products: map[string]*entity.Product{
		ordProductA: {ID: ordProductA, CompanyID: ordCompany, SKU: "SKU-A", Name: "Harina 1kg"},
		ordProductB: {ID: ordProductB, CompanyID: ordCompany, SKU: "SKU-B", Name: "Azúcar 1kg"},
	}}
	warehouses := &ordWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		ordWarehouse: {ID: ordWarehouse, CompanyID: ordCompany, Name: "Bodega Principal"},
	}}
	suppliers := &ordSupplierRepo{suppliers: map[string]*entity.Supplier{
		ordSupplier: {ID: ordSupplier, CompanyID: ordCompany, Name: "Distribuidora Andina"},
	}}
	movementUC := appinv.NewMovementUseCase(
		&ordTxRunner{store: store}, &ordMovementRepo{store: store},
		products, warehouses, domaininv.PolicyClamp,
	)
	orderUC := usecase.NewOrderUseCase(&ordOrderRepo{store: store}, suppliers, warehouses, products, movementUC)
	return orderUC, store, products
}

func createOrder(t *testing.T, uc *usecase.OrderUseCase, lines []dto.OrderLineRequest) *dto.OrderResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), ordCompany, dto.CreateOrderRequest{
		SupplierID:  ordSupplier,
		WarehouseID: ordWarehouse,
		Lines:       lines,
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

// Recibir una orden registra una entrada por línea, ajusta el stock y la deja
// en RECEIVED. Un segundo intento se rechaza sin duplicar entradas.
func TestOrderReceive_GeneraEntradasYMarcaRecibida(t *testing.T) {
	uc, store, _ := newOrderTest()
	out := createOrder(t, uc, []dto.OrderLineRequest{
		{ProductID: ordProductA, Quantity: 10, UnitPrice: decimal.NewFromInt(1200)},
		{ProductID: ordProductB, Quantity: 4, UnitPrice: decimal.NewFromInt(800)},
	})

	received, err := uc.Receive(context.Background(), ordCompany, ordUser, out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, received.Status)
	assert.Equal(t, int64(10), store.stock(t, ordProductA))
	assert.Equal(t, int64(4), store.stock(t, ordProductB))

	store.mu.Lock()
	assert.Len(t, store.movements, 2, "una entrada por línea")
	store.mu.Unlock()

	_, err = uc.Receive(context.Background(), ordCompany, ordUser, out.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotPending)
	assert.Equal(t, int64(10), store.stock(t, ordProductA), "reintentar no duplica entradas")

	store.mu.Lock()
	assert.Len(t, store.movements, 2)
	store.mu.Unlock()
}

// Si una línea falla a mitad de la recepción, nada queda aplicado: la orden
// sigue PENDING y el ledger vacío. Un reintento posterior aplica cada entrada
// exactamente una vez.
func TestOrderReceive_FallaDeLinea_NoDejaNadaAplicado(t *testing.T) {
	uc, store, products := newOrderTest()
	out := createOrder(t, uc, []dto.OrderLineRequest{
		{ProductID: ordProductA, Quantity: 10, UnitPrice: decimal.NewFromInt(1200)},
		{ProductID: ordProductB, Quantity: 4, UnitPrice: decimal.NewFromInt(800)},
	})

	// El producto de la segunda línea desaparece antes de recibir.
	delete(products.products, ordProductB)

	_, err := uc.Receive(context.Background(), ordCompany, ordUser, out.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	store.mu.Lock()
	assert.Empty(t, store.movements, "la transacción completa debe revertirse")
	assert.Equal(t, entity.OrderStatusPending, store.orders[out.ID].Status)
	store.mu.Unlock()
	assert.Equal(t, int64(-1), store.stock(t, ordProductA), "sin proyección creada")

	// Reaparece el producto y el reintento aplica cada línea una sola vez.
	products.products[ordProductB] = &entity.Product{ID: ordProductB, CompanyID: ordCompany, SKU: "SKU-B", Name: "Azúcar 1kg"}

	received, err := uc.Receive(context.Background(), ordCompany, ordUser, out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, received.Status)
	assert.Equal(t, int64(10), store.stock(t, ordProductA))
	assert.Equal(t, int64(4), store.stock(t, ordProductB))

	store.mu.Lock()
	assert.Len(t, store.movements, 2)
	store.mu.Unlock()
}

// Una orden recibida no se puede cancelar; el guard de estado vive en el repo.
func TestOrderCancel_SoloPendientes(t *testing.T) {
	uc, _, _ := newOrderTest()
	out := createOrder(t, uc, []dto.OrderLineRequest{
		{ProductID: ordProductA, Quantity: 1, UnitPrice: decimal.NewFromInt(500)},
	})

	_, err := uc.Receive(context.Background(), ordCompany, ordUser, out.ID)
	require.NoError(t, err)

	_, err = uc.Cancel(ordCompany, out.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotPending)
}

// Create calcula el total desde las líneas y deja la orden PENDING con un
// número consecutivo generado cuando no viene en el request.
func TestOrderCreate_TotalYEstadoInicial(t *testing.T) {
	uc, store, _ := newOrderTest()
	out := createOrder(t, uc, []dto.OrderLineRequest{
		{ProductID: ordProductA, Quantity: 3, UnitPrice: decimal.NewFromInt(1000)},
		{ProductID: ordProductB, Quantity: 2, UnitPrice: decimal.NewFromInt(250)},
	})

	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.NotEmpty(t, out.Number)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(3500)), "total = 3*1000 + 2*250")

	store.mu.Lock()
	stored := store.orders[out.ID]
	store.mu.Unlock()
	require.NotNil(t, stored)
	assert.Len(t, stored.Lines, 2)
}
