package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockmind/stockmind-api/internal/application/inventory"
	"github.com/stockmind/stockmind-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	OrderUC     *usecase.OrderUseCase
	DashboardUC *usecase.DashboardUseCase
	MovementUC  *inventory.MovementUseCase
	StockUC     *inventory.StockUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Companies (alta de tenant, sin token)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole("admin"), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole("admin"), warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole("admin"), warehouseHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole("admin", "bodeguero"), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole("admin", "bodeguero"), productHandler.Update)
	products.Delete("/:id", RequireRole("admin"), productHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", RequireRole("admin", "bodeguero"), supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", RequireRole("admin", "bodeguero"), supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole("admin"), supplierHandler.Delete)

	// Movements: el ledger (protegido)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Post("/", RequireRole("admin", "bodeguero"), movementHandler.Record)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", RequireRole("admin", "bodeguero"), movementHandler.Edit)
	movements.Delete("/:id", RequireRole("admin", "bodeguero"), movementHandler.Delete)

	// Inventory: la proyección de stock (protegido)
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.MovementUC)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Put("/minimum", RequireRole("admin", "bodeguero"), inventoryHandler.SetMinimum)
	inv.Post("/rebuild", RequireRole("admin"), inventoryHandler.Rebuild)

	// Orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", RequireRole("admin", "bodeguero"), orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/receive", RequireRole("admin", "bodeguero"), orderHandler.Receive)
	orders.Post("/:id/cancel", RequireRole("admin", "bodeguero"), orderHandler.Cancel)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
}
