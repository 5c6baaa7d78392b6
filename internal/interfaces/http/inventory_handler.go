package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockmind/stockmind-api/internal/application/dto"
	"github.com/stockmind/stockmind-api/internal/application/inventory"
)

// InventoryHandler expone la proyección de stock: listado, stock crítico,
// stock mínimo y reconstrucción desde el ledger.
type InventoryHandler struct {
	stockUC    *inventory.StockUseCase
	movementUC *inventory.MovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stockUC *inventory.StockUseCase, movementUC *inventory.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{stockUC: stockUC, movementUC: movementUC}
}

// List godoc
// @Summary      Listar stock por llave
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.stockUC.List(companyID, c.Query("warehouse_id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Ítems en stock crítico
// @Description  Llaves con stock actual menor o igual al mínimo configurado.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {array}  dto.InventoryItemResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	out, err := h.stockUC.LowStock(companyID, c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetMinimum godoc
// @Summary      Fijar stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.SetMinimumStockRequest  true  "Llave y umbral"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/minimum [put]
func (h *InventoryHandler) SetMinimum(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.SetMinimumStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.stockUC.SetMinimum(companyID, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Rebuild godoc
// @Summary      Reconstruir stock desde el ledger
// @Description  Re-ejecuta todos los movimientos de la llave en orden cronológico y deja la proyección en el valor resultante. Repara drift.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RebuildStockRequest  true  "Llave a reconstruir"
// @Success      200   {object}  dto.RebuildStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/rebuild [post]
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.RebuildStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	stock, err := h.movementUC.RebuildStock(c.UserContext(), companyID, in.WarehouseID, in.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RebuildStockResponse{
		WarehouseID:  in.WarehouseID,
		ProductID:    in.ProductID,
		CurrentStock: stock,
	})
}
