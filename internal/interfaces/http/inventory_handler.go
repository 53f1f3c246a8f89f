package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/repairshop-api/internal/application/dto"
	"github.com/jhoicas/repairshop-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	uc               *inventory.RegisterMovementUseCase
	ledger           *inventory.StockLedger
	defaultWarehouse string
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, ledger *inventory.StockLedger, defaultWarehouse string) *InventoryHandler {
	return &InventoryHandler{uc: uc, ledger: ledger, defaultWarehouse: defaultWarehouse}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  IN suma stock (recepción); ADJUSTMENT aplica una cantidad con signo. Solo admin o bodeguero.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterMovementRequest  true  "product_id, warehouse_id, type, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.RegisterMovementRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	warehouseID := req.WarehouseID
	if warehouseID == "" {
		warehouseID = h.defaultWarehouse
	}
	res, err := h.uc.RegisterMovement(c.Context(), inventory.MovementInput{
		UserID:      userID,
		ProductID:   req.ProductID,
		WarehouseID: warehouseID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Reference:   req.Reference,
		Reason:      req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		ProductID:   res.ProductID,
		WarehouseID: res.WarehouseID,
		Type:        res.Type,
		Quantity:    res.Quantity,
		NewQuantity: res.NewQuantity,
		RefType:     res.Ref.Kind(),
		RefID:       res.Ref.EntityID(),
	})
}

// Ledger godoc
// @Summary      Libro de stock de un producto
// @Description  Movimientos más recientes primero y verificación de que su suma coincide con el stock.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    path      string  true   "ID del producto"
// @Param        warehouse_id  query     string  false  "Bodega; por defecto la configurada"
// @Param        limit         query     int     false  "Máximo 100 (por defecto 20)"
// @Param        offset        query     int     false  "Desplazamiento"
// @Success      200           {object}  dto.LedgerResponse
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger/{product_id} [get]
func (h *InventoryHandler) Ledger(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	warehouseID := c.Query("warehouse_id", h.defaultWarehouse)
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son obligatorios"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.Normalize()

	check, err := h.ledger.Verify(c.Context(), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	movs, err := h.ledger.History(c.Context(), productID, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.LedgerResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    check.Quantity,
		LedgerSum:   check.LedgerSum,
		Consistent:  check.Consistent,
		Movements:   make([]dto.StockMovementDTO, 0, len(movs)),
		Page:        dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range movs {
		out.Movements = append(out.Movements, dto.FromStockMovement(m))
	}
	return c.JSON(out)
}
