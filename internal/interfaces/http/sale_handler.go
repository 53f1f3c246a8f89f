package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/repairshop-api/internal/application/dto"
	"github.com/jhoicas/repairshop-api/internal/application/sales"
)

// SaleHandler maneja registro, consulta y anulación de ventas (protegido).
type SaleHandler struct {
	register *sales.RegisterSaleUseCase
	void     *sales.VoidSaleUseCase
}

func NewSaleHandler(register *sales.RegisterSaleUseCase, void *sales.VoidSaleUseCase) *SaleHandler {
	return &SaleHandler{register: register, void: void}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Precios por tipo de cliente, descuentos y descuento de stock en una sola transacción.
// @Description  Con payment_method=CREDIT_ACCOUNT la venta queda PENDING y se carga a la cuenta corriente.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterSaleRequest  true  "cliente, medio de pago, líneas y códigos de descuento"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Failure      422   {object}  dto.ErrorResponse  "NO_PRICE_DEFINED, CREDIT_LIMIT_EXCEEDED, CREDIT_ACCOUNT_FORBIDDEN"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.RegisterSaleRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	in := sales.RegisterSaleInput{
		CustomerID:    req.CustomerID,
		UserID:        userID,
		WarehouseID:   req.WarehouseID,
		PaymentMethod: req.PaymentMethod,
		DiscountCodes: req.DiscountCodes,
		Items:         make([]sales.SaleItemInput, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, sales.SaleItemInput{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			DiscountCodes: it.DiscountCodes,
		})
	}

	sale, err := h.register.RegisterSale(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSale(sale))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.void.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSale(sale))
}

// Void godoc
// @Summary      Anular venta
// @Description  Devuelve el stock, abona la cuenta corriente si la venta fue a crédito y marca la venta VOIDED.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ID de la venta"
// @Param        body  body      dto.VoidSaleRequest  true  "motivo obligatorio"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "ALREADY_VOIDED"
// @Router       /api/sales/{id}/void [post]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	var req dto.VoidSaleRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	sale, err := h.void.VoidSale(c.Context(), sales.VoidSaleInput{
		SaleID: c.Params("id"),
		Reason: req.Reason,
		UserID: GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSale(sale))
}
