package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/repairshop-api/internal/application/dto"
	"github.com/jhoicas/repairshop-api/internal/application/pricing"
)

// ProductHandler expone la cotización de precios del catálogo (protegido).
type ProductHandler struct {
	quotes *pricing.QuoteUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(quotes *pricing.QuoteUseCase) *ProductHandler {
	return &ProductHandler{quotes: quotes}
}

// Price godoc
// @Summary      Cotizar precio vigente
// @Description  customer_id tiene prioridad sobre tier; at es RFC3339 y por defecto ahora.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id           path      string  true   "ID del producto"
// @Param        customer_id  query     string  false  "Cliente cuyo tipo define el precio"
// @Param        tier         query     string  false  "RETAIL o WHOLESALE"
// @Param        at           query     string  false  "Instante de vigencia (RFC3339)"
// @Success      200          {object}  dto.PriceQuoteResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Failure      422          {object}  dto.ErrorResponse  "NO_PRICE_DEFINED"
// @Router       /api/products/{id}/price [get]
func (h *ProductHandler) Price(c *fiber.Ctx) error {
	customerID := c.Query("customer_id")
	tier := c.Query("tier")
	if customerID == "" && tier == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id o tier requerido"})
	}
	var at time.Time
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "at debe ser RFC3339"})
		}
		at = parsed
	}

	quote, err := h.quotes.Quote(c.Context(), c.Params("id"), customerID, tier, at)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromQuote(quote))
}
