package http

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/application/dto"
	"github.com/jhoicas/repairshop-api/internal/domain"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número (required, gt=0).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// ValidationResponse error 400 con el detalle por campo.
type ValidationResponse struct {
	dto.ErrorResponse
	Fields map[string]string `json:"fields"`
}

// bindAndValidate parsea el body y aplica los tags validate. Si falla ya escribió la respuesta
// y devuelve false; el handler debe retornar sin escribir otra.
func bindAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(ValidationResponse{
			ErrorResponse: dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"},
			Fields:        fields,
		})
	}
	return true, nil
}

// writeError traduce errores de dominio a HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrDiscountNotFound):
		status, code = fiber.StatusBadRequest, "DISCOUNT_NOT_FOUND"
	case errors.Is(err, domain.ErrDiscountScope):
		status, code = fiber.StatusBadRequest, "DISCOUNT_SCOPE"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrCreditAccountNotFound):
		status, code = fiber.StatusNotFound, "CREDIT_ACCOUNT_NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrAlreadyVoided):
		status, code = fiber.StatusConflict, "ALREADY_VOIDED"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrNoPriceDefined):
		status, code = fiber.StatusUnprocessableEntity, "NO_PRICE_DEFINED"
	case errors.Is(err, domain.ErrCreditLimitExceeded):
		status, code = fiber.StatusUnprocessableEntity, "CREDIT_LIMIT_EXCEEDED"
	case errors.Is(err, domain.ErrCreditAccountForbidden):
		status, code = fiber.StatusUnprocessableEntity, "CREDIT_ACCOUNT_FORBIDDEN"
	case errors.Is(err, domain.ErrNotCreditEligible):
		status, code = fiber.StatusUnprocessableEntity, "NOT_CREDIT_ELIGIBLE"
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error no controlado")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno del servidor"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error(), Details: errorDetails(err)})
}

// errorDetails extrae las cifras de los errores de dominio tipados.
func errorDetails(err error) map[string]string {
	var (
		stockErr *domain.InsufficientStockError
		priceErr *domain.NoPriceDefinedError
		limitErr *domain.CreditLimitExceededError
	)
	switch {
	case errors.As(err, &stockErr):
		return map[string]string{
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested.String(),
			"available":  stockErr.Available.String(),
		}
	case errors.As(err, &priceErr):
		return map[string]string{"product_id": priceErr.ProductID, "tier": priceErr.Tier}
	case errors.As(err, &limitErr):
		return map[string]string{
			"account_id": limitErr.AccountID,
			"balance":    limitErr.Balance.StringFixed(2),
			"pending":    limitErr.Pending.StringFixed(2),
			"limit":      limitErr.Limit.StringFixed(2),
		}
	}
	return nil
}
