package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNoPriceDefined    = errors.New("no hay precio vigente para el producto")
	ErrDiscountNotFound  = errors.New("descuento no encontrado")
	ErrDiscountScope     = errors.New("el descuento no aplica a este alcance")
	ErrAlreadyVoided     = errors.New("la venta ya está anulada")

	ErrCreditLimitExceeded          = errors.New("límite de crédito excedido")
	ErrCreditAccountForbidden       = errors.New("la cuenta corriente no admite nuevas ventas a crédito")
	ErrCreditAccountBlocked         = fmt.Errorf("cuenta corriente bloqueada: %w", ErrCreditAccountForbidden)
	ErrCreditAccountPendingApproval = fmt.Errorf("cuenta corriente pendiente de aprobación: %w", ErrCreditAccountForbidden)
	ErrCreditAccountNotFound        = errors.New("el cliente no tiene cuenta corriente")
	ErrNotCreditEligible            = errors.New("el cliente no es mayorista; no puede tener cuenta corriente")
)

// InsufficientStockError detalla el faltante de stock de un producto.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: solicitado %s, disponible %s",
		e.ProductID, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NoPriceDefinedError indica que no existe precio vigente para (producto, tipo de cliente).
type NoPriceDefinedError struct {
	ProductID string
	Tier      string
}

func (e *NoPriceDefinedError) Error() string {
	return fmt.Sprintf("no hay precio vigente para producto %s y tipo de cliente %s", e.ProductID, e.Tier)
}

func (e *NoPriceDefinedError) Is(target error) bool { return target == ErrNoPriceDefined }

// CreditLimitExceededError lleva las cifras de la validación de exposición.
type CreditLimitExceededError struct {
	AccountID string
	Balance   decimal.Decimal
	Pending   decimal.Decimal
	Limit     decimal.Decimal
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("límite de crédito excedido en cuenta %s: saldo %s + venta %s > límite %s",
		e.AccountID, e.Balance.StringFixed(2), e.Pending.StringFixed(2), e.Limit.StringFixed(2))
}

func (e *CreditLimitExceededError) Is(target error) bool { return target == ErrCreditLimitExceeded }
