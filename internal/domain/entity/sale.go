package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. VOIDED es terminal.
const (
	SaleStatusPending   = "PENDING"   // venta a cuenta corriente, pendiente de cobro
	SaleStatusCompleted = "COMPLETED" // cobrada al contado
	SaleStatusVoided    = "VOIDED"
)

// Medios de pago.
const (
	PaymentMethodCash          = "CASH"
	PaymentMethodCard          = "CARD"
	PaymentMethodTransfer      = "TRANSFER"
	PaymentMethodCreditAccount = "CREDIT_ACCOUNT" // cuenta corriente
)

// ValidPaymentMethod indica si m es un medio de pago conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCreditAccount:
		return true
	}
	return false
}

// Sale es la cabecera de una venta. Los campos financieros no se editan después del commit;
// la anulación solo cambia Status y los datos de anulación.
type Sale struct {
	ID             string
	CustomerID     string
	UserID         string
	WarehouseID    string
	PaymentMethod  string
	Status         string
	Subtotal       decimal.Decimal // subtotal bruto (precio x cantidad)
	LineDiscounts  decimal.Decimal
	SaleDiscounts  decimal.Decimal
	TotalDiscounts decimal.Decimal
	Total          decimal.Decimal
	VoidReason     *string
	VoidedBy       string
	VoidedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items     []*SaleLineItem
	Discounts []*AppliedDiscount
}

// IsCreditAccount indica si la venta se cargó a cuenta corriente.
func (s *Sale) IsCreditAccount() bool {
	return s.PaymentMethod == PaymentMethodCreditAccount
}

// IsVoided indica si la venta ya fue anulada.
func (s *Sale) IsVoided() bool {
	return s.Status == SaleStatusVoided
}

// SaleLineItem es una línea de la venta; pertenece exclusivamente a su venta y no se modifica.
type SaleLineItem struct {
	ID            string
	SaleID        string
	ProductID     string
	IsService     bool
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	GrossSubtotal decimal.Decimal
	LineDiscount  decimal.Decimal
	NetSubtotal   decimal.Decimal
}

// AppliedDiscount conserva el descuento tal como se aplicó (fidelidad histórica).
// LineItemID vacío = descuento sobre la venta completa.
type AppliedDiscount struct {
	ID         string
	SaleID     string
	LineItemID string
	Code       string
	Kind       string
	Value      decimal.Decimal
	Amount     decimal.Decimal
}
