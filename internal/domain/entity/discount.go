package entity

import "github.com/shopspring/decimal"

// Tipos de descuento.
const (
	DiscountKindPercentage = "PERCENTAGE"
	DiscountKindFixed      = "FIXED"
)

// Alcance del descuento.
const (
	DiscountScopeLine = "LINE" // por línea de venta
	DiscountScopeSale = "SALE" // sobre el subtotal bruto de la venta
)

// Discount es la definición de un descuento. Inmutable una vez referenciado por una venta.
type Discount struct {
	Code  string
	Name  string
	Kind  string
	Value decimal.Decimal // porcentaje (0-100) o monto fijo
	Scope string
}
