package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// StockMovement es un registro append-only del libro de stock: nunca se actualiza ni se borra.
// Quantity siempre es positiva; el signo lo da Type.
type StockMovement struct {
	ID             string
	ProductID      string
	WarehouseID    string
	Type           string
	Quantity       decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Reason         string
	Ref            CausalRef
	CreatedAt      time.Time
	CreatedBy      string
}

// Signed devuelve la cantidad con signo (+ entrada, - salida).
func (m *StockMovement) Signed() decimal.Decimal {
	if m.Type == MovementTypeOUT {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
