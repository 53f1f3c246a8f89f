package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price es un precio de venta por (producto, tipo de cliente) con ventana de vigencia
// [ValidFrom, ValidUntil). ValidUntil nil = vigente sin fecha de cierre.
// Un precio nunca se sobrescribe: reemplazarlo cierra la fila anterior y abre una nueva.
type Price struct {
	ID         string
	ProductID  string
	Tier       string
	Amount     decimal.Decimal
	ValidFrom  time.Time
	ValidUntil *time.Time
	CreatedAt  time.Time
}

// Covers indica si el instante at cae dentro de la vigencia del precio.
func (p *Price) Covers(at time.Time) bool {
	if at.Before(p.ValidFrom) {
		return false
	}
	return p.ValidUntil == nil || at.Before(*p.ValidUntil)
}
