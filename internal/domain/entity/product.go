package entity

import "time"

// UnitMeasureService marca un producto como servicio (mano de obra, diagnóstico):
// los servicios nunca tocan stock.
const UnitMeasureService = "SERVICE"

// Product representa un producto o servicio del catálogo (solo lectura para ventas).
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	UnitMeasure string // UNIT, KG, SERVICE...
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsService indica si el producto es un servicio y por lo tanto no lleva inventario.
func (p *Product) IsService() bool {
	return p.UnitMeasure == UnitMeasureService
}
