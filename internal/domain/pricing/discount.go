package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Reduction calcula el monto a descontar de base según la definición del descuento (servicio de dominio).
// Porcentaje: min(base*valor/100, base). Fijo: min(valor, base). Nunca devuelve negativo.
func Reduction(base decimal.Decimal, d *entity.Discount) decimal.Decimal {
	if d == nil || !base.IsPositive() || !d.Value.IsPositive() {
		return decimal.Zero
	}
	var r decimal.Decimal
	switch d.Kind {
	case entity.DiscountKindPercentage:
		r = base.Mul(d.Value).Div(hundred)
	case entity.DiscountKindFixed:
		r = d.Value
	default:
		return decimal.Zero
	}
	return decimal.Min(r, base).Round(2)
}

// ApplyAll suma las reducciones de varios descuentos sobre la misma base. Cada descuento
// se topea contra la base original, no contra el remanente ya descontado, por lo que la
// suma puede superar la base: quien la usa debe aplicar el piso en cero (ver NetAmount).
func ApplyAll(base decimal.Decimal, discounts []*entity.Discount) (total decimal.Decimal, each []decimal.Decimal) {
	total = decimal.Zero
	each = make([]decimal.Decimal, len(discounts))
	for i, d := range discounts {
		each[i] = Reduction(base, d)
		total = total.Add(each[i])
	}
	return total, each
}

// NetAmount devuelve base - discounts con piso en cero.
func NetAmount(base, discounts decimal.Decimal) decimal.Decimal {
	net := base.Sub(discounts)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
