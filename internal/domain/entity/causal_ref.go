package entity

import "fmt"

// Tipos de referencia causal persistidos junto a cada movimiento (columna ref_type).
const (
	RefKindSale             = "SALE"
	RefKindVoid             = "VOID"
	RefKindReceiving        = "RECEIVING"
	RefKindManualAdjustment = "MANUAL_ADJUSTMENT"
	RefKindPayment          = "PAYMENT"
)

// CausalRef identifica la entidad que originó un movimiento de stock o de cuenta corriente.
// Es un tipo suma cerrado: solo los tipos de este paquete lo implementan.
type CausalRef interface {
	Kind() string
	EntityID() string
	causalRef()
}

// SaleRef: movimiento originado por el registro de una venta.
type SaleRef struct{ SaleID string }

// VoidRef: movimiento de reversión originado por la anulación de una venta.
type VoidRef struct{ SaleID string }

// ReceivingRef: entrada de mercadería (compras/recepción).
type ReceivingRef struct{ ReceivingID string }

// ManualAdjustmentRef: ajuste manual de inventario.
type ManualAdjustmentRef struct{ AdjustmentID string }

// PaymentRef: pago recibido en una cuenta corriente.
type PaymentRef struct{ PaymentID string }

func (r SaleRef) Kind() string     { return RefKindSale }
func (r SaleRef) EntityID() string { return r.SaleID }
func (SaleRef) causalRef()         {}

func (r VoidRef) Kind() string     { return RefKindVoid }
func (r VoidRef) EntityID() string { return r.SaleID }
func (VoidRef) causalRef()         {}

func (r ReceivingRef) Kind() string     { return RefKindReceiving }
func (r ReceivingRef) EntityID() string { return r.ReceivingID }
func (ReceivingRef) causalRef()         {}

func (r ManualAdjustmentRef) Kind() string     { return RefKindManualAdjustment }
func (r ManualAdjustmentRef) EntityID() string { return r.AdjustmentID }
func (ManualAdjustmentRef) causalRef()         {}

func (r PaymentRef) Kind() string     { return RefKindPayment }
func (r PaymentRef) EntityID() string { return r.PaymentID }
func (PaymentRef) causalRef()         {}

// ParseCausalRef reconstruye la referencia desde las columnas (ref_type, ref_id).
func ParseCausalRef(kind, id string) (CausalRef, error) {
	if id == "" {
		return nil, fmt.Errorf("referencia causal sin id (tipo %q)", kind)
	}
	switch kind {
	case RefKindSale:
		return SaleRef{SaleID: id}, nil
	case RefKindVoid:
		return VoidRef{SaleID: id}, nil
	case RefKindReceiving:
		return ReceivingRef{ReceivingID: id}, nil
	case RefKindManualAdjustment:
		return ManualAdjustmentRef{AdjustmentID: id}, nil
	case RefKindPayment:
		return PaymentRef{PaymentID: id}, nil
	}
	return nil, fmt.Errorf("tipo de referencia causal desconocido: %q", kind)
}
