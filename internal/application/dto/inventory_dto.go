package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// type: IN (recepción) o ADJUSTMENT (cantidad con signo).
type RegisterMovementRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id,omitempty"`
	Type        string          `json:"type" validate:"required,oneof=IN ADJUSTMENT"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required" swaggertype:"string"`
	Reference   string          `json:"reference,omitempty" validate:"max=120"`
	Reason      string          `json:"reason,omitempty" validate:"max=500"`
}

// MovementResponse resultado de un movimiento manual.
type MovementResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
	NewQuantity decimal.Decimal `json:"new_quantity" swaggertype:"string"`
	RefType     string          `json:"ref_type"`
	RefID       string          `json:"ref_id"`
}

// StockMovementDTO una fila del libro de inventario.
type StockMovementDTO struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity" swaggertype:"string"`
	QuantityBefore decimal.Decimal `json:"quantity_before" swaggertype:"string"`
	QuantityAfter  decimal.Decimal `json:"quantity_after" swaggertype:"string"`
	RefType        string          `json:"ref_type"`
	RefID          string          `json:"ref_id"`
	Reason         string          `json:"reason,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// LedgerResponse libro de un producto con su verificación de consistencia.
type LedgerResponse struct {
	ProductID   string             `json:"product_id"`
	WarehouseID string             `json:"warehouse_id"`
	Quantity    decimal.Decimal    `json:"quantity" swaggertype:"string"`
	LedgerSum   decimal.Decimal    `json:"ledger_sum" swaggertype:"string"`
	Consistent  bool               `json:"consistent"`
	Movements   []StockMovementDTO `json:"movements"`
	Page        PageResponse       `json:"page"`
}

func FromStockMovement(m *entity.StockMovement) StockMovementDTO {
	out := StockMovementDTO{
		ID:             m.ID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
	if m.Ref != nil {
		out.RefType, out.RefID = m.Ref.Kind(), m.Ref.EntityID()
	}
	return out
}
