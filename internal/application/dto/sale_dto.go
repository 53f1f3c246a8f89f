package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// SaleItemRequest línea de venta en el request.
type SaleItemRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity" validate:"required,gt=0" swaggertype:"string"`
	DiscountCodes []string        `json:"discount_codes,omitempty" validate:"dive,required"`
}

// RegisterSaleRequest body para POST /api/sales.
type RegisterSaleRequest struct {
	CustomerID    string            `json:"customer_id" validate:"required"`
	WarehouseID   string            `json:"warehouse_id,omitempty"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH CARD TRANSFER CREDIT_ACCOUNT"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountCodes []string          `json:"discount_codes,omitempty" validate:"dive,required"`
}

// VoidSaleRequest body para POST /api/sales/:id/void.
type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type SaleItemDTO struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	IsService     bool            `json:"is_service"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitPrice     decimal.Decimal `json:"unit_price" swaggertype:"string"`
	GrossSubtotal decimal.Decimal `json:"gross_subtotal" swaggertype:"string"`
	LineDiscount  decimal.Decimal `json:"line_discount" swaggertype:"string"`
	NetSubtotal   decimal.Decimal `json:"net_subtotal" swaggertype:"string"`
}

type AppliedDiscountDTO struct {
	Code       string          `json:"code"`
	Kind       string          `json:"kind"`
	Value      decimal.Decimal `json:"value" swaggertype:"string"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string"`
	LineItemID string          `json:"line_item_id,omitempty"`
}

// SaleResponse venta con líneas y descuentos aplicados.
type SaleResponse struct {
	ID             string               `json:"id"`
	CustomerID     string               `json:"customer_id"`
	UserID         string               `json:"user_id"`
	WarehouseID    string               `json:"warehouse_id"`
	PaymentMethod  string               `json:"payment_method"`
	Status         string               `json:"status"`
	Subtotal       decimal.Decimal      `json:"subtotal" swaggertype:"string"`
	LineDiscounts  decimal.Decimal      `json:"line_discounts" swaggertype:"string"`
	SaleDiscounts  decimal.Decimal      `json:"sale_discounts" swaggertype:"string"`
	TotalDiscounts decimal.Decimal      `json:"total_discounts" swaggertype:"string"`
	Total          decimal.Decimal      `json:"total" swaggertype:"string"`
	VoidReason     *string              `json:"void_reason,omitempty"`
	VoidedBy       string               `json:"voided_by,omitempty"`
	VoidedAt       *time.Time           `json:"voided_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	Items          []SaleItemDTO        `json:"items"`
	Discounts      []AppliedDiscountDTO `json:"discounts"`
}

func FromSale(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:             s.ID,
		CustomerID:     s.CustomerID,
		UserID:         s.UserID,
		WarehouseID:    s.WarehouseID,
		PaymentMethod:  s.PaymentMethod,
		Status:         s.Status,
		Subtotal:       s.Subtotal,
		LineDiscounts:  s.LineDiscounts,
		SaleDiscounts:  s.SaleDiscounts,
		TotalDiscounts: s.TotalDiscounts,
		Total:          s.Total,
		VoidReason:     s.VoidReason,
		VoidedBy:       s.VoidedBy,
		VoidedAt:       s.VoidedAt,
		CreatedAt:      s.CreatedAt,
		Items:          make([]SaleItemDTO, 0, len(s.Items)),
		Discounts:      make([]AppliedDiscountDTO, 0, len(s.Discounts)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemDTO{
			ID:            it.ID,
			ProductID:     it.ProductID,
			IsService:     it.IsService,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			GrossSubtotal: it.GrossSubtotal,
			LineDiscount:  it.LineDiscount,
			NetSubtotal:   it.NetSubtotal,
		})
	}
	for _, d := range s.Discounts {
		out.Discounts = append(out.Discounts, AppliedDiscountDTO{
			Code:       d.Code,
			Kind:       d.Kind,
			Value:      d.Value,
			Amount:     d.Amount,
			LineItemID: d.LineItemID,
		})
	}
	return out
}
