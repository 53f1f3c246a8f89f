package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/application/pricing"
)

// PriceQuoteResponse precio vigente de un producto para un tipo de cliente.
type PriceQuoteResponse struct {
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	IsService  bool            `json:"is_service"`
	Tier       string          `json:"tier"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string"`
	ValidFrom  time.Time       `json:"valid_from"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
}

// FromQuote convierte la cotización del caso de uso.
func FromQuote(q *pricing.Quote) PriceQuoteResponse {
	return PriceQuoteResponse{
		ProductID:  q.Product.ID,
		SKU:        q.Product.SKU,
		Name:       q.Product.Name,
		IsService:  q.Product.IsService(),
		Tier:       q.Tier,
		Amount:     q.Price.Amount,
		ValidFrom:  q.Price.ValidFrom,
		ValidUntil: q.Price.ValidUntil,
	}
}
