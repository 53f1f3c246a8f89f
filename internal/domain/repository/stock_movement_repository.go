package repository

import (
	"context"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockMovementRepository define el puerto del libro de movimientos (append-only: no hay Update ni Delete).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.StockMovement, error)
	// SumSigned devuelve la suma de entradas menos salidas del producto en la bodega.
	SumSigned(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)
}
