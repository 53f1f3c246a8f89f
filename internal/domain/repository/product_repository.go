package repository

import (
	"context"
	"time"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del catálogo. GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

// PriceRepository define el puerto de lectura de precios vigentes.
type PriceRepository interface {
	// FindEffective devuelve el precio cuya vigencia contiene at; ante solapamiento gana
	// el de ValidFrom más reciente. (nil, nil) si no hay ninguno.
	FindEffective(ctx context.Context, productID, tier string, at time.Time) (*entity.Price, error)
}

// DiscountRepository define el puerto de lectura de descuentos. GetByCode devuelve (nil, nil) si no existe.
type DiscountRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Discount, error)
}
