package pricing

import (
	"context"
	"time"

	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

// PriceResolver resuelve el precio vigente de un producto para un tipo de cliente.
type PriceResolver struct {
	priceRepo repository.PriceRepository
	now       func() time.Time
}

// NewPriceResolver construye el resolver.
func NewPriceResolver(priceRepo repository.PriceRepository) *PriceResolver {
	return &PriceResolver{priceRepo: priceRepo, now: time.Now}
}

// Resolve devuelve el precio cuya vigencia [desde, hasta) contiene at (cero = ahora).
// Sin precio vigente devuelve *domain.NoPriceDefinedError: no hay precio por defecto.
func (r *PriceResolver) Resolve(ctx context.Context, productID, tier string, at time.Time) (*entity.Price, error) {
	if productID == "" || tier == "" {
		return nil, domain.ErrInvalidInput
	}
	if at.IsZero() {
		at = r.now()
	}
	price, err := r.priceRepo.FindEffective(ctx, productID, tier, at)
	if err != nil {
		return nil, err
	}
	if price == nil || !price.Covers(at) {
		return nil, &domain.NoPriceDefinedError{ProductID: productID, Tier: tier}
	}
	return price, nil
}
