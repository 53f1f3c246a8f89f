package pricing

import (
	"context"
	"time"

	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

// Quote es el precio vigente de un producto para un tipo de cliente.
type Quote struct {
	Product *entity.Product
	Tier    string
	Price   *entity.Price
}

// QuoteUseCase consulta precios para el mostrador sin registrar nada.
type QuoteUseCase struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository
	resolver  *PriceResolver
}

func NewQuoteUseCase(products repository.ProductRepository, customers repository.CustomerRepository, resolver *PriceResolver) *QuoteUseCase {
	return &QuoteUseCase{products: products, customers: customers, resolver: resolver}
}

// Quote resuelve el precio. Si customerID viene, el tipo de cliente sale de él y tier se ignora.
func (uc *QuoteUseCase) Quote(ctx context.Context, productID, customerID, tier string, at time.Time) (*Quote, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if customerID != "" {
		customer, err := uc.customers.GetByID(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		tier = customer.Tier
	}
	if !entity.ValidCustomerTier(tier) {
		return nil, domain.ErrInvalidInput
	}
	price, err := uc.resolver.Resolve(ctx, product.ID, tier, at)
	if err != nil {
		return nil, err
	}
	return &Quote{Product: product, Tier: tier, Price: price}, nil
}
