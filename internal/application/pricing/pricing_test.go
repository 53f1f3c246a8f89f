package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repairshop-api/internal/application/pricing"
	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/memory"
)

const (
	producto  = "p-1"
	minorista = "c-min"
	mayorista = "c-may"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	enero   = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	febrero = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	marzo   = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
)

func setup(t *testing.T) (*memory.Store, *pricing.PriceResolver, *pricing.QuoteUseCase) {
	t.Helper()
	store := memory.NewStore()
	store.PutProduct(entity.Product{ID: producto, SKU: "PAN-1", Name: "Pantalla", UnitMeasure: "UNIT", Active: true})
	store.PutCustomer(entity.Customer{ID: minorista, Tier: entity.CustomerTierRetail})
	store.PutCustomer(entity.Customer{ID: mayorista, Tier: entity.CustomerTierWholesale})

	// Enero a marzo 100; desde febrero rige 120 (más reciente gana). Mayorista solo hasta febrero.
	store.AddPrice(entity.Price{ProductID: producto, Tier: entity.CustomerTierRetail, Amount: d("100"), ValidFrom: enero, ValidUntil: &marzo})
	store.AddPrice(entity.Price{ProductID: producto, Tier: entity.CustomerTierRetail, Amount: d("120"), ValidFrom: febrero})
	store.AddPrice(entity.Price{ProductID: producto, Tier: entity.CustomerTierWholesale, Amount: d("80"), ValidFrom: enero, ValidUntil: &febrero})

	resolver := pricing.NewPriceResolver(store.Prices())
	return store, resolver, pricing.NewQuoteUseCase(store.Products(), store.Customers(), resolver)
}

func TestResolve_VigenciaMasRecienteGana(t *testing.T) {
	_, resolver, _ := setup(t)
	ctx := context.Background()

	p, err := resolver.Resolve(ctx, producto, entity.CustomerTierRetail, enero.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.True(t, d("100").Equal(p.Amount))

	p, err = resolver.Resolve(ctx, producto, entity.CustomerTierRetail, febrero.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.True(t, d("120").Equal(p.Amount))
}

func TestResolve_HastaEsExclusivo(t *testing.T) {
	_, resolver, _ := setup(t)

	_, err := resolver.Resolve(context.Background(), producto, entity.CustomerTierWholesale, febrero)
	var npe *domain.NoPriceDefinedError
	require.True(t, errors.As(err, &npe))
	assert.Equal(t, producto, npe.ProductID)
	assert.Equal(t, entity.CustomerTierWholesale, npe.Tier)
	assert.ErrorIs(t, err, domain.ErrNoPriceDefined)
}

func TestResolve_EntradaVacia(t *testing.T) {
	_, resolver, _ := setup(t)
	_, err := resolver.Resolve(context.Background(), "", entity.CustomerTierRetail, enero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuote_ClienteDefineElTipo(t *testing.T) {
	_, _, uc := setup(t)
	ctx := context.Background()
	at := enero.AddDate(0, 0, 5)

	q, err := uc.Quote(ctx, producto, mayorista, entity.CustomerTierRetail, at)
	require.NoError(t, err)
	assert.Equal(t, entity.CustomerTierWholesale, q.Tier, "el cliente pisa el tier pedido")
	assert.True(t, d("80").Equal(q.Price.Amount))
	assert.Equal(t, "PAN-1", q.Product.SKU)

	q, err = uc.Quote(ctx, producto, "", entity.CustomerTierRetail, at)
	require.NoError(t, err)
	assert.True(t, d("100").Equal(q.Price.Amount))
}

func TestQuote_Rechazos(t *testing.T) {
	_, _, uc := setup(t)
	ctx := context.Background()

	cases := []struct {
		name                    string
		product, customer, tier string
		want                    error
	}{
		{"producto inexistente", "nope", minorista, "", domain.ErrNotFound},
		{"cliente inexistente", producto, "nope", "", domain.ErrNotFound},
		{"tier desconocido", producto, "", "VIP", domain.ErrInvalidInput},
		{"sin precio vigente", producto, mayorista, "", domain.ErrNoPriceDefined},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Quote(ctx, tc.product, tc.customer, tc.tier, marzo)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
