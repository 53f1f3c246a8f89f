package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.PriceRepository    = (*PriceRepo)(nil)
	_ repository.DiscountRepository = (*DiscountRepo)(nil)
)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, unit_measure, active, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.UnitMeasure, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// PriceRepo lectura de la tabla de precios con vigencia.
type PriceRepo struct {
	q Querier
}

// NewPriceRepository construye el adaptador de precios.
func NewPriceRepository(q Querier) *PriceRepo {
	return &PriceRepo{q: q}
}

// FindEffective devuelve el precio vigente en at; ante solapamiento gana el ValidFrom más reciente.
func (r *PriceRepo) FindEffective(ctx context.Context, productID, tier string, at time.Time) (*entity.Price, error) {
	query := `
		SELECT id, product_id, tier, amount, valid_from, valid_until, created_at
		FROM prices
		WHERE product_id = $1 AND tier = $2
		  AND valid_from <= $3 AND (valid_until IS NULL OR valid_until > $3)
		ORDER BY valid_from DESC
		LIMIT 1`
	var p entity.Price
	err := r.q.QueryRow(ctx, query, productID, tier, at).Scan(
		&p.ID, &p.ProductID, &p.Tier, &p.Amount, &p.ValidFrom, &p.ValidUntil, &p.CreatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find effective price: %w", err)
	}
	return &p, nil
}

// DiscountRepo lectura de definiciones de descuento.
type DiscountRepo struct {
	q Querier
}

// NewDiscountRepository construye el adaptador de descuentos.
func NewDiscountRepository(q Querier) *DiscountRepo {
	return &DiscountRepo{q: q}
}

// GetByCode obtiene un descuento por código.
func (r *DiscountRepo) GetByCode(ctx context.Context, code string) (*entity.Discount, error) {
	query := `SELECT code, name, kind, value, scope FROM discounts WHERE code = $1`
	var d entity.Discount
	err := r.q.QueryRow(ctx, query, code).Scan(&d.Code, &d.Name, &d.Kind, &d.Value, &d.Scope)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount: %w", err)
	}
	return &d, nil
}
