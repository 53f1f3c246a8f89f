package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, customer_id, user_id, warehouse_id, payment_method, status, subtotal, line_discounts,
	sale_discounts, total_discounts, total, void_reason, voided_by, voided_at, created_at, updated_at`

// Create inserta cabecera, líneas y descuentos aplicados. Debe llamarse dentro de una tx.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		s.ID, s.CustomerID, s.UserID, s.WarehouseID, s.PaymentMethod, s.Status, s.Subtotal, s.LineDiscounts,
		s.SaleDiscounts, s.TotalDiscounts, s.Total, s.VoidReason, nullIfEmpty(s.VoidedBy), s.VoidedAt,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, is_service, quantity, unit_price,
				gross_subtotal, line_discount, net_subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, s.ID, it.ProductID, it.IsService, it.Quantity, it.UnitPrice,
			it.GrossSubtotal, it.LineDiscount, it.NetSubtotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}

	for _, d := range s.Discounts {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_discounts (id, sale_id, line_item_id, code, kind, value, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			d.ID, s.ID, nullIfEmpty(d.LineItemID), d.Code, d.Kind, d.Value, d.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert sale discount: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con líneas y descuentos.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := r.getHeader(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	if err != nil || sale == nil {
		return sale, err
	}
	if sale.Items, err = r.items(ctx, id); err != nil {
		return nil, err
	}
	if sale.Discounts, err = r.discounts(ctx, id); err != nil {
		return nil, err
	}
	return sale, nil
}

// GetForUpdate bloquea la cabecera de la venta y carga sus líneas.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := r.getHeader(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
	if err != nil || sale == nil {
		return sale, err
	}
	if sale.Items, err = r.items(ctx, id); err != nil {
		return nil, err
	}
	return sale, nil
}

// MarkVoided persiste solo el estado y los datos de anulación.
func (r *SaleRepo) MarkVoided(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $2, void_reason = $3, voided_by = $4, voided_at = $5, updated_at = $6
		WHERE id = $1 AND status <> 'VOIDED'`,
		s.ID, s.Status, s.VoidReason, nullIfEmpty(s.VoidedBy), s.VoidedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("void sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyVoided
	}
	return nil
}

func (r *SaleRepo) getHeader(ctx context.Context, query, id string) (*entity.Sale, error) {
	var (
		s        entity.Sale
		voidedBy *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CustomerID, &s.UserID, &s.WarehouseID, &s.PaymentMethod, &s.Status, &s.Subtotal,
		&s.LineDiscounts, &s.SaleDiscounts, &s.TotalDiscounts, &s.Total, &s.VoidReason, &voidedBy,
		&s.VoidedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.VoidedBy = derefString(voidedBy)
	return &s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]*entity.SaleLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, is_service, quantity, unit_price, gross_subtotal, line_discount, net_subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY product_id, id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLineItem
	for rows.Next() {
		var it entity.SaleLineItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.IsService, &it.Quantity, &it.UnitPrice,
			&it.GrossSubtotal, &it.LineDiscount, &it.NetSubtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *SaleRepo) discounts(ctx context.Context, saleID string) ([]*entity.AppliedDiscount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, line_item_id, code, kind, value, amount
		FROM sale_discounts WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale discounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.AppliedDiscount
	for rows.Next() {
		var (
			d    entity.AppliedDiscount
			line *string
		)
		if err := rows.Scan(&d.ID, &d.SaleID, &line, &d.Code, &d.Kind, &d.Value, &d.Amount); err != nil {
			return nil, fmt.Errorf("scan sale discount: %w", err)
		}
		d.LineItemID = derefString(line)
		list = append(list, &d)
	}
	return list, rows.Err()
}
