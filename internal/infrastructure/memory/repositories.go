package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository       = (*CustomerRepo)(nil)
	_ repository.ProductRepository        = (*ProductRepo)(nil)
	_ repository.PriceRepository          = (*PriceRepo)(nil)
	_ repository.DiscountRepository       = (*DiscountRepo)(nil)
	_ repository.StockRepository          = (*StockRepo)(nil)
	_ repository.StockMovementRepository  = (*StockMovementRepo)(nil)
	_ repository.SaleRepository           = (*SaleRepo)(nil)
	_ repository.CreditAccountRepository  = (*CreditAccountRepo)(nil)
	_ repository.CreditMovementRepository = (*CreditMovementRepo)(nil)
	_ repository.PaymentRepository        = (*PaymentRepo)(nil)
)

// ── Catálogo ─────────────────────────────────────────────────────────────────

type CustomerRepo struct{ handle }

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.read(func(st *state) {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
	})
	return out, nil
}

type ProductRepo struct{ handle }

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

type PriceRepo struct{ handle }

// FindEffective: ante varios precios vigentes gana el de ValidFrom más reciente.
func (r *PriceRepo) FindEffective(_ context.Context, productID, tier string, at time.Time) (*entity.Price, error) {
	var out *entity.Price
	r.read(func(st *state) {
		for i := range st.prices {
			p := st.prices[i]
			if p.ProductID != productID || p.Tier != tier || !p.Covers(at) {
				continue
			}
			if out == nil || p.ValidFrom.After(out.ValidFrom) {
				out = &p
			}
		}
	})
	return out, nil
}

type DiscountRepo struct{ handle }

func (r *DiscountRepo) GetByCode(_ context.Context, code string) (*entity.Discount, error) {
	var out *entity.Discount
	r.read(func(st *state) {
		if d, ok := st.discounts[code]; ok {
			out = &d
		}
	})
	return out, nil
}

// ── Stock ────────────────────────────────────────────────────────────────────

type StockRepo struct{ handle }

func (r *StockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	out := &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
	r.read(func(st *state) {
		if s, ok := st.stock[stockKey{productID, warehouseID}]; ok {
			out = &s
		}
	})
	return out, nil
}

// GetForUpdate: dentro de una transacción el bloqueo ya lo da el mutex del runner.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *StockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	if stock.Quantity.IsNegative() {
		return &domain.InsufficientStockError{ProductID: stock.ProductID, Requested: stock.Quantity.Neg(), Available: decimal.Zero}
	}
	return r.write(func(st *state) error {
		st.stock[stockKey{stock.ProductID, stock.WarehouseID}] = *stock
		return nil
	})
}

type StockMovementRepo struct{ handle }

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.write(func(st *state) error {
		st.stockMovements = append(st.stockMovements, *m)
		return nil
	})
}

// ListByProduct devuelve los más recientes primero.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID, warehouseID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.read(func(st *state) {
		for i := len(st.stockMovements) - 1; i >= 0; i-- {
			m := st.stockMovements[i]
			if m.ProductID == productID && m.WarehouseID == warehouseID {
				out = append(out, &m)
			}
		}
	})
	if offset >= len(out) {
		return []*entity.StockMovement{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *StockMovementRepo) SumSigned(_ context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	r.read(func(st *state) {
		for i := range st.stockMovements {
			m := &st.stockMovements[i]
			if m.ProductID == productID && m.WarehouseID == warehouseID {
				sum = sum.Add(m.Signed())
			}
		}
	})
	return sum, nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

type SaleRepo struct{ handle }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.write(func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[sale.ID] = copySale(sale)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.read(func(st *state) {
		if s, ok := st.sales[id]; ok {
			c := copySale(&s)
			out = &c
		}
	})
	return out, nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

// MarkVoided solo toca estado y datos de anulación; los importes quedan como estaban.
func (r *SaleRepo) MarkVoided(_ context.Context, sale *entity.Sale) error {
	return r.write(func(st *state) error {
		cur, ok := st.sales[sale.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur = copySale(&cur)
		cur.Status = sale.Status
		cur.VoidReason = sale.VoidReason
		cur.VoidedBy = sale.VoidedBy
		cur.VoidedAt = sale.VoidedAt
		cur.UpdatedAt = sale.UpdatedAt
		st.sales[sale.ID] = cur
		return nil
	})
}

func copySale(s *entity.Sale) entity.Sale {
	c := *s
	c.Items = make([]*entity.SaleLineItem, len(s.Items))
	for i, it := range s.Items {
		item := *it
		c.Items[i] = &item
	}
	c.Discounts = make([]*entity.AppliedDiscount, len(s.Discounts))
	for i, d := range s.Discounts {
		ad := *d
		c.Discounts[i] = &ad
	}
	return c
}

// ── Cuenta corriente ─────────────────────────────────────────────────────────

type CreditAccountRepo struct{ handle }

func (r *CreditAccountRepo) Create(_ context.Context, a *entity.CreditAccount) error {
	return r.write(func(st *state) error {
		for _, existing := range st.accounts {
			if existing.CustomerID == a.CustomerID {
				return domain.ErrDuplicate
			}
		}
		st.accounts[a.ID] = *a
		return nil
	})
}

func (r *CreditAccountRepo) GetByID(_ context.Context, id string) (*entity.CreditAccount, error) {
	var out *entity.CreditAccount
	r.read(func(st *state) {
		if a, ok := st.accounts[id]; ok {
			out = &a
		}
	})
	return out, nil
}

func (r *CreditAccountRepo) GetByCustomerID(_ context.Context, customerID string) (*entity.CreditAccount, error) {
	var out *entity.CreditAccount
	r.read(func(st *state) {
		for _, a := range st.accounts {
			if a.CustomerID == customerID {
				out = &a
				return
			}
		}
	})
	return out, nil
}

func (r *CreditAccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.CreditAccount, error) {
	return r.GetByID(ctx, id)
}

func (r *CreditAccountRepo) Update(_ context.Context, a *entity.CreditAccount) error {
	return r.write(func(st *state) error {
		if _, ok := st.accounts[a.ID]; !ok {
			return domain.ErrNotFound
		}
		st.accounts[a.ID] = *a
		return nil
	})
}

func (r *CreditAccountRepo) ListIDs(_ context.Context) ([]string, error) {
	var ids []string
	r.read(func(st *state) {
		for id := range st.accounts {
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)
	return ids, nil
}

type CreditMovementRepo struct{ handle }

func (r *CreditMovementRepo) Create(_ context.Context, m *entity.CreditMovement) error {
	return r.write(func(st *state) error {
		st.creditMovements = append(st.creditMovements, *m)
		return nil
	})
}

// ListByAccount devuelve los movimientos en orden de emisión.
func (r *CreditMovementRepo) ListByAccount(_ context.Context, accountID string) ([]*entity.CreditMovement, error) {
	out := []*entity.CreditMovement{}
	r.read(func(st *state) {
		for i := range st.creditMovements {
			m := st.creditMovements[i]
			if m.AccountID == accountID {
				out = append(out, &m)
			}
		}
	})
	slices.SortStableFunc(out, func(a, b *entity.CreditMovement) int { return a.IssueDate.Compare(b.IssueDate) })
	return out, nil
}

// Aging: cargos con vencimiento anterior a at y los abonos que no son anulaciones. Una venta
// anulada no cuenta ni por su cargo ni por su abono.
func (r *CreditMovementRepo) Aging(_ context.Context, accountID string, at time.Time) (entity.CreditAging, error) {
	aging := entity.CreditAging{AgedDebits: decimal.Zero, TotalCredits: decimal.Zero}
	r.read(func(st *state) {
		voided := map[string]bool{}
		for i := range st.creditMovements {
			m := &st.creditMovements[i]
			if v, ok := m.Ref.(entity.VoidRef); ok && m.AccountID == accountID {
				voided[v.SaleID] = true
			}
		}
		for i := range st.creditMovements {
			m := &st.creditMovements[i]
			if m.AccountID != accountID {
				continue
			}
			switch m.Type {
			case entity.CreditMovementDebit:
				if s, ok := m.Ref.(entity.SaleRef); ok && voided[s.SaleID] {
					continue
				}
				if m.DueDate != nil && m.DueDate.Before(at) {
					aging.AgedDebits = aging.AgedDebits.Add(m.Amount)
				}
			case entity.CreditMovementCredit:
				if _, ok := m.Ref.(entity.VoidRef); ok {
					continue
				}
				aging.TotalCredits = aging.TotalCredits.Add(m.Amount)
			}
		}
	})
	return aging, nil
}

type PaymentRepo struct{ handle }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.write(func(st *state) error {
		st.payments = append(st.payments, *p)
		return nil
	})
}
