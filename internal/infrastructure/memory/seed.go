package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// PutCustomer agrega o reemplaza un cliente.
func (s *Store) PutCustomer(c entity.Customer) {
	s.mutate(func(st *state) { st.customers[c.ID] = c })
}

// PutProduct agrega o reemplaza un producto.
func (s *Store) PutProduct(p entity.Product) {
	s.mutate(func(st *state) { st.products[p.ID] = p })
}

// AddPrice agrega un precio (las filas de precio nunca se reemplazan).
func (s *Store) AddPrice(p entity.Price) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.mutate(func(st *state) { st.prices = append(st.prices, p) })
}

// PutDiscount agrega o reemplaza un descuento por código.
func (s *Store) PutDiscount(d entity.Discount) {
	s.mutate(func(st *state) { st.discounts[d.Code] = d })
}

// PutCreditAccount agrega o reemplaza una cuenta corriente tal cual (sin movimientos).
func (s *Store) PutCreditAccount(a entity.CreditAccount) {
	s.mutate(func(st *state) { st.accounts[a.ID] = a })
}

// AddCreditMovement agrega un movimiento histórico y actualiza el saldo de la cuenta.
func (s *Store) AddCreditMovement(m entity.CreditMovement) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	s.mutate(func(st *state) {
		if a, ok := st.accounts[m.AccountID]; ok {
			a.Balance = a.Balance.Add(m.Signed())
			m.BalanceAfter = a.Balance
			st.accounts[a.ID] = a
		}
		st.creditMovements = append(st.creditMovements, m)
	})
}

// Receive registra stock inicial como una recepción, para que el libro cuadre con la cantidad.
func (s *Store) Receive(productID, warehouseID string, qty decimal.Decimal) {
	now := time.Now()
	s.mutate(func(st *state) {
		key := stockKey{productID, warehouseID}
		cur, ok := st.stock[key]
		if !ok {
			cur = entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
		}
		before := cur.Quantity
		cur.Quantity = before.Add(qty)
		cur.UpdatedAt = now
		st.stock[key] = cur
		st.stockMovements = append(st.stockMovements, entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      productID,
			WarehouseID:    warehouseID,
			Type:           entity.MovementTypeIN,
			Quantity:       qty,
			QuantityBefore: before,
			QuantityAfter:  cur.Quantity,
			Reason:         "stock inicial",
			Ref:            entity.ReceivingRef{ReceivingID: "seed"},
			CreatedAt:      now,
		})
	})
}

func (s *Store) mutate(fn func(st *state)) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// Identificadores fijos del catálogo de demostración.
const (
	DemoWarehouseID      = "00000000-0000-0000-0000-000000000001"
	DemoRetailCustomer   = "00000000-0000-0000-0000-0000000000c1"
	DemoWholesaleCust    = "00000000-0000-0000-0000-0000000000c2"
	DemoProductScreen    = "00000000-0000-0000-0000-0000000000a1"
	DemoProductBattery   = "00000000-0000-0000-0000-0000000000a2"
	DemoServiceDiagnosis = "00000000-0000-0000-0000-0000000000a3"
	DemoCreditAccountID  = "00000000-0000-0000-0000-0000000000d1"
)

// NewSeeded crea un almacén con un catálogo mínimo de demostración (STORAGE=memory).
func NewSeeded() *Store {
	s := NewStore()
	now := time.Now()
	from := now.AddDate(0, -1, 0)

	s.PutCustomer(entity.Customer{ID: DemoRetailCustomer, Name: "Consumidor final", Tier: entity.CustomerTierRetail, CreatedAt: now, UpdatedAt: now})
	s.PutCustomer(entity.Customer{ID: DemoWholesaleCust, Name: "Taller Mayorista SRL", Tier: entity.CustomerTierWholesale, CreatedAt: now, UpdatedAt: now})

	products := []struct {
		id, sku, name, um string
		retail, whole     string
		stock             int64
	}{
		{DemoProductScreen, "PAN-001", "Pantalla 6.1\"", "UNIT", "45000", "38000", 10},
		{DemoProductBattery, "BAT-001", "Batería 3000mAh", "UNIT", "12000", "9500", 25},
		{DemoServiceDiagnosis, "SRV-001", "Diagnóstico", entity.UnitMeasureService, "5000", "4000", 0},
	}
	for _, p := range products {
		s.PutProduct(entity.Product{ID: p.id, SKU: p.sku, Name: p.name, UnitMeasure: p.um, Active: true, CreatedAt: now, UpdatedAt: now})
		s.AddPrice(entity.Price{ProductID: p.id, Tier: entity.CustomerTierRetail, Amount: decimal.RequireFromString(p.retail), ValidFrom: from, CreatedAt: now})
		s.AddPrice(entity.Price{ProductID: p.id, Tier: entity.CustomerTierWholesale, Amount: decimal.RequireFromString(p.whole), ValidFrom: from, CreatedAt: now})
		if p.stock > 0 {
			s.Receive(p.id, DemoWarehouseID, decimal.NewFromInt(p.stock))
		}
	}

	s.PutDiscount(entity.Discount{Code: "PROMO10", Name: "Promo 10%", Kind: entity.DiscountKindPercentage, Value: decimal.NewFromInt(10), Scope: entity.DiscountScopeLine})
	s.PutDiscount(entity.Discount{Code: "CLIENTE5K", Name: "Bonificación cliente", Kind: entity.DiscountKindFixed, Value: decimal.NewFromInt(5000), Scope: entity.DiscountScopeSale})

	limit := decimal.NewFromInt(200000)
	s.PutCreditAccount(entity.CreditAccount{
		ID:              DemoCreditAccountID,
		CustomerID:      DemoWholesaleCust,
		Balance:         decimal.Zero,
		CreditLimit:     &limit,
		GracePeriodDays: 30,
		Status:          entity.CreditStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	return s
}
