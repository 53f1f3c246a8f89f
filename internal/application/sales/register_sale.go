package sales

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcredit "github.com/jhoicas/repairshop-api/internal/application/credit"
	"github.com/jhoicas/repairshop-api/internal/application/hooks"
	"github.com/jhoicas/repairshop-api/internal/application/inventory"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
	apppricing "github.com/jhoicas/repairshop-api/internal/application/pricing"
	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/credit"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/pricing"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

// Deps agrupa las dependencias de los casos de uso de ventas.
type Deps struct {
	TxRunner         repository.TxRunner
	Customers        repository.CustomerRepository
	Products         repository.ProductRepository
	Discounts        repository.DiscountRepository
	CreditAccounts   repository.CreditAccountRepository
	Sales            repository.SaleRepository
	Prices           *apppricing.PriceResolver
	Ledger           *inventory.StockLedger
	Settings         ports.Settings
	Audit            ports.AuditSink
	Notifier         ports.Notifier
	Hooks            *hooks.Runner
	DefaultWarehouse string
}

// RegisterSaleUseCase registra una venta: resuelve precios, aplica descuentos, descuenta stock
// y, si corresponde, carga la cuenta corriente, todo en una sola transacción.
type RegisterSaleUseCase struct {
	deps Deps
	now  func() time.Time
}

// NewRegisterSaleUseCase construye el caso de uso.
func NewRegisterSaleUseCase(deps Deps) *RegisterSaleUseCase {
	return &RegisterSaleUseCase{deps: deps, now: time.Now}
}

// SaleItemInput línea solicitada.
type SaleItemInput struct {
	ProductID     string
	Quantity      decimal.Decimal
	DiscountCodes []string
}

// RegisterSaleInput entrada ya validada por la capa HTTP; las reglas de negocio
// (stock, precio, crédito) se vuelven a validar aquí.
type RegisterSaleInput struct {
	CustomerID    string
	UserID        string
	WarehouseID   string
	PaymentMethod string
	Items         []SaleItemInput
	DiscountCodes []string
}

// pricedLine es una línea ya resuelta fuera de la transacción.
type pricedLine struct {
	product   *entity.Product
	item      *entity.SaleLineItem
	discounts []*entity.AppliedDiscount
}

// RegisterSale ejecuta el registro completo. Cualquier error antes del commit deja la base
// intacta; los efectos posteriores al commit (auditoría, notificaciones) no pueden revertirla.
func (uc *RegisterSaleUseCase) RegisterSale(ctx context.Context, in RegisterSaleInput) (*entity.Sale, error) {
	if in.CustomerID == "" || in.UserID == "" || len(in.Items) == 0 || !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	warehouseID := in.WarehouseID
	if warehouseID == "" {
		warehouseID = uc.deps.DefaultWarehouse
	}

	customer, err := uc.deps.Customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	saleID := uuid.New().String()
	discounts := newDiscountCache(uc.deps.Discounts)

	// 1-2) Precio y descuentos por línea (fuera de la tx, solo lectura).
	lines := make([]*pricedLine, 0, len(in.Items))
	subtotal := decimal.Zero
	lineDiscounts := decimal.Zero
	for _, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.deps.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if !product.Active {
			return nil, domain.ErrInvalidInput
		}
		price, err := uc.deps.Prices.Resolve(ctx, product.ID, customer.Tier, now)
		if err != nil {
			return nil, err
		}
		gross := price.Amount.Mul(it.Quantity).Round(2)
		defs, err := discounts.load(ctx, it.DiscountCodes, entity.DiscountScopeLine)
		if err != nil {
			return nil, err
		}
		reduction, each := pricing.ApplyAll(gross, defs)
		net := pricing.NetAmount(gross, reduction)

		line := &pricedLine{
			product: product,
			item: &entity.SaleLineItem{
				ID:            uuid.New().String(),
				SaleID:        saleID,
				ProductID:     product.ID,
				IsService:     product.IsService(),
				Quantity:      it.Quantity,
				UnitPrice:     price.Amount,
				GrossSubtotal: gross,
				LineDiscount:  gross.Sub(net),
				NetSubtotal:   net,
			},
		}
		for i, def := range defs {
			line.discounts = append(line.discounts, appliedDiscount(saleID, line.item.ID, def, each[i]))
		}
		lines = append(lines, line)
		subtotal = subtotal.Add(gross)
		lineDiscounts = lineDiscounts.Add(line.item.LineDiscount)
	}

	// 3) Descuentos de venta sobre el subtotal bruto.
	saleDefs, err := discounts.load(ctx, in.DiscountCodes, entity.DiscountScopeSale)
	if err != nil {
		return nil, err
	}
	saleReduction, saleEach := pricing.ApplyAll(subtotal, saleDefs)
	total := pricing.NetAmount(subtotal, lineDiscounts.Add(saleReduction))
	totalDiscounts := subtotal.Sub(total)

	sale := &entity.Sale{
		ID:             saleID,
		CustomerID:     customer.ID,
		UserID:         in.UserID,
		WarehouseID:    warehouseID,
		PaymentMethod:  in.PaymentMethod,
		Status:         entity.SaleStatusCompleted,
		Subtotal:       subtotal,
		LineDiscounts:  lineDiscounts,
		SaleDiscounts:  totalDiscounts.Sub(lineDiscounts),
		TotalDiscounts: totalDiscounts,
		Total:          total,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, l := range lines {
		sale.Items = append(sale.Items, l.item)
		sale.Discounts = append(sale.Discounts, l.discounts...)
	}
	for i, def := range saleDefs {
		sale.Discounts = append(sale.Discounts, appliedDiscount(saleID, "", def, saleEach[i]))
	}

	// 4) Cuenta corriente: validación previa, falla cerrado antes de tocar nada.
	var account *entity.CreditAccount
	policy := appcredit.PolicyFromSettings(uc.deps.Settings)
	if sale.IsCreditAccount() {
		sale.Status = entity.SaleStatusPending
		if !customer.IsCreditEligible() {
			return nil, domain.ErrNotCreditEligible
		}
		account, err = uc.deps.CreditAccounts.GetByCustomerID(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, domain.ErrCreditAccountNotFound
		}
		if err := credit.ValidateExposure(account, total, policy.GlobalLimit); err != nil {
			return nil, err
		}
	}

	newQty := map[string]decimal.Decimal{}
	err = uc.deps.TxRunner.Run(ctx, func(tx repository.TxRepos) error {
		// 5) Bloqueo y revalidación de stock, en orden de producto para evitar deadlocks.
		stocks, err := uc.lockStock(ctx, tx, lines, warehouseID)
		if err != nil {
			return err
		}
		// La cuenta también se bloquea: dos ventas concurrentes no pueden validar contra el mismo saldo.
		if account != nil {
			account, err = tx.CreditAccounts.GetForUpdate(ctx, account.ID)
			if err != nil {
				return err
			}
			if account == nil {
				return domain.ErrCreditAccountNotFound
			}
			if err := credit.ValidateExposure(account, total, policy.GlobalLimit); err != nil {
				return err
			}
		}

		// 6) Venta, líneas y descuentos aplicados.
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}

		// 7) Salidas de stock referenciando la venta.
		ref := entity.SaleRef{SaleID: sale.ID}
		for _, l := range lines {
			if l.item.IsService {
				continue
			}
			qty, err := uc.deps.Ledger.Decrement(ctx, tx, stocks[l.product.ID], l.item.Quantity, "venta", ref, in.UserID, now)
			if err != nil {
				return err
			}
			newQty[l.product.ID] = qty
		}

		// 8) Cargo en cuenta corriente con vencimiento = ahora + días de gracia.
		if account != nil && total.IsPositive() {
			due := account.DueDate(now)
			mov := &entity.CreditMovement{
				ID:        uuid.New().String(),
				Type:      entity.CreditMovementDebit,
				Amount:    total,
				IssueDate: now,
				DueDate:   &due,
				Ref:       ref,
				CreatedBy: in.UserID,
			}
			if err := account.ApplyMovement(mov); err != nil {
				return err
			}
			if err := tx.CreditMovements.Create(ctx, mov); err != nil {
				return err
			}
			if err := tx.CreditAccounts.Update(ctx, account); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 9) Efectos post-commit: aislados, registrados y alarmados si fallan.
	uc.deps.Hooks.Run(ctx, "sales", sale.ID, uc.afterCommitHooks(sale, account, newQty, now)...)
	return sale, nil
}

// lockStock bloquea una vez cada producto físico (cantidades de líneas repetidas sumadas)
// y revalida disponibilidad bajo el bloqueo.
func (uc *RegisterSaleUseCase) lockStock(
	ctx context.Context,
	tx repository.TxRepos,
	lines []*pricedLine,
	warehouseID string,
) (map[string]*entity.Stock, error) {
	required := map[string]decimal.Decimal{}
	products := map[string]*entity.Product{}
	for _, l := range lines {
		if l.item.IsService {
			continue
		}
		required[l.product.ID] = required[l.product.ID].Add(l.item.Quantity)
		products[l.product.ID] = l.product
	}
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stocks := make(map[string]*entity.Stock, len(ids))
	for _, id := range ids {
		stock, err := uc.deps.Ledger.ReserveAndValidate(ctx, tx, products[id], warehouseID, required[id])
		if err != nil {
			return nil, err
		}
		stocks[id] = stock
	}
	return stocks, nil
}

func (uc *RegisterSaleUseCase) afterCommitHooks(
	sale *entity.Sale,
	account *entity.CreditAccount,
	newQty map[string]decimal.Decimal,
	now time.Time,
) []hooks.Hook {
	list := []hooks.Hook{
		hooks.Audit(uc.deps.Audit, ports.AuditEntry{
			Action:      ports.AuditActionSaleCreate,
			EntityTable: "sales",
			EntityID:    sale.ID,
			After:       saleSnapshot(sale),
			ActorID:     sale.UserID,
		}),
	}
	list = append(list, stockHooks(uc.deps.Notifier, sale, newQty, now)...)

	payload := map[string]any{
		"customer_id":    sale.CustomerID,
		"payment_method": sale.PaymentMethod,
		"total":          sale.Total.StringFixed(2),
	}
	if account != nil {
		payload["credit_account_id"] = account.ID
		payload["balance"] = account.Balance.StringFixed(2)
	}
	list = append(list, hooks.Notify(uc.deps.Notifier, ports.Notification{
		Kind:       ports.SignalSaleRegistered,
		EntityType: "sale",
		EntityID:   sale.ID,
		Payload:    payload,
		OccurredAt: now,
	}))
	return list
}

// stockHooks arma una señal stock.updated por producto, en orden estable.
func stockHooks(notifier ports.Notifier, sale *entity.Sale, newQty map[string]decimal.Decimal, now time.Time) []hooks.Hook {
	ids := make([]string, 0, len(newQty))
	for id := range newQty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	list := make([]hooks.Hook, 0, len(ids))
	for _, id := range ids {
		list = append(list, hooks.StockUpdated(notifier, ports.Notification{
			Kind:       ports.SignalStockUpdated,
			EntityType: "product",
			EntityID:   id,
			Payload: map[string]any{
				"warehouse_id": sale.WarehouseID,
				"quantity":     newQty[id].String(),
				"sale_id":      sale.ID,
			},
			OccurredAt: now,
		}))
	}
	return list
}

func appliedDiscount(saleID, lineItemID string, d *entity.Discount, amount decimal.Decimal) *entity.AppliedDiscount {
	return &entity.AppliedDiscount{
		ID:         uuid.New().String(),
		SaleID:     saleID,
		LineItemID: lineItemID,
		Code:       d.Code,
		Kind:       d.Kind,
		Value:      d.Value,
		Amount:     amount,
	}
}

// discountCache evita releer el mismo código en ventas con varias líneas.
type discountCache struct {
	repo  repository.DiscountRepository
	cache map[string]*entity.Discount
}

func newDiscountCache(repo repository.DiscountRepository) *discountCache {
	return &discountCache{repo: repo, cache: map[string]*entity.Discount{}}
}

func (c *discountCache) load(ctx context.Context, codes []string, scope string) ([]*entity.Discount, error) {
	out := make([]*entity.Discount, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		d, ok := c.cache[code]
		if !ok {
			var err error
			d, err = c.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if d == nil {
				return nil, domain.ErrDiscountNotFound
			}
			c.cache[code] = d
		}
		if d.Scope != scope {
			return nil, domain.ErrDiscountScope
		}
		out = append(out, d)
	}
	return out, nil
}
