package sales

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/application/hooks"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

// VoidSaleUseCase anula una venta confirmada: devuelve stock, abona la cuenta corriente y
// marca la venta como anulada en una sola transacción.
type VoidSaleUseCase struct {
	deps Deps
	now  func() time.Time
}

// NewVoidSaleUseCase construye el caso de uso.
func NewVoidSaleUseCase(deps Deps) *VoidSaleUseCase {
	return &VoidSaleUseCase{deps: deps, now: time.Now}
}

// VoidSaleInput entrada de la anulación. Reason es obligatorio.
type VoidSaleInput struct {
	SaleID string
	Reason string
	UserID string
}

// VoidSale anula la venta. Re-anular no es un no-op: devuelve domain.ErrAlreadyVoided.
func (uc *VoidSaleUseCase) VoidSale(ctx context.Context, in VoidSaleInput) (*entity.Sale, error) {
	reason := strings.TrimSpace(in.Reason)
	if in.SaleID == "" || in.UserID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	var (
		sale    *entity.Sale
		before  map[string]any
		account *entity.CreditAccount
	)
	newQty := map[string]decimal.Decimal{}

	err := uc.deps.TxRunner.Run(ctx, func(tx repository.TxRepos) error {
		var err error
		// El bloqueo de la venta serializa anulaciones concurrentes de la misma venta.
		sale, err = tx.Sales.GetForUpdate(ctx, in.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.IsVoided() {
			return domain.ErrAlreadyVoided
		}
		before = saleSnapshot(sale)

		ref := entity.VoidRef{SaleID: sale.ID}
		for _, item := range sale.Items {
			if item.IsService {
				continue
			}
			qty, err := uc.deps.Ledger.Increment(ctx, tx, item.ProductID, sale.WarehouseID, item.Quantity,
				"anulación de venta", ref, in.UserID, now)
			if err != nil {
				return err
			}
			newQty[item.ProductID] = qty
		}

		// El abono es incondicional: la cuenta lo absorbe aunque su saldo quede negativo.
		if sale.IsCreditAccount() && sale.Total.IsPositive() {
			acc, err := tx.CreditAccounts.GetByCustomerID(ctx, sale.CustomerID)
			if err != nil {
				return err
			}
			if acc == nil {
				return domain.ErrCreditAccountNotFound
			}
			account, err = tx.CreditAccounts.GetForUpdate(ctx, acc.ID)
			if err != nil {
				return err
			}
			if account == nil {
				return domain.ErrCreditAccountNotFound
			}
			mov := &entity.CreditMovement{
				ID:        uuid.New().String(),
				Type:      entity.CreditMovementCredit,
				Amount:    sale.Total,
				IssueDate: now,
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

		sale.Status = entity.SaleStatusVoided
		sale.VoidReason = &reason
		sale.VoidedBy = in.UserID
		sale.VoidedAt = &now
		sale.UpdatedAt = now
		return tx.Sales.MarkVoided(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"customer_id":    sale.CustomerID,
		"payment_method": sale.PaymentMethod,
		"total":          sale.Total.StringFixed(2),
		"reason":         reason,
	}
	if account != nil {
		payload["credit_account_id"] = account.ID
		payload["balance"] = account.Balance.StringFixed(2)
	}
	list := []hooks.Hook{
		hooks.Audit(uc.deps.Audit, ports.AuditEntry{
			Action:      ports.AuditActionSaleVoid,
			EntityTable: "sales",
			EntityID:    sale.ID,
			Before:      before,
			After:       saleSnapshot(sale),
			Reason:      reason,
			ActorID:     in.UserID,
		}),
	}
	list = append(list, stockHooks(uc.deps.Notifier, sale, newQty, now)...)
	list = append(list, hooks.Notify(uc.deps.Notifier, ports.Notification{
		Kind:       ports.SignalSaleVoided,
		EntityType: "sale",
		EntityID:   sale.ID,
		Payload:    payload,
		OccurredAt: now,
	}))
	uc.deps.Hooks.Run(ctx, "sales", sale.ID, list...)
	return sale, nil
}

// GetSale devuelve la venta con sus líneas.
func (uc *VoidSaleUseCase) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.deps.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// saleSnapshot es la foto de la venta para auditoría.
func saleSnapshot(s *entity.Sale) map[string]any {
	snap := map[string]any{
		"status":          s.Status,
		"customer_id":     s.CustomerID,
		"payment_method":  s.PaymentMethod,
		"subtotal":        s.Subtotal.StringFixed(2),
		"total_discounts": s.TotalDiscounts.StringFixed(2),
		"total":           s.Total.StringFixed(2),
		"items":           len(s.Items),
	}
	if s.VoidReason != nil {
		snap["void_reason"] = *s.VoidReason
	}
	return snap
}
