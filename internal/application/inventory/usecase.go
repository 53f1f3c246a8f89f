package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/application/hooks"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

// Tipos de movimiento manual admitidos por RegisterMovement.
const (
	ManualTypeIN         = "IN"         // recepción de mercadería
	ManualTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual (+/-)
)

// RegisterMovementUseCase registra entradas y ajustes manuales de inventario de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner    repository.TxRunner
	productRepo repository.ProductRepository
	ledger      *StockLedger
	audit       ports.AuditSink
	notifier    ports.Notifier
	hooks       *hooks.Runner
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner repository.TxRunner,
	productRepo repository.ProductRepository,
	ledger *StockLedger,
	audit ports.AuditSink,
	notifier ports.Notifier,
	hookRunner *hooks.Runner,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		ledger:      ledger,
		audit:       audit,
		notifier:    notifier,
		hooks:       hookRunner,
	}
}

// MovementInput entrada para registrar un movimiento manual.
// IN: Quantity > 0, Reference = ID de la recepción (opcional, se genera si falta).
// ADJUSTMENT: Quantity != 0; negativo descuenta.
type MovementInput struct {
	UserID      string
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    decimal.Decimal
	Reference   string
	Reason      string
}

// MovementResult resultado del registro.
type MovementResult struct {
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    decimal.Decimal
	NewQuantity decimal.Decimal
	Ref         entity.CausalRef
}

// RegisterMovement valida la entrada, abre la transacción, bloquea la fila de stock y aplica
// el movimiento. Un ajuste negativo que deje stock negativo falla con InsufficientStockError.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if in.ProductID == "" || in.WarehouseID == "" || in.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	reference := in.Reference
	if reference == "" {
		reference = uuid.New().String()
	}
	var ref entity.CausalRef
	switch in.Type {
	case ManualTypeIN:
		if in.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		ref = entity.ReceivingRef{ReceivingID: reference}
	case ManualTypeADJUSTMENT:
		ref = entity.ManualAdjustmentRef{AdjustmentID: reference}
	default:
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.IsService() {
		return nil, domain.ErrInvalidInput
	}

	reason := in.Reason
	if reason == "" {
		reason = "recepción de mercadería"
		if in.Type == ManualTypeADJUSTMENT {
			reason = "ajuste manual"
		}
	}

	now := time.Now()
	res := &MovementResult{ProductID: in.ProductID, WarehouseID: in.WarehouseID, Type: in.Type, Quantity: in.Quantity, Ref: ref}
	err = uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		if in.Quantity.IsPositive() {
			qty, err := uc.ledger.Increment(ctx, tx, in.ProductID, in.WarehouseID, in.Quantity, reason, ref, in.UserID, now)
			res.NewQuantity = qty
			return err
		}
		out := in.Quantity.Neg()
		stock, err := uc.ledger.ReserveAndValidate(ctx, tx, product, in.WarehouseID, out)
		if err != nil {
			return err
		}
		qty, err := uc.ledger.Decrement(ctx, tx, stock, out, reason, ref, in.UserID, now)
		res.NewQuantity = qty
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.hooks.Run(ctx, "stock", in.ProductID,
		hooks.Audit(uc.audit, ports.AuditEntry{
			Action:      ports.AuditActionStockMovement,
			EntityTable: "stock",
			EntityID:    in.ProductID,
			After:       res,
			Reason:      reason,
			ActorID:     in.UserID,
		}),
		hooks.StockUpdated(uc.notifier, ports.Notification{
			Kind:       ports.SignalStockUpdated,
			EntityType: "product",
			EntityID:   in.ProductID,
			Payload: map[string]any{
				"warehouse_id": in.WarehouseID,
				"quantity":     res.NewQuantity.String(),
				"ref_type":     ref.Kind(),
				"ref_id":       ref.EntityID(),
			},
			OccurredAt: now,
		}),
	)
	return res, nil
}
