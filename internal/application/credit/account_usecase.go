package credit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/application/hooks"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
	"github.com/jhoicas/repairshop-api/internal/domain"
	domaincredit "github.com/jhoicas/repairshop-api/internal/domain/credit"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

// AccountUseCase agrupa las operaciones sobre cuentas corrientes fuera del flujo de venta:
// apertura, pagos y estado de cuenta.
type AccountUseCase struct {
	txRunner  repository.TxRunner
	customers repository.CustomerRepository
	accounts  repository.CreditAccountRepository
	movements repository.CreditMovementRepository
	settings  ports.Settings
	audit     ports.AuditSink
	notifier  ports.Notifier
	hooks     *hooks.Runner
	now       func() time.Time
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(
	txRunner repository.TxRunner,
	customers repository.CustomerRepository,
	accounts repository.CreditAccountRepository,
	movements repository.CreditMovementRepository,
	settings ports.Settings,
	audit ports.AuditSink,
	notifier ports.Notifier,
	hookRunner *hooks.Runner,
) *AccountUseCase {
	return &AccountUseCase{
		txRunner:  txRunner,
		customers: customers,
		accounts:  accounts,
		movements: movements,
		settings:  settings,
		audit:     audit,
		notifier:  notifier,
		hooks:     hookRunner,
		now:       time.Now,
	}
}

// OpenAccountInput entrada de apertura. Limit nil usa el límite global; GraceDays nil usa
// los días de gracia globales.
type OpenAccountInput struct {
	CustomerID string
	Limit      *decimal.Decimal
	GraceDays  *int
	UserID     string
}

// OpenAccount crea la cuenta corriente de un cliente mayorista (una por cliente).
func (uc *AccountUseCase) OpenAccount(ctx context.Context, in OpenAccountInput) (*entity.CreditAccount, error) {
	if in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Limit != nil && in.Limit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.GraceDays != nil && *in.GraceDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if !customer.IsCreditEligible() {
		return nil, domain.ErrNotCreditEligible
	}
	existing, err := uc.accounts.GetByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	grace := GracePeriodDays(uc.settings)
	if in.GraceDays != nil {
		grace = *in.GraceDays
	}
	now := uc.now()
	account := &entity.CreditAccount{
		ID:              uuid.New().String(),
		CustomerID:      customer.ID,
		Balance:         decimal.Zero,
		CreditLimit:     in.Limit,
		GracePeriodDays: grace,
		Status:          entity.CreditStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	// La restricción única sobre customer_id cubre la carrera entre dos aperturas.
	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	uc.hooks.Run(ctx, "credit_accounts", account.ID,
		hooks.Audit(uc.audit, ports.AuditEntry{
			Action:      ports.AuditActionCreditOpen,
			EntityTable: "credit_accounts",
			EntityID:    account.ID,
			After:       accountSnapshot(account),
			ActorID:     in.UserID,
		}),
	)
	return account, nil
}

// RegisterPaymentInput entrada de un pago recibido.
type RegisterPaymentInput struct {
	AccountID string
	Amount    decimal.Decimal
	Method    string
	Reference string
	UserID    string
}

// PaymentResult devuelve el pago, la cuenta actualizada y la evaluación hecha al registrarlo.
type PaymentResult struct {
	Payment    *entity.Payment
	Account    *entity.CreditAccount
	Evaluation domaincredit.Evaluation
}

// RegisterPayment registra el pago como abono y re-evalúa la cuenta en la misma transacción:
// un pago que regulariza la deuda normaliza la cuenta sin esperar al barrido.
func (uc *AccountUseCase) RegisterPayment(ctx context.Context, in RegisterPaymentInput) (*PaymentResult, error) {
	if in.AccountID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if method == entity.PaymentMethodCreditAccount || !entity.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	res := &PaymentResult{}
	var before map[string]any
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		account, err := tx.CreditAccounts.GetForUpdate(ctx, in.AccountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		before = accountSnapshot(account)

		payment := &entity.Payment{
			ID:         uuid.New().String(),
			AccountID:  account.ID,
			Amount:     in.Amount,
			Method:     method,
			Reference:  in.Reference,
			ReceivedAt: now,
			CreatedBy:  in.UserID,
		}
		if err := tx.Payments.Create(ctx, payment); err != nil {
			return err
		}
		mov := &entity.CreditMovement{
			ID:        uuid.New().String(),
			Type:      entity.CreditMovementCredit,
			Amount:    in.Amount,
			IssueDate: now,
			Ref:       entity.PaymentRef{PaymentID: payment.ID},
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
		ev, err := evaluateLocked(ctx, tx, account, PolicyFromSettings(uc.settings), now)
		if err != nil {
			return err
		}
		res.Payment, res.Account, res.Evaluation = payment, account, ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	list := []hooks.Hook{
		hooks.Audit(uc.audit, ports.AuditEntry{
			Action:      ports.AuditActionPaymentRegister,
			EntityTable: "credit_accounts",
			EntityID:    res.Account.ID,
			Before:      before,
			After:       accountSnapshot(res.Account),
			ActorID:     in.UserID,
		}),
		hooks.Notify(uc.notifier, ports.Notification{
			Kind:       ports.SignalPaymentRegistered,
			EntityType: "credit_account",
			EntityID:   res.Account.ID,
			Payload: map[string]any{
				"payment_id": res.Payment.ID,
				"amount":     res.Payment.Amount.StringFixed(2),
				"method":     res.Payment.Method,
				"balance":    res.Account.Balance.StringFixed(2),
			},
			OccurredAt: now,
		}),
	}
	// Un pago no dispara recordatorios: solo señales de transición.
	list = append(list, evaluationHooks(uc.audit, uc.notifier, res.Evaluation, before, false, in.UserID)...)
	uc.hooks.Run(ctx, "credit_accounts", res.Account.ID, list...)
	return res, nil
}

// Statement es el estado de cuenta: saldo, movimientos y cifras de antigüedad a la fecha.
type Statement struct {
	Account      *entity.CreditAccount
	Movements    []*entity.CreditMovement
	AgedExposure decimal.Decimal
	Limit        decimal.Decimal
	Available    decimal.Decimal
	AsOf         time.Time
}

// GetStatement arma el estado de cuenta. No modifica el estado de la cuenta.
func (uc *AccountUseCase) GetStatement(ctx context.Context, accountID string) (*Statement, error) {
	account, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.movements.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	aging, err := uc.movements.Aging(ctx, account.ID, now)
	if err != nil {
		return nil, err
	}
	limit := account.ApplicableLimit(PolicyFromSettings(uc.settings).GlobalLimit)
	available := limit.Sub(account.Balance)
	if available.IsNegative() {
		available = decimal.Zero
	}
	return &Statement{
		Account:      account,
		Movements:    movements,
		AgedExposure: aging.AgedExposure(),
		Limit:        limit,
		Available:    available,
		AsOf:         now,
	}, nil
}
