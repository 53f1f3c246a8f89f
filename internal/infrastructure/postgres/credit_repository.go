package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

var (
	_ repository.CreditAccountRepository  = (*CreditAccountRepo)(nil)
	_ repository.CreditMovementRepository = (*CreditMovementRepo)(nil)
	_ repository.PaymentRepository        = (*PaymentRepo)(nil)
)

// CreditAccountRepo implementación de CreditAccountRepository (usable con pool o tx).
type CreditAccountRepo struct {
	q Querier
}

// NewCreditAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditAccountRepository(q Querier) *CreditAccountRepo {
	return &CreditAccountRepo{q: q}
}

const accountColumns = `id, customer_id, balance, credit_limit, grace_period_days, status, status_reason,
	status_changed_at, created_at, updated_at`

// Create inserta la cuenta. Una segunda cuenta para el mismo cliente devuelve domain.ErrDuplicate.
func (r *CreditAccountRepo) Create(ctx context.Context, a *entity.CreditAccount) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO credit_accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.CustomerID, a.Balance, a.CreditLimit, a.GracePeriodDays, a.Status, a.StatusReason,
		a.StatusChangedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert credit account: %w", err)
	}
	return nil
}

func (r *CreditAccountRepo) GetByID(ctx context.Context, id string) (*entity.CreditAccount, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM credit_accounts WHERE id = $1`, id)
}

func (r *CreditAccountRepo) GetByCustomerID(ctx context.Context, customerID string) (*entity.CreditAccount, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM credit_accounts WHERE customer_id = $1`, customerID)
}

// GetForUpdate bloquea la fila de la cuenta (SELECT FOR UPDATE).
func (r *CreditAccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.CreditAccount, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM credit_accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *CreditAccountRepo) get(ctx context.Context, query, arg string) (*entity.CreditAccount, error) {
	var a entity.CreditAccount
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.CustomerID, &a.Balance, &a.CreditLimit, &a.GracePeriodDays, &a.Status, &a.StatusReason,
		&a.StatusChangedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit account: %w", err)
	}
	return &a, nil
}

// Update persiste saldo y estado.
func (r *CreditAccountRepo) Update(ctx context.Context, a *entity.CreditAccount) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE credit_accounts
		SET balance = $2, credit_limit = $3, grace_period_days = $4, status = $5, status_reason = $6,
			status_changed_at = $7, updated_at = $8
		WHERE id = $1`,
		a.ID, a.Balance, a.CreditLimit, a.GracePeriodDays, a.Status, a.StatusReason, a.StatusChangedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update credit account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListIDs devuelve todas las cuentas en orden estable.
func (r *CreditAccountRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM credit_accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list credit accounts: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan credit account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreditMovementRepo libro de la cuenta corriente (append-only).
type CreditMovementRepo struct {
	q Querier
}

// NewCreditMovementRepository construye el adaptador.
func NewCreditMovementRepository(q Querier) *CreditMovementRepo {
	return &CreditMovementRepo{q: q}
}

// Create inserta el movimiento.
func (r *CreditMovementRepo) Create(ctx context.Context, m *entity.CreditMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	refType, refID, err := refColumns(m.Ref)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO credit_movements (id, account_id, type, amount, issue_date, due_date, balance_after,
			ref_type, ref_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.AccountID, m.Type, m.Amount, m.IssueDate, m.DueDate, m.BalanceAfter,
		refType, refID, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create credit movement: %w", err)
	}
	return nil
}

// ListByAccount lista los movimientos en orden de emisión.
func (r *CreditMovementRepo) ListByAccount(ctx context.Context, accountID string) ([]*entity.CreditMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, account_id, type, amount, issue_date, due_date, balance_after, ref_type, ref_id, created_by
		FROM credit_movements WHERE account_id = $1
		ORDER BY issue_date, id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list credit movements: %w", err)
	}
	defer rows.Close()

	list := []*entity.CreditMovement{}
	for rows.Next() {
		var (
			m              entity.CreditMovement
			refType, refID string
			createdBy      *string
		)
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Type, &m.Amount, &m.IssueDate, &m.DueDate,
			&m.BalanceAfter, &refType, &refID, &createdBy); err != nil {
			return nil, fmt.Errorf("scan credit movement: %w", err)
		}
		if m.Ref, err = entity.ParseCausalRef(refType, refID); err != nil {
			return nil, err
		}
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Aging agrega en una sola consulta los cargos vencidos a la fecha at y el total de abonos.
// El cargo de una venta anulada y el abono de su anulación se descartan juntos.
func (r *CreditMovementRepo) Aging(ctx context.Context, accountID string, at time.Time) (entity.CreditAging, error) {
	var g entity.CreditAging
	err := r.q.QueryRow(ctx, `
		WITH voided AS (
			SELECT DISTINCT ref_id FROM credit_movements
			WHERE account_id = $1 AND type = 'CREDIT' AND ref_type = 'VOID'
		)
		SELECT
			COALESCE(SUM(m.amount) FILTER (WHERE m.type = 'DEBIT' AND m.due_date IS NOT NULL
				AND m.due_date < $2 AND v.ref_id IS NULL), 0),
			COALESCE(SUM(m.amount) FILTER (WHERE m.type = 'CREDIT' AND m.ref_type <> 'VOID'), 0)
		FROM credit_movements m
		LEFT JOIN voided v ON m.ref_type = 'SALE' AND v.ref_id = m.ref_id
		WHERE m.account_id = $1`, accountID, at,
	).Scan(&g.AgedDebits, &g.TotalCredits)
	if err != nil {
		return g, fmt.Errorf("credit aging: %w", err)
	}
	return g, nil
}

// PaymentRepo persistencia de pagos recibidos.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, account_id, amount, method, reference, received_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.AccountID, p.Amount, p.Method, p.Reference, p.ReceivedAt, nullIfEmpty(p.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}
