package credit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/repairshop-api/internal/application/hooks"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
	"github.com/jhoicas/repairshop-api/internal/domain"
	domaincredit "github.com/jhoicas/repairshop-api/internal/domain/credit"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

// Reconciler re-evalúa el estado de las cuentas corrientes (barrido periódico o a demanda).
type Reconciler struct {
	txRunner repository.TxRunner
	accounts repository.CreditAccountRepository
	settings ports.Settings
	audit    ports.AuditSink
	notifier ports.Notifier
	hooks    *hooks.Runner
	log      zerolog.Logger
	now      func() time.Time
}

// NewReconciler construye el conciliador.
func NewReconciler(
	txRunner repository.TxRunner,
	accounts repository.CreditAccountRepository,
	settings ports.Settings,
	audit ports.AuditSink,
	notifier ports.Notifier,
	hookRunner *hooks.Runner,
	log zerolog.Logger,
) *Reconciler {
	return &Reconciler{
		txRunner: txRunner,
		accounts: accounts,
		settings: settings,
		audit:    audit,
		notifier: notifier,
		hooks:    hookRunner,
		log:      log,
		now:      time.Now,
	}
}

// SweepReport resume una pasada del barrido.
type SweepReport struct {
	Evaluated  int `json:"evaluated"`
	Blocked    int `json:"blocked"`
	Flagged    int `json:"flagged"`
	Normalized int `json:"normalized"`
	Reminders  int `json:"reminders"`
	Failed     int `json:"failed"`
}

// EvaluateAccount bloquea la cuenta, calcula su antigüedad y aplica la máquina de estados.
// Las señales se emiten después del commit y solo si hubo transición (o recordatorio habilitado).
func (r *Reconciler) EvaluateAccount(ctx context.Context, accountID string) (domaincredit.Evaluation, error) {
	if accountID == "" {
		return domaincredit.Evaluation{}, domain.ErrInvalidInput
	}
	now := r.now()
	var (
		ev     domaincredit.Evaluation
		before map[string]any
	)
	err := r.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		account, err := tx.CreditAccounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		before = accountSnapshot(account)
		ev, err = evaluateLocked(ctx, tx, account, PolicyFromSettings(r.settings), now)
		return err
	})
	if err != nil {
		return ev, err
	}
	r.hooks.Run(ctx, "credit_accounts", accountID,
		evaluationHooks(r.audit, r.notifier, ev, before, RemindersEnabled(r.settings), "")...)
	return ev, nil
}

// Sweep evalúa todas las cuentas, cada una en su propia transacción. Un fallo en una cuenta
// se registra y no detiene el resto. Correr el barrido dos veces seguidas sin movimientos
// intermedios no produce transiciones ni señales nuevas, salvo los recordatorios (ver
// RemindersEnabled). El resumen de la pasada lo registra quien la invoca.
func (r *Reconciler) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	ids, err := r.accounts.ListIDs(ctx)
	if err != nil {
		return report, err
	}
	reminders := RemindersEnabled(r.settings)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		ev, err := r.EvaluateAccount(ctx, id)
		if err != nil {
			report.Failed++
			r.log.Error().Err(err).Str("account_id", id).Msg("credit sweep: fallo al evaluar cuenta")
			continue
		}
		report.Evaluated++
		switch ev.Outcome {
		case domaincredit.OutcomeBlocked:
			report.Blocked++
		case domaincredit.OutcomeFlagged:
			report.Flagged++
		case domaincredit.OutcomeNormalized:
			report.Normalized++
		case domaincredit.OutcomeReminder:
			if reminders {
				report.Reminders++
			}
		}
	}
	return report, nil
}

// evaluateLocked evalúa una cuenta ya bloqueada en tx y persiste la transición si la hubo.
func evaluateLocked(
	ctx context.Context,
	tx repository.TxRepos,
	account *entity.CreditAccount,
	policy domaincredit.Policy,
	now time.Time,
) (domaincredit.Evaluation, error) {
	aging, err := tx.CreditMovements.Aging(ctx, account.ID, now)
	if err != nil {
		return domaincredit.Evaluation{}, err
	}
	ev, err := domaincredit.Evaluate(account, aging, policy, now)
	if err != nil {
		return ev, err
	}
	if ev.Transitioned() {
		if err := tx.CreditAccounts.Update(ctx, account); err != nil {
			return ev, err
		}
	}
	return ev, nil
}

// evaluationHooks arma la auditoría y la señal correspondiente al resultado de la evaluación.
func evaluationHooks(
	audit ports.AuditSink,
	notifier ports.Notifier,
	ev domaincredit.Evaluation,
	before map[string]any,
	reminders bool,
	actorID string,
) []hooks.Hook {
	kind := ""
	switch ev.Outcome {
	case domaincredit.OutcomeBlocked:
		kind = ports.SignalCreditBlocked
	case domaincredit.OutcomeFlagged:
		kind = ports.SignalCreditPendingApproval
	case domaincredit.OutcomeNormalized:
		kind = ports.SignalCreditNormalized
	case domaincredit.OutcomeReminder:
		if reminders {
			kind = ports.SignalCreditReminder
		}
	}
	if kind == "" {
		return nil
	}

	var list []hooks.Hook
	if ev.Transitioned() {
		list = append(list, hooks.Audit(audit, ports.AuditEntry{
			Action:      ports.AuditActionCreditStatus,
			EntityTable: "credit_accounts",
			EntityID:    ev.AccountID,
			Before:      before,
			After:       map[string]any{"status": ev.To, "status_reason": ev.Reason},
			Reason:      ev.Reason,
			ActorID:     actorID,
		}))
	}
	return append(list, hooks.Notify(notifier, ports.Notification{
		Kind:       kind,
		EntityType: "credit_account",
		EntityID:   ev.AccountID,
		Payload: map[string]any{
			"from":          ev.From,
			"to":            ev.To,
			"reason":        ev.Reason,
			"balance":       ev.Balance.StringFixed(2),
			"aged_exposure": ev.AgedExposure.StringFixed(2),
			"limit":         ev.Limit.StringFixed(2),
		},
		OccurredAt: ev.EvaluatedAt,
	}))
}

func accountSnapshot(a *entity.CreditAccount) map[string]any {
	snap := map[string]any{
		"status":        a.Status,
		"status_reason": a.StatusReason,
		"balance":       a.Balance.StringFixed(2),
	}
	if a.CreditLimit != nil {
		snap["credit_limit"] = a.CreditLimit.StringFixed(2)
	}
	return snap
}
