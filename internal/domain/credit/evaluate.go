package credit

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// Resultado de evaluar una cuenta.
const (
	OutcomeNone       = "NONE"       // sin cambios
	OutcomeBlocked    = "BLOCKED"    // ACTIVE -> BLOCKED
	OutcomeFlagged    = "FLAGGED"    // ACTIVE -> PENDING_APPROVAL
	OutcomeNormalized = "NORMALIZED" // BLOCKED|PENDING_APPROVAL -> ACTIVE
	OutcomeReminder   = "REMINDER"   // sigue en infracción y ya no está activa
)

// Motivos de infracción.
const (
	ReasonLimitExceeded = "LIMIT_EXCEEDED"
	ReasonAgedExposure  = "AGED_EXPOSURE"
)

// Policy agrupa la configuración global que gobierna la evaluación.
type Policy struct {
	GlobalLimit      decimal.Decimal
	AutoBlockEnabled bool
}

// Evaluation es el resultado de evaluar una cuenta con sus cifras.
type Evaluation struct {
	AccountID    string
	Balance      decimal.Decimal
	AgedExposure decimal.Decimal
	Limit        decimal.Decimal
	Breach       bool
	Reason       string
	From         string
	To           string
	Outcome      string
	EvaluatedAt  time.Time
}

// Transitioned indica si la evaluación cambió el estado de la cuenta.
func (e Evaluation) Transitioned() bool {
	return e.From != e.To
}

// Evaluate aplica la máquina de estados de la cuenta corriente y, si corresponde, hace la
// transición sobre account. Es idempotente: evaluar dos veces sin cambios intermedios no
// produce una segunda transición.
func Evaluate(account *entity.CreditAccount, aging entity.CreditAging, policy Policy, now time.Time) (Evaluation, error) {
	ev := Evaluation{
		AccountID:    account.ID,
		Balance:      account.Balance,
		AgedExposure: aging.AgedExposure(),
		Limit:        account.ApplicableLimit(policy.GlobalLimit),
		From:         account.Status,
		To:           account.Status,
		Outcome:      OutcomeNone,
		EvaluatedAt:  now,
	}

	var reasons []string
	if ev.Balance.GreaterThan(ev.Limit) {
		reasons = append(reasons, ReasonLimitExceeded)
	}
	if ev.AgedExposure.IsPositive() {
		reasons = append(reasons, ReasonAgedExposure)
	}
	ev.Breach = len(reasons) > 0
	ev.Reason = strings.Join(reasons, ",")

	switch {
	case ev.Breach && account.Status == entity.CreditStatusActive:
		ev.To, ev.Outcome = entity.CreditStatusPendingApproval, OutcomeFlagged
		if policy.AutoBlockEnabled {
			ev.To, ev.Outcome = entity.CreditStatusBlocked, OutcomeBlocked
		}
	case !ev.Breach && account.Status != entity.CreditStatusActive:
		ev.To, ev.Outcome = entity.CreditStatusActive, OutcomeNormalized
	case ev.Breach:
		ev.Outcome = OutcomeReminder
	}

	if ev.Transitioned() {
		if err := account.Transition(ev.To, ev.Reason, now); err != nil {
			return ev, err
		}
	}
	return ev, nil
}
