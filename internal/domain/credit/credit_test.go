package credit_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/credit"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func account(status, balance string, limit *decimal.Decimal) *entity.CreditAccount {
	return &entity.CreditAccount{
		ID:              "acc-1",
		CustomerID:      "cli-1",
		Balance:         d(balance),
		CreditLimit:     limit,
		GracePeriodDays: 30,
		Status:          status,
	}
}

func ptr(v decimal.Decimal) *decimal.Decimal { return &v }

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// ── ValidateExposure ─────────────────────────────────────────────────────────

// Escenario A: saldo 0, límite 10.000, venta 12.000 → CreditLimitExceeded.
func TestValidateExposure_ExcedeLimite(t *testing.T) {
	acc := account(entity.CreditStatusActive, "0", ptr(d("10000")))

	err := credit.ValidateExposure(acc, d("12000"), d("999999"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCreditLimitExceeded))

	var limitErr *domain.CreditLimitExceededError
	require.True(t, errors.As(err, &limitErr))
	assert.True(t, d("10000").Equal(limitErr.Limit), "usa el límite propio de la cuenta")
}

// Escenario B: saldo 5.000, límite 10.000, venta 3.000 → pasa.
func TestValidateExposure_DentroDelLimite(t *testing.T) {
	acc := account(entity.CreditStatusActive, "5000", ptr(d("10000")))
	assert.NoError(t, credit.ValidateExposure(acc, d("3000"), decimal.Zero))
}

func TestValidateExposure_JustoEnElLimitePasa(t *testing.T) {
	acc := account(entity.CreditStatusActive, "7000", nil)
	assert.NoError(t, credit.ValidateExposure(acc, d("3000"), d("10000")), "saldo + venta == límite no excede")
	assert.Error(t, credit.ValidateExposure(acc, d("3000.01"), d("10000")))
}

func TestValidateExposure_EstadosNoActivosRechazanSinCalcular(t *testing.T) {
	blocked := account(entity.CreditStatusBlocked, "0", ptr(d("10000")))
	err := credit.ValidateExposure(blocked, d("1"), d("10000"))
	assert.ErrorIs(t, err, domain.ErrCreditAccountBlocked)
	assert.ErrorIs(t, err, domain.ErrCreditAccountForbidden)

	pending := account(entity.CreditStatusPendingApproval, "0", ptr(d("10000")))
	err = credit.ValidateExposure(pending, d("1"), d("10000"))
	assert.ErrorIs(t, err, domain.ErrCreditAccountPendingApproval)
	assert.ErrorIs(t, err, domain.ErrCreditAccountForbidden)
	assert.False(t, errors.Is(err, domain.ErrCreditLimitExceeded))
}

// ── Evaluate ─────────────────────────────────────────────────────────────────

func policy(autoBlock bool) credit.Policy {
	return credit.Policy{GlobalLimit: d("10000"), AutoBlockEnabled: autoBlock}
}

// Escenario C: deuda vencida > 0 con auto-bloqueo → BLOCKED.
func TestEvaluate_DeudaVencidaBloquea(t *testing.T) {
	acc := account(entity.CreditStatusActive, "2000", nil)
	aging := entity.CreditAging{AgedDebits: d("2000"), TotalCredits: decimal.Zero}

	ev, err := credit.Evaluate(acc, aging, policy(true), now)
	require.NoError(t, err)

	assert.Equal(t, credit.OutcomeBlocked, ev.Outcome)
	assert.Equal(t, entity.CreditStatusBlocked, acc.Status)
	assert.Equal(t, credit.ReasonAgedExposure, acc.StatusReason)
	assert.True(t, ev.Transitioned())
	require.NotNil(t, acc.StatusChangedAt)
	assert.Equal(t, now, *acc.StatusChangedAt)
}

func TestEvaluate_SinAutoBloqueoQuedaPendienteDeAprobacion(t *testing.T) {
	acc := account(entity.CreditStatusActive, "12000", nil)

	ev, err := credit.Evaluate(acc, entity.CreditAging{}, policy(false), now)
	require.NoError(t, err)

	assert.Equal(t, credit.OutcomeFlagged, ev.Outcome)
	assert.Equal(t, entity.CreditStatusPendingApproval, acc.Status)
	assert.Equal(t, credit.ReasonLimitExceeded, ev.Reason)
}

func TestEvaluate_AmbosMotivos(t *testing.T) {
	acc := account(entity.CreditStatusActive, "12000", nil)
	ev, err := credit.Evaluate(acc, entity.CreditAging{AgedDebits: d("500")}, policy(true), now)
	require.NoError(t, err)
	assert.Equal(t, "LIMIT_EXCEEDED,AGED_EXPOSURE", ev.Reason)
}

// Escenario D: cuenta bloqueada sin deuda vencida y bajo el límite → ACTIVE.
func TestEvaluate_NormalizaCuandoSeRegulariza(t *testing.T) {
	acc := account(entity.CreditStatusBlocked, "0", nil)
	aging := entity.CreditAging{AgedDebits: d("2000"), TotalCredits: d("2000")}

	ev, err := credit.Evaluate(acc, aging, policy(true), now)
	require.NoError(t, err)

	assert.Equal(t, credit.OutcomeNormalized, ev.Outcome)
	assert.Equal(t, entity.CreditStatusActive, acc.Status)
	assert.True(t, ev.AgedExposure.IsZero())
}

func TestEvaluate_NoActivaEnInfraccionSoloRecuerda(t *testing.T) {
	acc := account(entity.CreditStatusPendingApproval, "100", nil)
	ev, err := credit.Evaluate(acc, entity.CreditAging{AgedDebits: d("100")}, policy(true), now)
	require.NoError(t, err)

	assert.Equal(t, credit.OutcomeReminder, ev.Outcome)
	assert.False(t, ev.Transitioned())
	assert.Equal(t, entity.CreditStatusPendingApproval, acc.Status, "no pasa de PENDING_APPROVAL a BLOCKED")
}

func TestEvaluate_Idempotente(t *testing.T) {
	acc := account(entity.CreditStatusActive, "2000", nil)
	aging := entity.CreditAging{AgedDebits: d("2000")}

	first, err := credit.Evaluate(acc, aging, policy(true), now)
	require.NoError(t, err)
	second, err := credit.Evaluate(acc, aging, policy(true), now.Add(time.Second))
	require.NoError(t, err)

	assert.True(t, first.Transitioned())
	assert.False(t, second.Transitioned())
	assert.Equal(t, entity.CreditStatusBlocked, acc.Status)
}

func TestEvaluate_ActivaSinInfraccionNoCambia(t *testing.T) {
	acc := account(entity.CreditStatusActive, "9999.99", nil)
	ev, err := credit.Evaluate(acc, entity.CreditAging{}, policy(true), now)
	require.NoError(t, err)
	assert.Equal(t, credit.OutcomeNone, ev.Outcome)
	assert.False(t, ev.Breach)
}

// Los abonos compensan la deuda vencida como agregado y nunca la vuelven negativa.
func TestCreditAging_AgedExposure(t *testing.T) {
	assert.True(t, d("300").Equal(entity.CreditAging{AgedDebits: d("500"), TotalCredits: d("200")}.AgedExposure()))
	assert.True(t, entity.CreditAging{AgedDebits: d("500"), TotalCredits: d("800")}.AgedExposure().IsZero())
}

func TestTransition_RechazaTransicionesIlegales(t *testing.T) {
	acc := account(entity.CreditStatusBlocked, "0", nil)
	assert.Error(t, acc.Transition(entity.CreditStatusPendingApproval, "", now))
	acc.Status = entity.CreditStatusActive
	assert.Error(t, acc.Transition(entity.CreditStatusActive, "", now))
}
