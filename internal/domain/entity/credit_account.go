package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la cuenta corriente.
const (
	CreditStatusActive          = "ACTIVE"
	CreditStatusBlocked         = "BLOCKED"
	CreditStatusPendingApproval = "PENDING_APPROVAL"
)

// Tipos de movimiento de cuenta corriente.
const (
	CreditMovementDebit  = "DEBIT"  // cargo (venta)
	CreditMovementCredit = "CREDIT" // abono (pago, anulación)
)

// CreditAccount es la cuenta corriente de un cliente mayorista.
// Balance es la suma con signo de sus movimientos y solo cambia vía ApplyMovement.
// Status solo cambia vía la evaluación de la cuenta (barrido o pago), nunca por asignación directa
// desde la capa de aplicación.
type CreditAccount struct {
	ID              string
	CustomerID      string
	Balance         decimal.Decimal
	CreditLimit     *decimal.Decimal // nil = límite global
	GracePeriodDays int
	Status          string
	StatusReason    string
	StatusChangedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ApplicableLimit devuelve el límite propio de la cuenta o, si no tiene, el global.
func (a *CreditAccount) ApplicableLimit(globalLimit decimal.Decimal) decimal.Decimal {
	if a.CreditLimit != nil {
		return *a.CreditLimit
	}
	return globalLimit
}

// DueDate calcula el vencimiento de un cargo emitido en issuedAt.
func (a *CreditAccount) DueDate(issuedAt time.Time) time.Time {
	return issuedAt.AddDate(0, 0, a.GracePeriodDays)
}

// ApplyMovement actualiza el saldo con el movimiento y completa BalanceAfter.
func (a *CreditAccount) ApplyMovement(m *CreditMovement) error {
	if !m.Amount.IsPositive() {
		return fmt.Errorf("movimiento de cuenta corriente con monto no positivo: %s", m.Amount.String())
	}
	switch m.Type {
	case CreditMovementDebit:
		a.Balance = a.Balance.Add(m.Amount)
	case CreditMovementCredit:
		a.Balance = a.Balance.Sub(m.Amount)
	default:
		return fmt.Errorf("tipo de movimiento de cuenta corriente desconocido: %q", m.Type)
	}
	m.AccountID = a.ID
	m.BalanceAfter = a.Balance
	a.UpdatedAt = m.IssueDate
	return nil
}

// Transition cambia el estado de la cuenta. Solo son legales ACTIVE -> BLOCKED,
// ACTIVE -> PENDING_APPROVAL y BLOCKED|PENDING_APPROVAL -> ACTIVE.
func (a *CreditAccount) Transition(to, reason string, at time.Time) error {
	legal := false
	switch a.Status {
	case CreditStatusActive:
		legal = to == CreditStatusBlocked || to == CreditStatusPendingApproval
	case CreditStatusBlocked, CreditStatusPendingApproval:
		legal = to == CreditStatusActive
	}
	if !legal {
		return fmt.Errorf("transición de cuenta corriente inválida: %s -> %s", a.Status, to)
	}
	a.Status = to
	a.StatusReason = reason
	a.StatusChangedAt = &at
	a.UpdatedAt = at
	return nil
}

// CreditMovement es un registro append-only de la cuenta corriente.
// DueDate solo aplica a cargos: vencido DueDate, el cargo forma parte de la deuda vencida.
type CreditMovement struct {
	ID           string
	AccountID    string
	Type         string
	Amount       decimal.Decimal
	IssueDate    time.Time
	DueDate      *time.Time
	BalanceAfter decimal.Decimal
	Ref          CausalRef
	CreatedBy    string
}

// Signed devuelve el monto con signo (+ cargo, - abono).
func (m *CreditMovement) Signed() decimal.Decimal {
	if m.Type == CreditMovementCredit {
		return m.Amount.Neg()
	}
	return m.Amount
}

// Payment es un pago recibido contra una cuenta corriente.
type Payment struct {
	ID         string
	AccountID  string
	Amount     decimal.Decimal
	Method     string
	Reference  string
	ReceivedAt time.Time
	CreatedBy  string
}

// CreditAging es la foto de antigüedad de una cuenta en un instante: suma de cargos con
// vencimiento anterior a ese instante y suma de los abonos que no son anulaciones.
// Una venta anulada y su abono de anulación se cancelan entre sí y no entran en ninguno
// de los dos totales.
type CreditAging struct {
	AgedDebits   decimal.Decimal
	TotalCredits decimal.Decimal
}

// AgedExposure es la deuda vencida que los abonos aún no cubren. Se recalcula como agregado
// (no imputa abonos a cargos concretos) y nunca es negativa.
func (g CreditAging) AgedExposure() decimal.Decimal {
	exp := g.AgedDebits.Sub(g.TotalCredits)
	if exp.IsNegative() {
		return decimal.Zero
	}
	return exp
}
