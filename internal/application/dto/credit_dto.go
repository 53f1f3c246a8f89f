package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domaincredit "github.com/jhoicas/repairshop-api/internal/domain/credit"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// OpenCreditAccountRequest body para POST /api/credit-accounts.
// Sin credit_limit la cuenta usa el límite global.
type OpenCreditAccountRequest struct {
	CustomerID      string           `json:"customer_id" validate:"required"`
	CreditLimit     *decimal.Decimal `json:"credit_limit,omitempty" swaggertype:"string"`
	GracePeriodDays *int             `json:"grace_period_days,omitempty" validate:"omitempty,min=0,max=365"`
}

// RegisterPaymentRequest body para POST /api/credit-accounts/:id/payments.
type RegisterPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"required,gt=0" swaggertype:"string"`
	Method    string          `json:"method,omitempty" validate:"omitempty,oneof=CASH CARD TRANSFER"`
	Reference string          `json:"reference,omitempty" validate:"max=120"`
}

type CreditAccountDTO struct {
	ID              string           `json:"id"`
	CustomerID      string           `json:"customer_id"`
	Balance         decimal.Decimal  `json:"balance" swaggertype:"string"`
	CreditLimit     *decimal.Decimal `json:"credit_limit,omitempty" swaggertype:"string"`
	GracePeriodDays int              `json:"grace_period_days"`
	Status          string           `json:"status"`
	StatusReason    string           `json:"status_reason,omitempty"`
	StatusChangedAt *time.Time       `json:"status_changed_at,omitempty"`
}

type CreditMovementDTO struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string"`
	IssueDate    time.Time       `json:"issue_date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	BalanceAfter decimal.Decimal `json:"balance_after" swaggertype:"string"`
	RefType      string          `json:"ref_type"`
	RefID        string          `json:"ref_id"`
}

// StatementResponse estado de cuenta.
type StatementResponse struct {
	Account      CreditAccountDTO    `json:"account"`
	AgedExposure decimal.Decimal     `json:"aged_exposure" swaggertype:"string"`
	Limit        decimal.Decimal     `json:"limit" swaggertype:"string"`
	Available    decimal.Decimal     `json:"available" swaggertype:"string"`
	AsOf         time.Time           `json:"as_of"`
	Movements    []CreditMovementDTO `json:"movements"`
}

// EvaluationResponse resultado de evaluar una cuenta.
type EvaluationResponse struct {
	AccountID    string          `json:"account_id"`
	Outcome      string          `json:"outcome"`
	Status       string          `json:"status"`
	AgedExposure decimal.Decimal `json:"aged_exposure" swaggertype:"string"`
}

// PaymentResponse pago registrado con la cuenta resultante.
type PaymentResponse struct {
	PaymentID  string             `json:"payment_id"`
	Amount     decimal.Decimal    `json:"amount" swaggertype:"string"`
	Method     string             `json:"method"`
	Reference  string             `json:"reference,omitempty"`
	ReceivedAt time.Time          `json:"received_at"`
	Account    CreditAccountDTO   `json:"account"`
	Evaluation EvaluationResponse `json:"evaluation"`
}

func FromCreditAccount(a *entity.CreditAccount) CreditAccountDTO {
	return CreditAccountDTO{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		Balance:         a.Balance,
		CreditLimit:     a.CreditLimit,
		GracePeriodDays: a.GracePeriodDays,
		Status:          a.Status,
		StatusReason:    a.StatusReason,
		StatusChangedAt: a.StatusChangedAt,
	}
}

func FromCreditMovement(m *entity.CreditMovement) CreditMovementDTO {
	out := CreditMovementDTO{
		ID:           m.ID,
		Type:         m.Type,
		Amount:       m.Amount,
		IssueDate:    m.IssueDate,
		DueDate:      m.DueDate,
		BalanceAfter: m.BalanceAfter,
	}
	if m.Ref != nil {
		out.RefType, out.RefID = m.Ref.Kind(), m.Ref.EntityID()
	}
	return out
}

func FromEvaluation(ev domaincredit.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		AccountID:    ev.AccountID,
		Outcome:      ev.Outcome,
		Status:       ev.To,
		AgedExposure: ev.AgedExposure,
	}
}
