package credit

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// ValidateExposure verifica que la cuenta admita una nueva venta a crédito por pending.
// BLOCKED y PENDING_APPROVAL rechazan sin hacer cuentas; si no, falla cuando
// saldo + pending supera el límite aplicable (propio o global).
func ValidateExposure(account *entity.CreditAccount, pending, globalLimit decimal.Decimal) error {
	switch account.Status {
	case entity.CreditStatusBlocked:
		return domain.ErrCreditAccountBlocked
	case entity.CreditStatusPendingApproval:
		return domain.ErrCreditAccountPendingApproval
	}
	limit := account.ApplicableLimit(globalLimit)
	if account.Balance.Add(pending).GreaterThan(limit) {
		return &domain.CreditLimitExceededError{
			AccountID: account.ID,
			Balance:   account.Balance,
			Pending:   pending,
			Limit:     limit,
		}
	}
	return nil
}
