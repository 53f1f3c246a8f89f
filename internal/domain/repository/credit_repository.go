package repository

import (
	"context"
	"time"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// CreditAccountRepository define el puerto de persistencia de cuentas corrientes.
// Los Get devuelven (nil, nil) si no existe.
type CreditAccountRepository interface {
	Create(ctx context.Context, account *entity.CreditAccount) error
	GetByID(ctx context.Context, id string) (*entity.CreditAccount, error)
	GetByCustomerID(ctx context.Context, customerID string) (*entity.CreditAccount, error)
	// GetForUpdate bloquea la fila de la cuenta hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.CreditAccount, error)
	// Update persiste saldo y estado.
	Update(ctx context.Context, account *entity.CreditAccount) error
	// ListIDs devuelve los IDs de todas las cuentas, para el barrido de conciliación.
	ListIDs(ctx context.Context) ([]string, error)
}

// CreditMovementRepository define el puerto del libro de la cuenta corriente (append-only).
type CreditMovementRepository interface {
	Create(ctx context.Context, movement *entity.CreditMovement) error
	ListByAccount(ctx context.Context, accountID string) ([]*entity.CreditMovement, error)
	// Aging agrega los cargos vencidos a la fecha at y el total de abonos de la cuenta,
	// excluyendo las ventas anuladas junto con su abono de anulación.
	Aging(ctx context.Context, accountID string, at time.Time) (entity.CreditAging, error)
}

// PaymentRepository define el puerto de persistencia de pagos recibidos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
}
