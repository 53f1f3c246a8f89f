package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/memory"
)

func TestTxRunner_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()
	runner := memory.NewTxRunner(store)
	boom := errors.New("boom")

	err := runner.Run(ctx, func(tx repository.TxRepos) error {
		st, err := tx.Stock.GetForUpdate(ctx, memory.DemoProductScreen, memory.DemoWarehouseID)
		require.NoError(t, err)
		st.Quantity = decimal.Zero
		require.NoError(t, tx.Stock.Upsert(ctx, st))
		return boom
	})
	require.ErrorIs(t, err, boom)

	st, err := store.Repos().Stock.Get(ctx, memory.DemoProductScreen, memory.DemoWarehouseID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(st.Quantity), "el stock no cambia tras el rollback")
}

func TestTxRunner_CommitVisibleFuera(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()
	runner := memory.NewTxRunner(store)

	err := runner.Run(ctx, func(tx repository.TxRepos) error {
		acc, err := tx.CreditAccounts.GetForUpdate(ctx, memory.DemoCreditAccountID)
		require.NoError(t, err)
		require.NotNil(t, acc)
		acc.GracePeriodDays = 45
		return tx.CreditAccounts.Update(ctx, acc)
	})
	require.NoError(t, err)

	acc, err := store.Repos().CreditAccounts.GetByID(ctx, memory.DemoCreditAccountID)
	require.NoError(t, err)
	assert.Equal(t, 45, acc.GracePeriodDays)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewTxRunner(memory.NewStore()).Run(ctx, func(repository.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestAging_VentaAnuladaSeCancelaConSuAbono(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()
	acc := memory.DemoCreditAccountID
	now := time.Now()
	overdue := now.AddDate(0, 0, -5)
	pending := now.AddDate(0, 0, 30)
	amount := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	store.AddCreditMovement(entity.CreditMovement{AccountID: acc, Type: entity.CreditMovementDebit,
		Amount: amount("2000"), IssueDate: overdue, DueDate: &overdue, Ref: entity.SaleRef{SaleID: "vieja"}})
	// Venta anulada: su cargo vencido tampoco cuenta.
	store.AddCreditMovement(entity.CreditMovement{AccountID: acc, Type: entity.CreditMovementDebit,
		Amount: amount("700"), IssueDate: overdue, DueDate: &overdue, Ref: entity.SaleRef{SaleID: "anulada-1"}})
	store.AddCreditMovement(entity.CreditMovement{AccountID: acc, Type: entity.CreditMovementCredit,
		Amount: amount("700"), IssueDate: now, Ref: entity.VoidRef{SaleID: "anulada-1"}})
	store.AddCreditMovement(entity.CreditMovement{AccountID: acc, Type: entity.CreditMovementDebit,
		Amount: amount("1500"), IssueDate: now, DueDate: &pending, Ref: entity.SaleRef{SaleID: "anulada-2"}})
	store.AddCreditMovement(entity.CreditMovement{AccountID: acc, Type: entity.CreditMovementCredit,
		Amount: amount("1500"), IssueDate: now, Ref: entity.VoidRef{SaleID: "anulada-2"}})
	store.AddCreditMovement(entity.CreditMovement{AccountID: acc, Type: entity.CreditMovementCredit,
		Amount: amount("500"), IssueDate: now, Ref: entity.PaymentRef{PaymentID: "pago-1"}})

	aging, err := store.Repos().CreditMovements.Aging(ctx, acc, now)
	require.NoError(t, err)
	assert.True(t, amount("2000").Equal(aging.AgedDebits), "cargos vencidos: %s", aging.AgedDebits)
	assert.True(t, amount("500").Equal(aging.TotalCredits), "solo cuentan los pagos: %s", aging.TotalCredits)
	assert.True(t, amount("1500").Equal(aging.AgedExposure()))
}
