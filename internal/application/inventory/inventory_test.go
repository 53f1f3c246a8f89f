package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/repairshop-api/internal/application/hooks"
	"github.com/jhoicas/repairshop-api/internal/application/inventory"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/memory"
)

const (
	bodega   = "bodega-1"
	producto = "p-1"
	servicio = "s-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*memory.Store, *inventory.StockLedger, *inventory.RegisterMovementUseCase, *memory.Notifier) {
	t.Helper()
	store := memory.NewStore()
	store.PutProduct(entity.Product{ID: producto, Name: "Flex de carga", UnitMeasure: "UNIT", Active: true})
	store.PutProduct(entity.Product{ID: servicio, Name: "Limpieza", UnitMeasure: entity.UnitMeasureService, Active: true})

	repos := store.Repos()
	ledger := inventory.NewStockLedger(repos.Stock, repos.StockMovements)
	notifier := memory.NewNotifier()
	uc := inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), store.Products(), ledger,
		memory.NewAuditLog(), notifier, hooks.NewRunner(zerolog.Nop(), notifier))
	return store, ledger, uc, notifier
}

func TestRegisterMovement_EntradaYAjusteMantienenElLibro(t *testing.T) {
	_, ledger, uc, notifier := setup(t)
	ctx := context.Background()

	res, err := uc.RegisterMovement(ctx, inventory.MovementInput{
		UserID: "u-1", ProductID: producto, WarehouseID: bodega,
		Type: inventory.ManualTypeIN, Quantity: d("10"), Reference: "REC-1",
	})
	require.NoError(t, err)
	assert.True(t, d("10").Equal(res.NewQuantity))
	assert.Equal(t, entity.ReceivingRef{ReceivingID: "REC-1"}, res.Ref)

	res, err = uc.RegisterMovement(ctx, inventory.MovementInput{
		UserID: "u-1", ProductID: producto, WarehouseID: bodega,
		Type: inventory.ManualTypeADJUSTMENT, Quantity: d("-3"), Reason: "rotura",
	})
	require.NoError(t, err)
	assert.True(t, d("7").Equal(res.NewQuantity))
	assert.Equal(t, entity.RefKindManualAdjustment, res.Ref.Kind())

	check, err := ledger.Verify(ctx, producto, bodega)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.True(t, d("7").Equal(check.LedgerSum))

	history, err := ledger.History(ctx, producto, bodega, 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "rotura", history[0].Reason)
	assert.Equal(t, entity.MovementTypeOUT, history[0].Type)

	assert.Equal(t, 2, notifier.Count(ports.SignalStockUpdated))
}

func TestRegisterMovement_AjusteNegativoNoDejaStockNegativo(t *testing.T) {
	store, ledger, uc, _ := setup(t)
	store.Receive(producto, bodega, d("2"))

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		ProductID: producto, WarehouseID: bodega, Type: inventory.ManualTypeADJUSTMENT, Quantity: d("-5"),
	})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.True(t, d("2").Equal(ise.Available))

	check, err := ledger.Verify(context.Background(), producto, bodega)
	require.NoError(t, err)
	assert.True(t, d("2").Equal(check.Quantity))
	assert.True(t, check.Consistent)
}

func TestRegisterMovement_Rechazos(t *testing.T) {
	_, _, uc, _ := setup(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   inventory.MovementInput
		want error
	}{
		{"cantidad cero", inventory.MovementInput{ProductID: producto, WarehouseID: bodega, Type: inventory.ManualTypeIN}, domain.ErrInvalidInput},
		{"entrada negativa", inventory.MovementInput{ProductID: producto, WarehouseID: bodega, Type: inventory.ManualTypeIN, Quantity: d("-1")}, domain.ErrInvalidInput},
		{"tipo desconocido", inventory.MovementInput{ProductID: producto, WarehouseID: bodega, Type: "OUT", Quantity: d("1")}, domain.ErrInvalidInput},
		{"servicio", inventory.MovementInput{ProductID: servicio, WarehouseID: bodega, Type: inventory.ManualTypeIN, Quantity: d("1")}, domain.ErrInvalidInput},
		{"producto inexistente", inventory.MovementInput{ProductID: "nope", WarehouseID: bodega, Type: inventory.ManualTypeIN, Quantity: d("1")}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterMovement(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStockLedger_ServiciosSiemprePasan(t *testing.T) {
	store, ledger, _, _ := setup(t)
	product := &entity.Product{ID: servicio, UnitMeasure: entity.UnitMeasureService}

	var stock *entity.Stock
	err := memory.NewTxRunner(store).Run(context.Background(), func(tx repository.TxRepos) error {
		var err error
		stock, err = ledger.ReserveAndValidate(context.Background(), tx, product, bodega, d("1000"))
		return err
	})
	require.NoError(t, err)
	assert.Nil(t, stock)
}
