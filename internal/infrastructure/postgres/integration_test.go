//go:build integration

// Tests contra PostgreSQL y Redis reales vía testcontainers.
// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v
package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	appcredit "github.com/jhoicas/repairshop-api/internal/application/credit"
	"github.com/jhoicas/repairshop-api/internal/application/inventory"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
	"github.com/jhoicas/repairshop-api/internal/application/sales"
	"github.com/jhoicas/repairshop-api/internal/bootstrap"
	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/redisq"
	"github.com/jhoicas/repairshop-api/migrations"
	"github.com/jhoicas/repairshop-api/pkg/config"
)

const bodega = "central"

type env struct {
	pool       *pgxpool.Pool
	svc        *bootstrap.Services
	dispatcher *redisq.Dispatcher
	settings   *postgres.SettingsRepo

	retail, wholesale, account string
	screen, service            string
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("repairshop_test"),
		tcPostgres.WithUsername("repairshop"),
		tcPostgres.WithPassword("repairshop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	pool, err := postgres.NewPoolFromDSN(ctx, pgURL, 10)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool, migrations.FS, zerolog.Nop()))
	// Idempotente: la segunda corrida no reaplica nada.
	require.NoError(t, postgres.Migrate(ctx, pool, migrations.FS, zerolog.Nop()))

	rdb, err := redisq.NewClient(ctx, rdURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	dispatcher := redisq.NewDispatcher(rdb, "test")

	e := &env{
		pool:       pool,
		dispatcher: dispatcher,
		retail:     uuid.NewString(),
		wholesale:  uuid.NewString(),
		account:    uuid.NewString(),
		screen:     uuid.NewString(),
		service:    uuid.NewString(),
	}
	e.seed(t)

	backend := bootstrap.PostgresBackend(pool, config.NewSettingsFrom(nil), zerolog.Nop())
	e.settings = backend.Settings.(*postgres.SettingsRepo)
	e.svc = bootstrap.NewServices(backend, dispatcher, zerolog.Nop(), bodega)

	_, err = e.svc.RegisterMovement.RegisterMovement(ctx, inventory.MovementInput{
		UserID: "u-admin", ProductID: e.screen, WarehouseID: bodega,
		Type: inventory.ManualTypeIN, Quantity: decimal.NewFromInt(5), Reference: "REC-1",
	})
	require.NoError(t, err)
	return e
}

func (e *env) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	from := time.Now().AddDate(0, -1, 0)
	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO customers (id, name, tier) VALUES ($1, 'Consumidor', 'RETAIL'), ($2, 'Taller SRL', 'WHOLESALE')`,
			[]any{e.retail, e.wholesale}},
		{`INSERT INTO products (id, sku, name, unit_measure) VALUES ($1, 'PAN-1', 'Pantalla', 'UNIT'), ($2, 'SRV-1', 'Diagnóstico', 'SERVICE')`,
			[]any{e.screen, e.service}},
		{`INSERT INTO prices (id, product_id, tier, amount, valid_from) VALUES
			($1, $3, 'RETAIL', 100, $5), ($2, $3, 'WHOLESALE', 1000, $5), ($4, $6, 'RETAIL', 250, $5)`,
			[]any{uuid.NewString(), uuid.NewString(), e.screen, uuid.NewString(), from, e.service}},
		{`INSERT INTO discounts (code, name, kind, value, scope) VALUES ('L10', '10%', 'PERCENTAGE', 10, 'LINE')`, nil},
		{`INSERT INTO credit_accounts (id, customer_id, balance, credit_limit, grace_period_days, status)
			VALUES ($1, $2, 0, 4000, 30, 'ACTIVE')`, []any{e.account, e.wholesale}},
	}
	for _, s := range stmts {
		_, err := e.pool.Exec(ctx, s.sql, s.args...)
		require.NoError(t, err)
	}
}

func (e *env) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	var q decimal.Decimal
	err := e.pool.QueryRow(context.Background(),
		`SELECT quantity FROM stock WHERE product_id = $1 AND warehouse_id = $2`, productID, bodega).Scan(&q)
	require.NoError(t, err)
	return q
}

func TestPostgres_VentaContadoYAnulacion(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	sale, err := e.svc.RegisterSale.RegisterSale(ctx, sales.RegisterSaleInput{
		CustomerID: e.retail, UserID: "u-1", PaymentMethod: entity.PaymentMethodCash,
		Items: []sales.SaleItemInput{
			{ProductID: e.screen, Quantity: decimal.NewFromInt(2), DiscountCodes: []string{"L10"}},
			{ProductID: e.service, Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("430").Equal(sale.Total))
	assert.True(t, decimal.NewFromInt(3).Equal(e.stock(t, e.screen)))

	stored, err := e.svc.VoidSale.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	require.Len(t, stored.Discounts, 1)
	assert.Equal(t, "L10", stored.Discounts[0].Code)

	_, err = e.svc.VoidSale.VoidSale(ctx, sales.VoidSaleInput{SaleID: sale.ID, Reason: "error de carga", UserID: "u-1"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(e.stock(t, e.screen)))

	_, err = e.svc.VoidSale.VoidSale(ctx, sales.VoidSaleInput{SaleID: sale.ID, Reason: "otra vez", UserID: "u-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyVoided)

	check, err := e.svc.Ledger.Verify(ctx, e.screen, bodega)
	require.NoError(t, err)
	assert.True(t, check.Consistent)

	var audits int
	require.NoError(t, e.pool.QueryRow(ctx,
		`SELECT count(*) FROM audit_logs WHERE entity_id = $1`, sale.ID).Scan(&audits))
	assert.Equal(t, 2, audits)

	n, err := e.dispatcher.Pop(ctx, ports.SignalSaleRegistered, time.Second)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, sale.ID, n.EntityID)

	_, err = e.svc.VoidSale.GetSale(ctx, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_CompradoresConcurrentesPorElStock(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	const racers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.svc.RegisterSale.RegisterSale(ctx, sales.RegisterSaleInput{
				CustomerID: e.retail, UserID: "u-1", PaymentMethod: entity.PaymentMethodCash,
				Items: []sales.SaleItemInput{{ProductID: e.screen, Quantity: decimal.NewFromInt(1)}},
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, racers-5, fail)
	assert.True(t, e.stock(t, e.screen).IsZero())
}

func TestPostgres_CuentaCorrienteBarridoYPago(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	sale, err := e.svc.RegisterSale.RegisterSale(ctx, sales.RegisterSaleInput{
		CustomerID: e.wholesale, UserID: "u-1", PaymentMethod: entity.PaymentMethodCreditAccount,
		Items: []sales.SaleItemInput{{ProductID: e.screen, Quantity: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, sale.Status)

	_, err = e.svc.RegisterSale.RegisterSale(ctx, sales.RegisterSaleInput{
		CustomerID: e.wholesale, UserID: "u-1", PaymentMethod: entity.PaymentMethodCreditAccount,
		Items: []sales.SaleItemInput{{ProductID: e.screen, Quantity: decimal.NewFromInt(2)}},
	})
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded, "3000 + 2000 supera 4000")

	// Envejecer el cargo para que el barrido lo detecte.
	_, err = e.pool.Exec(ctx, `UPDATE credit_movements SET due_date = now() - interval '2 days' WHERE account_id = $1`, e.account)
	require.NoError(t, err)

	report, err := e.svc.Reconciler.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, appcredit.SweepReport{Evaluated: 1, Blocked: 1}, report)

	res, err := e.svc.CreditAccounts.RegisterPayment(ctx, appcredit.RegisterPaymentInput{
		AccountID: e.account, Amount: decimal.NewFromInt(3000), Method: entity.PaymentMethodTransfer, UserID: "u-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CreditStatusActive, res.Account.Status)

	st, err := e.svc.CreditAccounts.GetStatement(ctx, e.account)
	require.NoError(t, err)
	assert.True(t, st.Account.Balance.IsZero())
	require.Len(t, st.Movements, 2)
	assert.Equal(t, entity.PaymentRef{PaymentID: res.Payment.ID}, st.Movements[1].Ref)

	n, err := e.dispatcher.Pop(ctx, ports.SignalCreditBlocked, time.Second)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, e.account, n.EntityID)
}

func TestPostgres_AnulacionNoCompensaDeudaVencida(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	_, err := e.svc.RegisterSale.RegisterSale(ctx, sales.RegisterSaleInput{
		CustomerID: e.wholesale, UserID: "u-1", PaymentMethod: entity.PaymentMethodCreditAccount,
		Items: []sales.SaleItemInput{{ProductID: e.screen, Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	_, err = e.pool.Exec(ctx, `UPDATE credit_movements SET due_date = now() - interval '5 days' WHERE account_id = $1`, e.account)
	require.NoError(t, err)

	fresh, err := e.svc.RegisterSale.RegisterSale(ctx, sales.RegisterSaleInput{
		CustomerID: e.wholesale, UserID: "u-1", PaymentMethod: entity.PaymentMethodCreditAccount,
		Items: []sales.SaleItemInput{{ProductID: e.screen, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	_, err = e.svc.VoidSale.VoidSale(ctx, sales.VoidSaleInput{SaleID: fresh.ID, Reason: "cliente desiste", UserID: "u-1"})
	require.NoError(t, err)

	aging, err := postgres.NewCreditMovementRepository(e.pool).Aging(ctx, e.account, time.Now())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2000).Equal(aging.AgedExposure()), "exposición vencida: %s", aging.AgedExposure())

	report, err := e.svc.Reconciler.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, appcredit.SweepReport{Evaluated: 1, Blocked: 1}, report)
}

func TestPostgres_SettingsDesdeTabla(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	assert.True(t, e.settings.Bool(ports.SettingCreditAutoBlockEnabled, true))
	require.NoError(t, e.settings.Set(ctx, ports.SettingCreditAutoBlockEnabled, "false"))
	assert.False(t, e.settings.Bool(ports.SettingCreditAutoBlockEnabled, true))

	require.NoError(t, e.settings.Set(ctx, ports.SettingGlobalCreditLimit, "2500.50"))
	assert.True(t, decimal.RequireFromString("2500.50").Equal(e.settings.Decimal(ports.SettingGlobalCreditLimit, decimal.Zero)))
}
