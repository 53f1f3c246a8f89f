// Package bootstrap arma los casos de uso sobre un backend de persistencia (PostgreSQL o memoria).
// Lo comparten cmd/api, cmd/credit-sweep y los tests de handlers.
package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appcredit "github.com/jhoicas/repairshop-api/internal/application/credit"
	"github.com/jhoicas/repairshop-api/internal/application/hooks"
	"github.com/jhoicas/repairshop-api/internal/application/inventory"
	"github.com/jhoicas/repairshop-api/internal/application/ports"
	apppricing "github.com/jhoicas/repairshop-api/internal/application/pricing"
	"github.com/jhoicas/repairshop-api/internal/application/sales"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/repairshop-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/repairshop-api/internal/interfaces/http"
)

// Backend agrupa los puertos de persistencia y salida.
type Backend struct {
	TxRunner  repository.TxRunner
	Repos     repository.TxRepos // fuera de transacción
	Customers repository.CustomerRepository
	Products  repository.ProductRepository
	Prices    repository.PriceRepository
	Discounts repository.DiscountRepository
	Settings  ports.Settings
	Audit     ports.AuditSink
}

// PostgresBackend construye el backend sobre el pool. settings es la capa de fallback
// de la tabla settings (normalmente config.Settings).
func PostgresBackend(pool *pgxpool.Pool, settings ports.Settings, log zerolog.Logger) Backend {
	return Backend{
		TxRunner:  postgres.NewTxRunner(pool),
		Repos:     postgres.Repos(pool),
		Customers: postgres.NewCustomerRepository(pool),
		Products:  postgres.NewProductRepository(pool),
		Prices:    postgres.NewPriceRepository(pool),
		Discounts: postgres.NewDiscountRepository(pool),
		Settings:  postgres.NewSettingsRepository(pool, settings, log),
		Audit:     postgres.NewAuditRepository(pool),
	}
}

// MemoryBackend construye el backend en memoria (STORAGE=memory y tests).
func MemoryBackend(store *memory.Store, settings ports.Settings, audit ports.AuditSink) Backend {
	if audit == nil {
		audit = memory.NewAuditLog()
	}
	return Backend{
		TxRunner:  memory.NewTxRunner(store),
		Repos:     store.Repos(),
		Customers: store.Customers(),
		Products:  store.Products(),
		Prices:    store.Prices(),
		Discounts: store.Discounts(),
		Settings:  settings,
		Audit:     audit,
	}
}

// Services son los casos de uso listos para los adaptadores.
type Services struct {
	Ledger           *inventory.StockLedger
	RegisterMovement *inventory.RegisterMovementUseCase
	RegisterSale     *sales.RegisterSaleUseCase
	VoidSale         *sales.VoidSaleUseCase
	CreditAccounts   *appcredit.AccountUseCase
	Reconciler       *appcredit.Reconciler
	Quotes           *apppricing.QuoteUseCase
	DefaultWarehouse string
}

// NewServices construye los casos de uso. Los hooks post-commit alarman por el mismo notifier.
func NewServices(b Backend, notifier ports.Notifier, log zerolog.Logger, defaultWarehouse string) *Services {
	hookRunner := hooks.NewRunner(log.With().Str("component", "hooks").Logger(), notifier)
	ledger := inventory.NewStockLedger(b.Repos.Stock, b.Repos.StockMovements)
	resolver := apppricing.NewPriceResolver(b.Prices)

	deps := sales.Deps{
		TxRunner:         b.TxRunner,
		Customers:        b.Customers,
		Products:         b.Products,
		Discounts:        b.Discounts,
		CreditAccounts:   b.Repos.CreditAccounts,
		Sales:            b.Repos.Sales,
		Prices:           resolver,
		Ledger:           ledger,
		Settings:         b.Settings,
		Audit:            b.Audit,
		Notifier:         notifier,
		Hooks:            hookRunner,
		DefaultWarehouse: defaultWarehouse,
	}

	return &Services{
		Ledger:           ledger,
		RegisterMovement: inventory.NewRegisterMovementUseCase(b.TxRunner, b.Products, ledger, b.Audit, notifier, hookRunner),
		RegisterSale:     sales.NewRegisterSaleUseCase(deps),
		VoidSale:         sales.NewVoidSaleUseCase(deps),
		CreditAccounts: appcredit.NewAccountUseCase(b.TxRunner, b.Customers, b.Repos.CreditAccounts,
			b.Repos.CreditMovements, b.Settings, b.Audit, notifier, hookRunner),
		Reconciler: appcredit.NewReconciler(b.TxRunner, b.Repos.CreditAccounts, b.Settings, b.Audit, notifier,
			hookRunner, log.With().Str("component", "credit_sweep").Logger()),
		Quotes:           apppricing.NewQuoteUseCase(b.Products, b.Customers, resolver),
		DefaultWarehouse: defaultWarehouse,
	}
}

// RouterDeps adapta los servicios al router HTTP.
func (s *Services) RouterDeps(jwtSecret string) httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		RegisterSale:     s.RegisterSale,
		VoidSale:         s.VoidSale,
		CreditAccounts:   s.CreditAccounts,
		Reconciler:       s.Reconciler,
		RegisterMovement: s.RegisterMovement,
		Ledger:           s.Ledger,
		Quotes:           s.Quotes,
		DefaultWarehouse: s.DefaultWarehouse,
		JWTSecret:        jwtSecret,
	}
}
