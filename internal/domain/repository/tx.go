package repository

import "context"

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Stock           StockRepository
	StockMovements  StockMovementRepository
	Sales           SaleRepository
	CreditAccounts  CreditAccountRepository
	CreditMovements CreditMovementRepository
	Payments        PaymentRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
// Los bloqueos de fila tomados con GetForUpdate se liberan al terminar la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}
