// Package memory implementa todos los repositorios en memoria, con transacciones emuladas:
// un mutex global serializa las transacciones (equivale a tomar todos los bloqueos de fila)
// y cada transacción trabaja sobre una copia del estado que se descarta si falla.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

type stockKey struct {
	productID   string
	warehouseID string
}

// state es el contenido completo del almacén. Los valores se guardan por copia.
type state struct {
	customers       map[string]entity.Customer
	products        map[string]entity.Product
	prices          []entity.Price
	discounts       map[string]entity.Discount
	stock           map[stockKey]entity.Stock
	stockMovements  []entity.StockMovement
	sales           map[string]entity.Sale
	accounts        map[string]entity.CreditAccount
	creditMovements []entity.CreditMovement
	payments        []entity.Payment
}

func newState() *state {
	return &state{
		customers: map[string]entity.Customer{},
		products:  map[string]entity.Product{},
		discounts: map[string]entity.Discount{},
		stock:     map[stockKey]entity.Stock{},
		sales:     map[string]entity.Sale{},
		accounts:  map[string]entity.CreditAccount{},
	}
}

// clone copia mapas y slices; las ventas se reemplazan enteras al modificarse, así que
// compartir sus slices internos entre copias es seguro.
func (s *state) clone() *state {
	return &state{
		customers:       maps.Clone(s.customers),
		products:        maps.Clone(s.products),
		prices:          slices.Clone(s.prices),
		discounts:       maps.Clone(s.discounts),
		stock:           maps.Clone(s.stock),
		stockMovements:  slices.Clone(s.stockMovements),
		sales:           maps.Clone(s.sales),
		accounts:        maps.Clone(s.accounts),
		creditMovements: slices.Clone(s.creditMovements),
		payments:        slices.Clone(s.payments),
	}
}

// Store es el almacén en memoria.
type Store struct {
	txMu sync.Mutex   // serializa escrituras (transacciones y escrituras sueltas)
	mu   sync.RWMutex // protege data
	data *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// handle ata un repositorio al estado confirmado (tx == nil) o a la copia de una transacción.
type handle struct {
	s  *Store
	tx *state
}

func (h handle) read(fn func(st *state)) {
	if h.tx != nil {
		fn(h.tx)
		return
	}
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	fn(h.s.data)
}

func (h handle) write(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.s.txMu.Lock()
	defer h.s.txMu.Unlock()
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return fn(h.s.data)
}

// Repos devuelve los repositorios sobre el estado confirmado (fuera de transacción).
func (s *Store) Repos() repository.TxRepos {
	return s.reposFor(nil)
}

func (s *Store) reposFor(tx *state) repository.TxRepos {
	h := handle{s: s, tx: tx}
	return repository.TxRepos{
		Stock:           &StockRepo{h},
		StockMovements:  &StockMovementRepo{h},
		Sales:           &SaleRepo{h},
		CreditAccounts:  &CreditAccountRepo{h},
		CreditMovements: &CreditMovementRepo{h},
		Payments:        &PaymentRepo{h},
	}
}

// Customers, Products, Prices y Discounts exponen los repositorios de solo lectura del catálogo.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{handle{s: s}} }
func (s *Store) Products() *ProductRepo   { return &ProductRepo{handle{s: s}} }
func (s *Store) Prices() *PriceRepo       { return &PriceRepo{handle{s: s}} }
func (s *Store) Discounts() *DiscountRepo { return &DiscountRepo{handle{s: s}} }

// TxRunner implementa repository.TxRunner sobre el almacén.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

var _ repository.TxRunner = (*TxRunner)(nil)

// Run ejecuta fn sobre una copia del estado; si fn devuelve nil la copia pasa a ser el
// estado confirmado, si no se descarta. Un contexto cancelado aborta antes del commit.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	work := r.s.data.clone()
	r.s.mu.RUnlock()

	if err := fn(r.s.reposFor(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	r.s.data = work
	r.s.mu.Unlock()
	return nil
}
