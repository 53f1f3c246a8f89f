package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/repairshop-api/internal/domain"
	"github.com/jhoicas/repairshop-api/internal/domain/entity"
	"github.com/jhoicas/repairshop-api/internal/domain/repository"
)

// StockLedger es el libro de stock: cantidad disponible por producto+bodega más su historial
// append-only de movimientos. Las operaciones de escritura reciben los repositorios de la
// transacción del caller y toman el bloqueo de fila dentro de ella.
type StockLedger struct {
	stockRepo repository.StockRepository
	movRepo   repository.StockMovementRepository
}

// NewStockLedger construye el libro. Los repos (pool) solo se usan para lecturas fuera de transacción.
func NewStockLedger(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) *StockLedger {
	return &StockLedger{stockRepo: stockRepo, movRepo: movRepo}
}

// ReserveAndValidate bloquea la fila de stock (SELECT FOR UPDATE) y verifica que haya al menos
// qty disponible. Los servicios siempre pasan y devuelven (nil, nil): no llevan stock.
func (l *StockLedger) ReserveAndValidate(
	ctx context.Context,
	tx repository.TxRepos,
	product *entity.Product,
	warehouseID string,
	qty decimal.Decimal,
) (*entity.Stock, error) {
	if product.IsService() {
		return nil, nil
	}
	stock, err := tx.Stock.GetForUpdate(ctx, product.ID, warehouseID)
	if err != nil {
		return nil, err
	}
	if stock.Quantity.LessThan(qty) {
		return nil, &domain.InsufficientStockError{ProductID: product.ID, Requested: qty, Available: stock.Quantity}
	}
	return stock, nil
}

// Decrement descuenta qty de una fila ya bloqueada por ReserveAndValidate (misma transacción),
// guarda el movimiento OUT y devuelve la nueva cantidad. Nunca deja stock negativo.
func (l *StockLedger) Decrement(
	ctx context.Context,
	tx repository.TxRepos,
	stock *entity.Stock,
	qty decimal.Decimal,
	reason string,
	ref entity.CausalRef,
	userID string,
	now time.Time,
) (decimal.Decimal, error) {
	if !qty.IsPositive() || ref == nil {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if stock.Quantity.LessThan(qty) {
		return decimal.Zero, &domain.InsufficientStockError{ProductID: stock.ProductID, Requested: qty, Available: stock.Quantity}
	}
	return l.apply(ctx, tx, stock, entity.MovementTypeOUT, qty, reason, ref, userID, now)
}

// Increment bloquea la fila y suma qty (anulaciones, recepciones, ajustes positivos).
func (l *StockLedger) Increment(
	ctx context.Context,
	tx repository.TxRepos,
	productID, warehouseID string,
	qty decimal.Decimal,
	reason string,
	ref entity.CausalRef,
	userID string,
	now time.Time,
) (decimal.Decimal, error) {
	if !qty.IsPositive() || ref == nil {
		return decimal.Zero, domain.ErrInvalidInput
	}
	stock, err := tx.Stock.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return l.apply(ctx, tx, stock, entity.MovementTypeIN, qty, reason, ref, userID, now)
}

func (l *StockLedger) apply(
	ctx context.Context,
	tx repository.TxRepos,
	stock *entity.Stock,
	movType string,
	qty decimal.Decimal,
	reason string,
	ref entity.CausalRef,
	userID string,
	now time.Time,
) (decimal.Decimal, error) {
	before := stock.Quantity
	after := before.Add(qty)
	if movType == entity.MovementTypeOUT {
		after = before.Sub(qty)
	}
	stock.Quantity = after
	stock.UpdatedAt = now
	if err := tx.Stock.Upsert(ctx, stock); err != nil {
		return decimal.Zero, err
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      stock.ProductID,
		WarehouseID:    stock.WarehouseID,
		Type:           movType,
		Quantity:       qty,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         reason,
		Ref:            ref,
		CreatedAt:      now,
		CreatedBy:      userID,
	}
	if err := tx.StockMovements.Create(ctx, mov); err != nil {
		return decimal.Zero, err
	}
	return after, nil
}

// LedgerCheck resultado de verificar el libro de un producto.
type LedgerCheck struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal // stock actual
	LedgerSum   decimal.Decimal // suma con signo de movimientos
	Consistent  bool
}

// Verify comprueba que la suma con signo de los movimientos coincida con el stock actual.
func (l *StockLedger) Verify(ctx context.Context, productID, warehouseID string) (*LedgerCheck, error) {
	stock, err := l.stockRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	sum, err := l.movRepo.SumSigned(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &LedgerCheck{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    stock.Quantity,
		LedgerSum:   sum,
		Consistent:  sum.Equal(stock.Quantity),
	}, nil
}

// History lista los movimientos del producto en la bodega, más recientes primero.
func (l *StockLedger) History(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return l.movRepo.ListByProduct(ctx, productID, warehouseID, limit, offset)
}
