package repository

import (
	"context"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas con sus líneas y descuentos aplicados.
type SaleRepository interface {
	// Create persiste cabecera, líneas y descuentos aplicados.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con Items y Discounts; (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera de la venta (con Items cargados); (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// MarkVoided persiste solo estado y datos de anulación.
	MarkVoided(ctx context.Context, sale *entity.Sale) error
}
