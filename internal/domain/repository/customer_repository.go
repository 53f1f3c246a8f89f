package repository

import (
	"context"

	"github.com/jhoicas/repairshop-api/internal/domain/entity"
)

// CustomerRepository define el puerto de lectura de clientes (el ABM vive fuera de este núcleo).
// GetByID devuelve (nil, nil) si no existe.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
