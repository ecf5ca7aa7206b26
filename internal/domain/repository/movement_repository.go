package repository

import (
	"context"

	"github.com/jhoicas/concesionario-api/internal/domain/entity"
)

// MovementFilter criterios de listado de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	Type       entity.MovementType
	Status     entity.MovementStatus
	LocationID string // origen o destino
	Limit      int
	Offset     int
}

// MovementRepository puerto de persistencia de movimientos y sus líneas.
type MovementRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, movement *entity.Movement) error
	// GetByID devuelve el movimiento con líneas y nombres resueltos; nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// FindByOrderReference devuelve el primer movimiento con esa referencia; nil, nil si no hay.
	FindByOrderReference(ctx context.Context, ref string) (*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// Update persiste estado, cantidad y metadatos de recepción.
	Update(ctx context.Context, movement *entity.Movement) error
	// ReplaceDetails borra todas las líneas del movimiento e inserta las nuevas.
	ReplaceDetails(ctx context.Context, movementID string, details []*entity.MovementDetail) error
	UpdateInspection(ctx context.Context, detailID string, status entity.InspectionStatus) error
	Delete(ctx context.Context, id string) error
}
