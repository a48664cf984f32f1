package sync

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
)

// Repository defines persistence operations for the synchronizer.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertComanda(ctx context.Context, comanda *models.Comanda) error
	DeleteComanda(ctx context.Context, id uuid.UUID) error
	FindSeguimiento(ctx context.Context, id uuid.UUID) (*models.Seguimiento, error)
	CreateSeguimiento(ctx context.Context, seguimiento *models.Seguimiento) error
	UpdateSeguimiento(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AppendEvento(ctx context.Context, evento *models.SeguimientoEvento) error
	CreateDespacho(ctx context.Context, despacho *models.Despacho) error
}
