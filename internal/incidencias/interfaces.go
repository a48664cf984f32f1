package incidencias

import (
	"context"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for plant incidents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindSeguimiento(ctx context.Context, id uuid.UUID) (*models.Seguimiento, error)
	Create(ctx context.Context, incidencia *models.Incidencia) (*models.Incidencia, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Incidencia, error)
	MarkResuelta(ctx context.Context, id uuid.UUID) error
	ListBySeguimiento(ctx context.Context, seguimientoID uuid.UUID) ([]models.Incidencia, error)
}
