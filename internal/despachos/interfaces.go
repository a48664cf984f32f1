package despachos

import (
	"context"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations the dispatch workflow needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindSeguimiento(ctx context.Context, id uuid.UUID) (*models.Seguimiento, error)
	FindComanda(ctx context.Context, id uuid.UUID) (*models.Comanda, error)
	FindDespacho(ctx context.Context, seguimientoID uuid.UUID) (*models.Despacho, error)
	UpdateSeguimiento(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateDespacho(ctx context.Context, seguimientoID uuid.UUID, updates map[string]any) error
	NextSeq(ctx context.Context, seguimientoID uuid.UUID) (int64, error)
	AppendEvento(ctx context.Context, evento *models.SeguimientoEvento) error
	ListEnRuta(ctx context.Context) ([]models.Despacho, error)
}
