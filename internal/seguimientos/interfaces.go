package seguimientos

import (
	"context"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for seguimientos and their
// satellite tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindSeguimiento(ctx context.Context, id uuid.UUID) (*models.Seguimiento, error)
	FindSeguimientoByNumeroOrden(ctx context.Context, numeroOrden string) (*models.Seguimiento, error)
	FindComanda(ctx context.Context, id uuid.UUID) (*models.Comanda, error)
	UpdateSeguimiento(ctx context.Context, id uuid.UUID, updates map[string]any) error
	NextSeq(ctx context.Context, seguimientoID uuid.UUID) (int64, error)
	AppendEvento(ctx context.Context, evento *models.SeguimientoEvento) error
	LastEventos(ctx context.Context, seguimientoID uuid.UUID, limit int) ([]models.SeguimientoEvento, error)
	ListEventos(ctx context.Context, seguimientoID uuid.UUID) ([]models.SeguimientoEvento, error)
	UpsertAsignacion(ctx context.Context, asignacion *models.AsignacionEstado) error
	ListAsignaciones(ctx context.Context, seguimientoID uuid.UUID) ([]models.AsignacionEstado, error)
	ListIncidencias(ctx context.Context, seguimientoID uuid.UUID) ([]models.Incidencia, error)
	FindDespacho(ctx context.Context, seguimientoID uuid.UUID) (*models.Despacho, error)
	ListActivos(ctx context.Context, params pagination.Params, filters ListFilters) (*SeguimientoList, error)
}
