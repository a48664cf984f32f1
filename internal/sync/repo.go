package sync

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a synchronizer repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) UpsertComanda(ctx context.Context, comanda *models.Comanda) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"numero_orden",
				"codigo_entrega",
				"nombre_cliente",
				"telefono_contacto",
				"tipo_cliente",
				"tipo_entrega",
				"direccion",
				"express",
				"items",
				"subtotal",
				"total",
				"recibida_at",
				"updated_at",
			}),
		}).
		Create(comanda).Error
}

func (r *repository) DeleteComanda(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Comanda{}).Error
}

func (r *repository) FindSeguimiento(ctx context.Context, id uuid.UUID) (*models.Seguimiento, error) {
	var row models.Seguimiento
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) CreateSeguimiento(ctx context.Context, seguimiento *models.Seguimiento) error {
	return r.db.WithContext(ctx).Create(seguimiento).Error
}

func (r *repository) UpdateSeguimiento(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Seguimiento{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) AppendEvento(ctx context.Context, evento *models.SeguimientoEvento) error {
	return r.db.WithContext(ctx).Create(evento).Error
}

func (r *repository) CreateDespacho(ctx context.Context, despacho *models.Despacho) error {
	return r.db.WithContext(ctx).Create(despacho).Error
}
