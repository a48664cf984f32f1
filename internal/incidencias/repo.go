package incidencias

import (
	"context"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an incidencias repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
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

func (r *repository) Create(ctx context.Context, incidencia *models.Incidencia) (*models.Incidencia, error) {
	if err := r.db.WithContext(ctx).Create(incidencia).Error; err != nil {
		return nil, err
	}
	return incidencia, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Incidencia, error) {
	var row models.Incidencia
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) MarkResuelta(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Incidencia{}).
		Where("id = ?", id).
		Update("resuelta", true).Error
}

func (r *repository) ListBySeguimiento(ctx context.Context, seguimientoID uuid.UUID) ([]models.Incidencia, error) {
	var rows []models.Incidencia
	err := r.db.WithContext(ctx).
		Where("seguimiento_id = ?", seguimientoID).
		Order("reportada_at ASC").
		Find(&rows).Error
	return rows, err
}
