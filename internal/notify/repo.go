package notify

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a read-only repository for notification lookups.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindComanda(ctx context.Context, id uuid.UUID) (*models.Comanda, error) {
	var row models.Comanda
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindDespacho(ctx context.Context, seguimientoID uuid.UUID) (*models.Despacho, error) {
	var row models.Despacho
	err := r.db.WithContext(ctx).
		Where("seguimiento_id = ?", seguimientoID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
