package despachos

import (
	"context"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a despachos repository bound to the provided DB.
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

func (r *repository) UpdateSeguimiento(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Seguimiento{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateDespacho(ctx context.Context, seguimientoID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Despacho{}).
		Where("seguimiento_id = ?", seguimientoID).
		Updates(updates).Error
}

func (r *repository) NextSeq(ctx context.Context, seguimientoID uuid.UUID) (int64, error) {
	var maxSeq int64
	err := r.db.WithContext(ctx).
		Model(&models.SeguimientoEvento{}).
		Where("seguimiento_id = ?", seguimientoID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	return maxSeq + 1, nil
}

func (r *repository) AppendEvento(ctx context.Context, evento *models.SeguimientoEvento) error {
	return r.db.WithContext(ctx).Create(evento).Error
}

func (r *repository) ListEnRuta(ctx context.Context) ([]models.Despacho, error) {
	var rows []models.Despacho
	err := r.db.WithContext(ctx).
		Where("estado = ?", enums.DispatchEnCamino).
		Order("hora_salida ASC").
		Find(&rows).Error
	return rows, err
}
