package seguimientos

import (
	"context"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a seguimientos repository bound to the provided DB.
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

func (r *repository) FindSeguimientoByNumeroOrden(ctx context.Context, numeroOrden string) (*models.Seguimiento, error) {
	var row models.Seguimiento
	err := r.db.WithContext(ctx).
		Where("numero_orden = ?", numeroOrden).
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

func (r *repository) UpdateSeguimiento(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Seguimiento{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// NextSeq returns the next per-record history sequence. Callers hold the row
// inside a transaction, so max(seq)+1 is safe under the single-writer model.
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

func (r *repository) LastEventos(ctx context.Context, seguimientoID uuid.UUID, limit int) ([]models.SeguimientoEvento, error) {
	var rows []models.SeguimientoEvento
	err := r.db.WithContext(ctx).
		Where("seguimiento_id = ?", seguimientoID).
		Order("seq DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListEventos(ctx context.Context, seguimientoID uuid.UUID) ([]models.SeguimientoEvento, error) {
	var rows []models.SeguimientoEvento
	err := r.db.WithContext(ctx).
		Where("seguimiento_id = ?", seguimientoID).
		Order("seq ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpsertAsignacion(ctx context.Context, asignacion *models.AsignacionEstado) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "seguimiento_id"}, {Name: "estado"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"turno", "operarios", "updated_at",
			}),
		}).
		Create(asignacion).Error
}

func (r *repository) ListAsignaciones(ctx context.Context, seguimientoID uuid.UUID) ([]models.AsignacionEstado, error) {
	var rows []models.AsignacionEstado
	err := r.db.WithContext(ctx).
		Where("seguimiento_id = ?", seguimientoID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListIncidencias(ctx context.Context, seguimientoID uuid.UUID) ([]models.Incidencia, error) {
	var rows []models.Incidencia
	err := r.db.WithContext(ctx).
		Where("seguimiento_id = ?", seguimientoID).
		Order("reportada_at ASC").
		Find(&rows).Error
	return rows, err
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

func (r *repository) ListActivos(ctx context.Context, params pagination.Params, filters ListFilters) (*SeguimientoList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Seguimiento{}).
		Where("activo = ?", true)

	if len(filters.Estados) > 0 {
		query = query.Where("estado_actual IN ?", filters.Estados)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Seguimiento
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &SeguimientoList{Items: rows}
	if len(rows) > limit {
		list.Items = rows[:limit]
		last := list.Items[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		list.NextCursor = &next
	}
	return list, nil
}
