package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/types"
)

// AsignacionEstado records the shift and crew that worked one processing
// stage of a seguimiento. One row per (seguimiento, estado); rewrites replace
// the previous crew.
type AsignacionEstado struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SeguimientoID uuid.UUID          `gorm:"column:seguimiento_id;type:uuid;not null;uniqueIndex:ux_asignaciones_seguimiento_estado"`
	Estado        enums.ComandaState `gorm:"column:estado;type:text;not null;uniqueIndex:ux_asignaciones_seguimiento_estado"`
	Turno         enums.Shift        `gorm:"column:turno;type:text;not null"`
	Operarios     types.Workers      `gorm:"column:operarios;type:jsonb;serializer:json"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (AsignacionEstado) TableName() string { return "asignaciones_estado" }
