package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
)

// Incidencia is a plant incident attached to a seguimiento. Incidents never
// block transitions.
type Incidencia struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SeguimientoID   uuid.UUID              `gorm:"column:seguimiento_id;type:uuid;not null;index"`
	EstadoAlReporte enums.ComandaState     `gorm:"column:estado_al_reporte;type:text;not null"`
	Categoria       enums.IncidentCategory `gorm:"column:categoria;type:text;not null"`
	Descripcion     string                 `gorm:"column:descripcion;not null"`
	OperarioID      string                 `gorm:"column:operario_id;not null"`
	OperarioNombre  string                 `gorm:"column:operario_nombre;not null"`
	Resuelta        bool                   `gorm:"column:resuelta;not null;default:false"`
	ReportadaAt     time.Time              `gorm:"column:reportada_at;not null"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (Incidencia) TableName() string { return "incidencias" }
