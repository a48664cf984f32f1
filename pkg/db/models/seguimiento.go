package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
)

// Seguimiento is the plant tracking record, one per comanda, sharing its id.
type Seguimiento struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	NumeroOrden  string             `gorm:"column:numero_orden;not null;index"`
	EstadoActual enums.ComandaState `gorm:"column:estado_actual;type:text;not null;default:'pendiente'"`
	TurnoActual  *enums.Shift       `gorm:"column:turno_actual;type:text"`
	Activo       bool               `gorm:"column:activo;not null;default:true"`

	DesmancheActivo         bool       `gorm:"column:desmanche_activo;not null;default:false"`
	DesmancheVeces          int        `gorm:"column:desmanche_veces;not null;default:0"`
	DesmancheUltimaFecha    *time.Time `gorm:"column:desmanche_ultima_fecha"`
	DesmancheOperarioID     *string    `gorm:"column:desmanche_operario_id"`
	DesmancheOperarioNombre *string    `gorm:"column:desmanche_operario_nombre"`

	Eventos  []SeguimientoEvento `gorm:"foreignKey:SeguimientoID;constraint:OnDelete:CASCADE"`
	Despacho *Despacho           `gorm:"foreignKey:SeguimientoID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Seguimiento) TableName() string { return "seguimientos" }

// SeguimientoEvento is one append-only history entry. Rows are never updated
// or deleted; estado_actual on the parent always equals the max(seq) row.
type SeguimientoEvento struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SeguimientoID  uuid.UUID          `gorm:"column:seguimiento_id;type:uuid;not null;index"`
	Seq            int64              `gorm:"column:seq;not null"`
	Estado         enums.ComandaState `gorm:"column:estado;type:text;not null"`
	OperarioID     string             `gorm:"column:operario_id;not null"`
	OperarioNombre string             `gorm:"column:operario_nombre;not null"`
	Turno          *enums.Shift       `gorm:"column:turno;type:text"`
	Comentario     string             `gorm:"column:comentario;not null"`
	OccurredAt     time.Time          `gorm:"column:occurred_at;not null"`
}

func (SeguimientoEvento) TableName() string { return "seguimiento_eventos" }
