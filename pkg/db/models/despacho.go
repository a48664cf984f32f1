package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
)

// Despacho is the delivery sub-record. Exactly one row exists per
// seguimiento whose comanda is tipo_entrega=despacho; none otherwise.
type Despacho struct {
	SeguimientoID uuid.UUID            `gorm:"column:seguimiento_id;type:uuid;primaryKey"`
	Estado        enums.DispatchStatus `gorm:"column:estado;type:text;not null;default:'pendiente'"`

	RepartidorID     *string `gorm:"column:repartidor_id"`
	RepartidorNombre *string `gorm:"column:repartidor_nombre"`
	Vehiculo         *string `gorm:"column:vehiculo"`
	Patente          *string `gorm:"column:patente"`

	HoraSalida       *time.Time `gorm:"column:hora_salida"`
	HoraEntrega      *time.Time `gorm:"column:hora_entrega"`
	CodigoVerificado bool       `gorm:"column:codigo_verificado;not null;default:false"`
	PersonaQueRecibe *string    `gorm:"column:persona_que_recibe"`

	IncidenciaCategoria   *enums.DispatchIncidentCategory `gorm:"column:incidencia_categoria;type:text"`
	IncidenciaDescripcion *string                         `gorm:"column:incidencia_descripcion"`
	IncidenciaReportadaAt *time.Time                      `gorm:"column:incidencia_reportada_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Despacho) TableName() string { return "despachos" }
