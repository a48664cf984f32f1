package despachos

import (
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	"github.com/google/uuid"
)

// ActorInput identifies who performs a dispatch mutation.
type ActorInput struct {
	ID     string
	Nombre string
	Role   string
}

// StartInput launches the street leg of a despacho comanda.
type StartInput struct {
	SeguimientoID    uuid.UUID
	Actor            ActorInput
	RepartidorID     string
	RepartidorNombre string
	Vehiculo         string
	Patente          string
}

// ConfirmInput closes a delivery against the verification code.
type ConfirmInput struct {
	SeguimientoID    uuid.UUID
	Actor            ActorInput
	Codigo           string
	PersonaQueRecibe string
}

// IncidentInput marks the street leg as failed.
type IncidentInput struct {
	SeguimientoID uuid.UUID
	Actor         ActorInput
	Categoria     enums.DispatchIncidentCategory
	Descripcion   string
}

// DespachoStartedEvent is the outbox payload when a driver departs.
type DespachoStartedEvent struct {
	SeguimientoID    uuid.UUID `json:"seguimiento_id"`
	NumeroOrden      string    `json:"numero_orden"`
	RepartidorID     string    `json:"repartidor_id"`
	RepartidorNombre string    `json:"repartidor_nombre"`
	Vehiculo         string    `json:"vehiculo"`
	Patente          string    `json:"patente"`
}

// EntregaConfirmedEvent is the outbox payload for a verified delivery.
type EntregaConfirmedEvent struct {
	SeguimientoID    uuid.UUID `json:"seguimiento_id"`
	NumeroOrden      string    `json:"numero_orden"`
	PersonaQueRecibe string    `json:"persona_que_recibe"`
}

// DespachoIncidentEvent is the outbox payload for a failed street leg.
type DespachoIncidentEvent struct {
	SeguimientoID uuid.UUID                      `json:"seguimiento_id"`
	NumeroOrden   string                         `json:"numero_orden"`
	Categoria     enums.DispatchIncidentCategory `json:"categoria"`
	Descripcion   string                         `json:"descripcion"`
}
