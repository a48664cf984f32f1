package seguimientos

import (
	"github.com/elcobre-lavanderia/tracking-backend/pkg/db/models"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/types"
	"github.com/google/uuid"
)

// ActorInput identifies the operator performing a mutation.
type ActorInput struct {
	ID     string
	Nombre string
	Role   string
}

// AdvanceInput carries everything needed to move a seguimiento forward one estado.
type AdvanceInput struct {
	SeguimientoID uuid.UUID
	Actor         ActorInput
	Turno         *enums.Shift
	Operarios     types.Workers
}

// ReverseInput undoes the most recent transition.
type ReverseInput struct {
	SeguimientoID uuid.UUID
	Actor         ActorInput
}

// DesmancheInput starts the rework loop on a seguimiento.
type DesmancheInput struct {
	SeguimientoID uuid.UUID
	Actor         ActorInput
}

// ListFilters narrows the active-list query.
type ListFilters struct {
	Estados []enums.ComandaState
}

// SeguimientoList is one page of tracking records.
type SeguimientoList struct {
	Items      []models.Seguimiento
	NextCursor *string
}

// ComandaCompleta aggregates everything a panel needs for one comanda.
type ComandaCompleta struct {
	Comanda      models.Comanda             `json:"comanda"`
	Seguimiento  models.Seguimiento         `json:"seguimiento"`
	Eventos      []models.SeguimientoEvento `json:"eventos"`
	Asignaciones []models.AsignacionEstado  `json:"asignaciones"`
	Incidencias  []models.Incidencia        `json:"incidencias"`
	Despacho     *models.Despacho           `json:"despacho,omitempty"`
}

// EstadoChangedEvent is the outbox payload for forward and backward transitions.
type EstadoChangedEvent struct {
	SeguimientoID uuid.UUID          `json:"seguimiento_id"`
	NumeroOrden   string             `json:"numero_orden"`
	Desde         enums.ComandaState `json:"desde"`
	Hasta         enums.ComandaState `json:"hasta"`
	Turno         *enums.Shift       `json:"turno,omitempty"`
}

// DesmancheActivatedEvent is the outbox payload for rework activation.
type DesmancheActivatedEvent struct {
	SeguimientoID uuid.UUID          `json:"seguimiento_id"`
	NumeroOrden   string             `json:"numero_orden"`
	Desde         enums.ComandaState `json:"desde"`
	Veces         int                `json:"veces"`
}
