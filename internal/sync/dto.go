package sync

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
	"github.com/elcobre-lavanderia/tracking-backend/pkg/types"
)

// ChangeEnvelope is one entry of the intake change stream. The intake system
// owns the comanda record; this envelope is its wire format, not ours.
type ChangeEnvelope struct {
	EventID    uuid.UUID            `json:"event_id"`
	ChangeType enums.SyncChangeType `json:"change_type"`
	OccurredAt time.Time            `json:"occurred_at"`
	Comanda    ComandaPayload       `json:"comanda"`
}

// ComandaPayload is the intake snapshot of a comanda.
type ComandaPayload struct {
	ID               uuid.UUID          `json:"id"`
	NumeroOrden      string             `json:"numero_orden"`
	CodigoEntrega    string             `json:"codigo_entrega"`
	NombreCliente    string             `json:"nombre_cliente"`
	TelefonoContacto string             `json:"telefono_contacto"`
	TipoCliente      string             `json:"tipo_cliente"`
	TipoEntrega      string             `json:"tipo_entrega"`
	Direccion        *string            `json:"direccion,omitempty"`
	Express          bool               `json:"express"`
	Items            types.ComandaItems `json:"items"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	Total            decimal.Decimal    `json:"total"`
	RecibidaAt       time.Time          `json:"recibida_at"`
}

// SeguimientoCreatedEvent is the outbox payload for a freshly opened record.
type SeguimientoCreatedEvent struct {
	SeguimientoID uuid.UUID          `json:"seguimiento_id"`
	NumeroOrden   string             `json:"numero_orden"`
	Estado        enums.ComandaState `json:"estado"`
	TipoEntrega   enums.DeliveryType `json:"tipo_entrega"`
}

// SeguimientoDeletedEvent is the outbox payload when intake removes a comanda.
type SeguimientoDeletedEvent struct {
	SeguimientoID uuid.UUID `json:"seguimiento_id"`
	NumeroOrden   string    `json:"numero_orden"`
}
