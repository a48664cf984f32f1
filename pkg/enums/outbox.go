package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column in outbox_events.
type OutboxAggregateType string

const (
	AggregateSeguimiento  OutboxAggregateType = "seguimiento"
	AggregateDespacho     OutboxAggregateType = "despacho"
	AggregateIncidencia   OutboxAggregateType = "incidencia"
	AggregateNotification OutboxAggregateType = "notification"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateSeguimiento,
	AggregateDespacho,
	AggregateIncidencia,
	AggregateNotification,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type column in outbox_events.
type OutboxEventType string

const (
	EventSeguimientoCreated       OutboxEventType = "seguimiento_created"
	EventSeguimientoDeleted       OutboxEventType = "seguimiento_deleted"
	EventEstadoAdvanced           OutboxEventType = "estado_advanced"
	EventEstadoReversed           OutboxEventType = "estado_reversed"
	EventDesmancheActivated       OutboxEventType = "desmanche_activated"
	EventDespachoStarted          OutboxEventType = "despacho_started"
	EventEntregaConfirmed         OutboxEventType = "entrega_confirmed"
	EventDespachoIncidentReported OutboxEventType = "despacho_incident_reported"
	EventIncidenciaReported       OutboxEventType = "incidencia_reported"
	EventIncidenciaResolved       OutboxEventType = "incidencia_resolved"
	EventNotificationRequested    OutboxEventType = "notification_requested"
)

var validOutboxEventTypes = []OutboxEventType{
	EventSeguimientoCreated,
	EventSeguimientoDeleted,
	EventEstadoAdvanced,
	EventEstadoReversed,
	EventDesmancheActivated,
	EventDespachoStarted,
	EventEntregaConfirmed,
	EventDespachoIncidentReported,
	EventIncidenciaReported,
	EventIncidenciaResolved,
	EventNotificationRequested,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
