package enums

import "fmt"

// DispatchStatus is the estado of the delivery sub-workflow, independent from
// the main comanda estado.
type DispatchStatus string

const (
	DispatchPendiente DispatchStatus = "pendiente"
	DispatchEnCamino  DispatchStatus = "en_camino"
	DispatchEntregado DispatchStatus = "entregado"
	DispatchFallido   DispatchStatus = "fallido"
)

var validDispatchStatuses = []DispatchStatus{
	DispatchPendiente,
	DispatchEnCamino,
	DispatchEntregado,
	DispatchFallido,
}

// IsValid reports whether the value matches the canonical estado_despacho enum.
func (d DispatchStatus) IsValid() bool {
	for _, candidate := range validDispatchStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDispatchStatus converts the raw string to DispatchStatus.
func ParseDispatchStatus(value string) (DispatchStatus, error) {
	for _, candidate := range validDispatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dispatch status %q", value)
}
