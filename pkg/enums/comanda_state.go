package enums

import "fmt"

// ComandaState is the canonical estado of a comanda inside the plant workflow.
// Wire values are the Spanish strings the panels and the intake system use.
type ComandaState string

const (
	StatePendiente     ComandaState = "pendiente"
	StateLavando       ComandaState = "lavando"
	StateSecando       ComandaState = "secando"
	StatePlanchando    ComandaState = "planchando"
	StateDesmanche     ComandaState = "desmanche"
	StateEmpaquetado   ComandaState = "empaquetado"
	StateListoRetiro   ComandaState = "listo_retiro"
	StateListoDespacho ComandaState = "listo_despacho"
	StateEnDespacho    ComandaState = "en_despacho"
	StateEntregado     ComandaState = "entregado"
)

var validComandaStates = []ComandaState{
	StatePendiente,
	StateLavando,
	StateSecando,
	StatePlanchando,
	StateDesmanche,
	StateEmpaquetado,
	StateListoRetiro,
	StateListoDespacho,
	StateEnDespacho,
	StateEntregado,
}

// String implements fmt.Stringer.
func (s ComandaState) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical estado enum.
func (s ComandaState) IsValid() bool {
	for _, candidate := range validComandaStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists from this estado.
func (s ComandaState) IsTerminal() bool {
	return s == StateEntregado
}

// RequiresStaffing reports whether the estado is an in-plant processing stage
// that carries a shift and an assigned crew.
func (s ComandaState) RequiresStaffing() bool {
	switch s {
	case StateLavando, StateSecando, StatePlanchando, StateDesmanche, StateEmpaquetado:
		return true
	default:
		return false
	}
}

// ParseComandaState converts the raw string to ComandaState.
func ParseComandaState(value string) (ComandaState, error) {
	for _, candidate := range validComandaStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid comanda state %q", value)
}
