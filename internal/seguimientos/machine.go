package seguimientos

import (
	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
)

// NextState resolves the forward transition for the plant workflow. The
// empaquetado branch depends on how the comanda leaves the plant; every other
// transition is fixed. The second return is false when no forward transition
// exists (terminal estado or unknown value).
func NextState(current enums.ComandaState, delivery enums.DeliveryType) (enums.ComandaState, bool) {
	switch current {
	case enums.StatePendiente:
		return enums.StateLavando, true
	case enums.StateLavando:
		return enums.StateSecando, true
	case enums.StateSecando:
		return enums.StatePlanchando, true
	case enums.StatePlanchando:
		return enums.StateEmpaquetado, true
	case enums.StateDesmanche:
		// rework always re-enters the wash line
		return enums.StateLavando, true
	case enums.StateEmpaquetado:
		if delivery == enums.DeliveryDespacho {
			return enums.StateListoDespacho, true
		}
		return enums.StateListoRetiro, true
	case enums.StateListoRetiro:
		return enums.StateEntregado, true
	case enums.StateListoDespacho:
		return enums.StateEnDespacho, true
	case enums.StateEnDespacho:
		return enums.StateEntregado, true
	default:
		return "", false
	}
}
