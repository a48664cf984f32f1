package enums

import "fmt"

// IncidentCategory classifies general plant incidents attached to a seguimiento.
type IncidentCategory string

const (
	IncidentPrendaDanada      IncidentCategory = "prenda_danada"
	IncidentPrendaPerdida     IncidentCategory = "prenda_perdida"
	IncidentManchaPersistente IncidentCategory = "mancha_persistente"
	IncidentRetrasoProceso    IncidentCategory = "retraso_proceso"
	IncidentOtro              IncidentCategory = "otro"
)

var validIncidentCategories = []IncidentCategory{
	IncidentPrendaDanada,
	IncidentPrendaPerdida,
	IncidentManchaPersistente,
	IncidentRetrasoProceso,
	IncidentOtro,
}

// IsValid reports whether the value matches the canonical categoria enum.
func (c IncidentCategory) IsValid() bool {
	for _, candidate := range validIncidentCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseIncidentCategory converts the raw string to IncidentCategory.
func ParseIncidentCategory(value string) (IncidentCategory, error) {
	for _, candidate := range validIncidentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid incident category %q", value)
}

// DispatchIncidentCategory classifies failures on the street, kept separate
// from plant incidents because they live on the despacho row.
type DispatchIncidentCategory string

const (
	DispatchIncidentClienteAusente      DispatchIncidentCategory = "cliente_ausente"
	DispatchIncidentDireccionIncorrecta DispatchIncidentCategory = "direccion_incorrecta"
	DispatchIncidentVehiculoAveriado    DispatchIncidentCategory = "vehiculo_averiado"
	DispatchIncidentOtro                DispatchIncidentCategory = "otro"
)

var validDispatchIncidentCategories = []DispatchIncidentCategory{
	DispatchIncidentClienteAusente,
	DispatchIncidentDireccionIncorrecta,
	DispatchIncidentVehiculoAveriado,
	DispatchIncidentOtro,
}

// IsValid reports whether the value matches the canonical categoria enum.
func (c DispatchIncidentCategory) IsValid() bool {
	for _, candidate := range validDispatchIncidentCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseDispatchIncidentCategory converts the raw string to DispatchIncidentCategory.
func ParseDispatchIncidentCategory(value string) (DispatchIncidentCategory, error) {
	for _, candidate := range validDispatchIncidentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dispatch incident category %q", value)
}
