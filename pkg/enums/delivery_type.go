package enums

import "fmt"

// DeliveryType is how the finished comanda leaves the plant.
type DeliveryType string

const (
	DeliveryRetiro   DeliveryType = "retiro"
	DeliveryDespacho DeliveryType = "despacho"
)

var validDeliveryTypes = []DeliveryType{
	DeliveryRetiro,
	DeliveryDespacho,
}

// IsValid reports whether the value matches the canonical tipo_entrega enum.
func (d DeliveryType) IsValid() bool {
	for _, candidate := range validDeliveryTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryType converts the raw string to DeliveryType.
func ParseDeliveryType(value string) (DeliveryType, error) {
	for _, candidate := range validDeliveryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery type %q", value)
}
