package enums

import "fmt"

// CustomerType classifies who placed the comanda.
type CustomerType string

const (
	CustomerParticular  CustomerType = "particular"
	CustomerHotel       CustomerType = "hotel"
	CustomerInstitucion CustomerType = "institucion"
	CustomerEmpresa     CustomerType = "empresa"
)

var validCustomerTypes = []CustomerType{
	CustomerParticular,
	CustomerHotel,
	CustomerInstitucion,
	CustomerEmpresa,
}

// IsValid reports whether the value matches the canonical tipo_cliente enum.
func (c CustomerType) IsValid() bool {
	for _, candidate := range validCustomerTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerType converts the raw string to CustomerType.
func ParseCustomerType(value string) (CustomerType, error) {
	for _, candidate := range validCustomerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer type %q", value)
}
