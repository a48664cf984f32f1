package enums

import "fmt"

// Shift identifies the plant work shift a stage ran under.
type Shift string

const (
	ShiftA Shift = "A"
	ShiftB Shift = "B"
)

var validShifts = []Shift{
	ShiftA,
	ShiftB,
}

// IsValid reports whether the value matches the canonical turno enum.
func (s Shift) IsValid() bool {
	for _, candidate := range validShifts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShift converts the raw string to Shift.
func ParseShift(value string) (Shift, error) {
	for _, candidate := range validShifts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shift %q", value)
}
