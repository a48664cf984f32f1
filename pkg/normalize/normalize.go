package normalize

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	"github.com/elcobre-lavanderia/tracking-backend/pkg/enums"
)

// CodeAlphabet is the verification code alphabet. Ambiguous glyphs
// (I, O, 0, 1) are excluded so the code survives handwriting and phone calls.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed size of a dispatch verification code.
const CodeLength = 5

// VerificationCode generates a random dispatch code over CodeAlphabet.
func VerificationCode() (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(CodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// CustomerType maps free-form intake strings onto the closed tipo_cliente enum,
// defaulting to particular.
func CustomerType(value string) enums.CustomerType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "hotel":
		return enums.CustomerHotel
	case "institucion", "institución":
		return enums.CustomerInstitucion
	case "empresa":
		return enums.CustomerEmpresa
	default:
		return enums.CustomerParticular
	}
}

// DeliveryType maps free-form intake strings onto the tipo_entrega enum,
// defaulting to retiro.
func DeliveryType(value string) enums.DeliveryType {
	if strings.ToLower(strings.TrimSpace(value)) == "despacho" {
		return enums.DeliveryDespacho
	}
	return enums.DeliveryRetiro
}

// Phone normalizes Chilean phone numbers to +56XXXXXXXXX. Non-digit
// characters are stripped; a leading 9-digit mobile number gets the country
// code prepended. Values that cannot be normalized are returned trimmed.
func Phone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case strings.HasPrefix(d, "56") && len(d) == 11:
		return "+" + d
	case len(d) == 9:
		return "+56" + d
	case len(d) == 8:
		// old fixed-line numbers without the leading 9
		return "+569" + d
	default:
		return trimmed
	}
}
