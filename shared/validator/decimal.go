package validator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Digits checks that value fits a NUMERIC(maxDigits, places) column and returns at most one message.
// Trailing zeros count, so 1.500 has three decimal places.
func Digits(field string, value decimal.Decimal, maxDigits, places int) []string {
	digits := len(value.Coefficient().String())
	if value.Coefficient().Sign() < 0 {
		digits--
	}

	exponent := int(value.Exponent())

	var total, whole, decimals int

	switch {
	case exponent >= 0:
		total = digits + exponent
		whole = total
	case digits > -exponent:
		total = digits
		decimals = -exponent
		whole = total - decimals
	default:
		decimals = -exponent
		total = decimals
	}

	switch {
	case total > maxDigits:
		return []string{fmt.Sprintf("%s must have no more than %d digits in total", field, maxDigits)}
	case decimals > places:
		return []string{fmt.Sprintf("%s must have no more than %d decimal places", field, places)}
	case whole > maxDigits-places:
		return []string{fmt.Sprintf("%s must have no more than %d digits before the decimal point", field, maxDigits-places)}
	}

	return nil
}
