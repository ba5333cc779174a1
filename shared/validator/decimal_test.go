package validator_test

import (
	"littlelemon/shared/validator"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "plain", value: "80"},
		{name: "two places", value: "12.50"},
		{name: "zero with places", value: "0.00"},
		{name: "negative", value: "-5.25"},
		{name: "largest", value: "99999999.99"},
		{name: "exponent form", value: "1e3"},
		{name: "too many places", value: "1.555", want: []string{"price must have no more than 2 decimal places"}},
		{name: "trailing zero counts", value: "1.500", want: []string{"price must have no more than 2 decimal places"}},
		{name: "too many digits", value: "12345678901", want: []string{"price must have no more than 10 digits in total"}},
		{name: "too many whole digits", value: "123456789", want: []string{"price must have no more than 8 digits before the decimal point"}},
		{name: "small fraction", value: "0.001", want: []string{"price must have no more than 2 decimal places"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validator.Digits("price", decimal.RequireFromString(tt.value), 10, 2)

			assert.Equal(t, tt.want, got)
		})
	}
}
