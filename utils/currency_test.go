package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   decimal.NullDecimal
		want string
	}{
		{price("80"), "R$\u00a080,00"},
		{price("1234.5"), "R$\u00a01.234,50"},
		{price("1234567.891"), "R$\u00a01.234.567,89"},
		{price("0"), "R$\u00a00,00"},
		{price("0.005"), "R$\u00a00,01"},
		{price("-15.5"), "-R$\u00a015,50"},
		{decimal.NullDecimal{}, "À combinar"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in))
	}
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(8000), ToCents(decimal.RequireFromString("80")))
	assert.Equal(t, int64(1999), ToCents(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(1), ToCents(decimal.RequireFromString("0.005")))
	assert.Equal(t, int64(3), ToCents(decimal.RequireFromString("0.025")))
}

func TestCalculateTotal(t *testing.T) {
	totals := CalculateTotal(price("150"), decimal.RequireFromString("50"))
	assert.Equal(t, "R$\u00a0150,00", totals.Total)
	assert.Equal(t, "R$\u00a050,00", totals.DownPayment)
	assert.Equal(t, "R$\u00a0100,00", totals.Remaining)

	arranged := CalculateTotal(decimal.NullDecimal{}, decimal.RequireFromString("30"))
	assert.Equal(t, ToBeArranged, arranged.Total)
	assert.Equal(t, "R$\u00a030,00", arranged.DownPayment)
	assert.Equal(t, ToBeArranged, arranged.Remaining)
}
