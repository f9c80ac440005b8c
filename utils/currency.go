package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ToBeArranged is shown wherever a price is agreed in person.
const ToBeArranged = "À combinar"

var hundred = decimal.NewFromInt(100)

// FormatCurrency renders a BRL amount the way pt-BR Intl.NumberFormat does:
// "R$", a no-break space, dot thousands and comma decimals.
func FormatCurrency(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ToBeArranged
	}
	return formatBRL(amount.Decimal)
}

func formatBRL(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("R$\u00a0")
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// ToCents converts an amount to minor units, rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// Totals splits a service price into what is paid up front and what remains.
type Totals struct {
	Total       string `json:"total"`
	DownPayment string `json:"down_payment"`
	Remaining   string `json:"remaining"`
}

// CalculateTotal formats total, down payment and remaining balance.
func CalculateTotal(price decimal.NullDecimal, downPayment decimal.Decimal) Totals {
	if !price.Valid {
		return Totals{Total: ToBeArranged, DownPayment: formatBRL(downPayment), Remaining: ToBeArranged}
	}
	return Totals{
		Total:       formatBRL(price.Decimal),
		DownPayment: formatBRL(downPayment),
		Remaining:   formatBRL(price.Decimal.Sub(downPayment)),
	}
}
