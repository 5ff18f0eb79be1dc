package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const amountPrecision = 2

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DeriveShares computes the share count purchasable with amount at pricePerShare:
// floor(amount / pricePerShare). Returns zero when pricePerShare is zero or
// either input is invalid.
func DeriveShares(amount, pricePerShare string) int64 {
	a := SafeParse(amount)
	p := SafeParse(pricePerShare)
	if p.IsZero() {
		return 0
	}
	return a.Div(p).Floor().IntPart()
}

// FormatAmount rounds a monetary amount to 2 decimal places and strips
// trailing zeros. Returns "0" for invalid input.
func FormatAmount(value string) string {
	return formatAmount(SafeParse(value))
}

// SumAmounts adds a sequence of string amounts, ignoring invalid entries.
func SumAmounts(values ...string) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(SafeParse(v))
	}
	return total
}

func formatAmount(d decimal.Decimal) string {
	s := d.Round(amountPrecision).StringFixed(amountPrecision)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
