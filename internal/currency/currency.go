// Package currency formats money amounts for display in a session's currency.
package currency

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Default is used when a session has no currency selected.
const Default = "USD"

// Currency describes a supported display currency.
type Currency struct {
	Code     string
	Symbol   string
	Decimals int32
}

var supported = []Currency{
	{Code: "USD", Symbol: "$", Decimals: 2},
	{Code: "EUR", Symbol: "€", Decimals: 2},
	{Code: "GBP", Symbol: "£", Decimals: 2},
	{Code: "INR", Symbol: "₹", Decimals: 2},
	{Code: "JPY", Symbol: "¥", Decimals: 0},
}

// All returns the supported currencies in display order.
func All() []Currency {
	out := make([]Currency, len(supported))
	copy(out, supported)
	return out
}

// Lookup finds a supported currency by code, case-insensitively.
func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range supported {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Supported reports whether code names a supported currency.
func Supported(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Symbol returns the symbol for code, falling back to the default currency.
func Symbol(code string) string {
	return resolve(code).Symbol
}

// Format renders amount with the currency symbol and thousands separators,
// e.g. Format(1234.5, "USD") == "$1,234.50".
// Non-finite amounts render as the symbol followed by NaN or ∞.
func Format(amount float64, code string) string {
	c := resolve(code)
	switch {
	case math.IsNaN(amount):
		return c.Symbol + "NaN"
	case math.IsInf(amount, 1):
		return c.Symbol + "∞"
	case math.IsInf(amount, -1):
		return "-" + c.Symbol + "∞"
	}
	d := decimal.NewFromFloat(amount).Round(c.Decimals)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	s := d.StringFixed(c.Decimals)
	intPart, frac, _ := strings.Cut(s, ".")
	out := sign + c.Symbol + groupThousands(intPart)
	if frac != "" {
		out += "." + frac
	}
	return out
}

func resolve(code string) Currency {
	if c, ok := Lookup(code); ok {
		return c
	}
	c, _ := Lookup(Default)
	return c
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
