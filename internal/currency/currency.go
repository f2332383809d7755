// Package currency holds the supported currency table and display
// formatting. Amounts are formatted for humans here; arithmetic stays
// in decimal everywhere else.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Config describes one supported currency.
type Config struct {
	Code          string
	Symbol        string
	Name          string
	DecimalPlaces int32
}

// Supported is ordered for display; the first entry is the fallback.
var Supported = []Config{
	{Code: "CNY", Symbol: "¥", Name: "人民币", DecimalPlaces: 2},
	{Code: "USD", Symbol: "$", Name: "US Dollar", DecimalPlaces: 2},
	{Code: "EUR", Symbol: "€", Name: "Euro", DecimalPlaces: 2},
	{Code: "GBP", Symbol: "£", Name: "British Pound", DecimalPlaces: 2},
	{Code: "JPY", Symbol: "¥", Name: "日本円", DecimalPlaces: 0},
	{Code: "KRW", Symbol: "₩", Name: "한국 원", DecimalPlaces: 0},
	{Code: "HKD", Symbol: "HK$", Name: "港币", DecimalPlaces: 2},
	{Code: "TWD", Symbol: "NT$", Name: "新台幣", DecimalPlaces: 0},
}

// ByCode looks up a currency, falling back to the first table entry
// for unknown codes.
func ByCode(code string) Config {
	for _, c := range Supported {
		if c.Code == code {
			return c
		}
	}
	return Supported[0]
}

// Format renders an amount with the currency's symbol, decimal places,
// and thousand separators. Negative amounts carry a leading minus
// before the symbol.
func Format(amount decimal.Decimal, code string) string {
	return format(amount, code, true)
}

// FormatPlain is Format without the symbol.
func FormatPlain(amount decimal.Decimal, code string) string {
	return format(amount, code, false)
}

func format(amount decimal.Decimal, code string, symbol bool) string {
	c := ByCode(code)

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	if symbol {
		b.WriteString(c.Symbol)
	}

	fixed := amount.Abs().StringFixed(c.DecimalPlaces)
	whole, frac, hasFrac := strings.Cut(fixed, ".")
	b.WriteString(groupThousands(whole))
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseInput strips symbols and separators from user-typed amounts.
// Unparseable input yields zero.
func ParseInput(input string) decimal.Decimal {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
