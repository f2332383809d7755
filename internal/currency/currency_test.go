package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"1234567.891", "CNY", "¥1,234,567.89"},
		{"-42.5", "USD", "-$42.50"},
		{"0", "EUR", "€0.00"},
		{"1500", "JPY", "¥1500"},
		{"1500000", "KRW", "₩1,500,000"},
		{"999", "HKD", "HK$999.00"},
		{"123.45", "XXX", "¥123.45"}, // unknown code falls back to CNY
	}
	for _, tt := range tests {
		got := Format(decimal.RequireFromString(tt.amount), tt.code)
		if got != tt.want {
			t.Errorf("Format(%s, %s) = %s, want %s", tt.amount, tt.code, got, tt.want)
		}
	}
}

func TestFormatPlain(t *testing.T) {
	got := FormatPlain(decimal.RequireFromString("-9876.5"), "USD")
	if got != "-9,876.50" {
		t.Fatalf("FormatPlain = %s, want -9,876.50", got)
	}
}

func TestByCodeFallsBack(t *testing.T) {
	if c := ByCode("ZZZ"); c.Code != "CNY" {
		t.Fatalf("ByCode(ZZZ) = %s, want CNY fallback", c.Code)
	}
	if c := ByCode("TWD"); c.Symbol != "NT$" || c.DecimalPlaces != 0 {
		t.Fatalf("ByCode(TWD) = %+v", c)
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"¥1,234.56", "1234.56"},
		{"$-42.50", "-42.5"},
		{"abc", "0"},
		{"", "0"},
	}
	for _, tt := range tests {
		if got := ParseInput(tt.in); !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseInput(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
