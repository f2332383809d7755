package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"123", "123"},
		{"9999", "9999"},
		{"12345", "12.3K"},
		{"1234567", "1.2M"},
	}
	for _, tt := range tests {
		if got := FormatCompact(decimal.RequireFromString(tt.amount)); got != tt.want {
			t.Errorf("FormatCompact(%s) = %s, want %s", tt.amount, got, tt.want)
		}
	}
}

func TestFormatDays(t *testing.T) {
	if got := FormatDays(0); got != "today" {
		t.Errorf("FormatDays(0) = %s", got)
	}
	if got := FormatDays(1); got != "tomorrow" {
		t.Errorf("FormatDays(1) = %s", got)
	}
	if got := FormatDays(12); got != "12 days" {
		t.Errorf("FormatDays(12) = %s", got)
	}
}

func TestRenderSparklineScalesFromMin(t *testing.T) {
	// A flat-ish curve far from zero must still vary.
	s := RenderSparkline([]float64{1000, 1001, 1002, 1003})
	runes := []rune(s)
	if len(runes) != 4 {
		t.Fatalf("len = %d, want 4", len(runes))
	}
	if runes[0] == runes[3] {
		t.Fatalf("sparkline flat: %s", s)
	}
}

func TestRenderTableHasAllRows(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Name", "Balance"},
		Rows: [][]string{
			{"Cash", "120.00"},
			{"Bank", "3,400.00"},
		},
	})
	for _, want := range []string{"Name", "Cash", "3,400.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}
}
