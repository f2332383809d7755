package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.WarnLevel},
		{"bogus", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(&buf, zerolog.InfoLevel)

	log.Debug().Msg("hidden")
	log.Info().Str("component", "daemon").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatal("debug line emitted at info level")
	}
	if !strings.Contains(out, `"component":"daemon"`) || !strings.Contains(out, "shown") {
		t.Fatalf("output = %q", out)
	}
}
