package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"off", LevelOff, false, false},
		{"normal", LevelNormal, false, true},
		{"verbose", LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)

			log.Debug("debug %d", 1)
			if got := strings.Contains(buf.String(), "debug 1"); got != tt.wantDebug {
				t.Fatalf("debug output present=%v, want %v (%q)", got, tt.wantDebug, buf.String())
			}

			log.Info("info %s", "line")
			if got := strings.Contains(buf.String(), "info line"); got != tt.wantInfo {
				t.Fatalf("info output present=%v, want %v (%q)", got, tt.wantInfo, buf.String())
			}
		})
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)
	child := log.Named("session")

	log.SetLevel(LevelOff)
	child.Error("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output after parent set to off, got %q", buf.String())
	}

	log.SetLevel(LevelNormal)
	child.Warn("hydration failed")
	out := buf.String()
	if !strings.Contains(out, "hydration failed") || !strings.Contains(out, "session") {
		t.Fatalf("expected component-tagged line, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"off":     LevelOff,
		"QUIET":   LevelOff,
		"debug":   LevelVerbose,
		"verbose": LevelVerbose,
		"info":    LevelNormal,
		"":        LevelNormal,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
}
