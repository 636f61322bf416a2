package logging

import (
	"bytes"
	"strings"
	"testing"

	"charm.land/log/v2"
)

func TestNewWriterLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		want  bool
	}{
		{"debug shows debug", log.DebugLevel, true},
		{"info hides debug", log.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWriter(&buf, tt.level)
			logger.Debug("pointer desync", "state", "idle")
			if got := strings.Contains(buf.String(), "pointer desync"); got != tt.want {
				t.Fatalf("output %q, want logged=%v", buf.String(), tt.want)
			}
		})
	}
}

func TestNewWithoutDebugDiscards(t *testing.T) {
	logger, closeFn, err := New(false)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = closeFn() }()
	if logger.GetLevel() != log.ErrorLevel {
		t.Fatalf("level = %v, want error", logger.GetLevel())
	}
}

func TestNewStartupShowsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStartup(&buf)
	logger.Info("starting")
	logger.Warn("config warning", "key", "edge_threshold")
	out := buf.String()
	if strings.Contains(out, "starting") || !strings.Contains(out, "config warning") {
		t.Fatalf("output %q", out)
	}
}
