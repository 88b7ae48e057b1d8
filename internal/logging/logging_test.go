package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		log, err := New(Options{Level: tt.level, File: filepath.Join(t.TempDir(), "out.log")})
		if err != nil {
			t.Fatalf("New(%q): %v", tt.level, err)
		}
		if !log.Core().Enabled(tt.want) {
			t.Fatalf("level %q: %v not enabled", tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && log.Core().Enabled(tt.want-1) {
			t.Fatalf("level %q: %v enabled", tt.level, tt.want-1)
		}
	}
}

func TestNew_DiscardWithoutFile(t *testing.T) {
	log, err := New(Options{Discard: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected a no-op logger")
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showcase.log")
	log, err := New(Options{File: path, Discard: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("catalog loaded")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"catalog loaded"`) {
		t.Fatalf("log file = %s", b)
	}
}
