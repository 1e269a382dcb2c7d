package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    slog.Level
		wantErr bool
	}{
		{name: "trace", level: "TRACE", want: LevelTrace},
		{name: "debug lower case", level: "debug", want: slog.LevelDebug},
		{name: "empty is info", level: "", want: slog.LevelInfo},
		{name: "warning", level: "WARNING", want: slog.LevelWarn},
		{name: "warn alias", level: "warn", want: slog.LevelWarn},
		{name: "error", level: "ERROR", want: slog.LevelError},
		{name: "off", level: "OFF", want: LevelOff},
		{name: "unknown", level: "LOUD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lv slog.LevelVar
			err := SetLevel(&lv, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lv.Level() != tt.want {
				t.Errorf("expected level %v, got %v", tt.want, lv.Level())
			}
		})
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, Config{Level: "WARNING"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.Info("hidden")
	l.Warn("shown", "worker_id", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at WARNING, got %q", out)
	}
	if !strings.Contains(out, "level=WARNING") || !strings.Contains(out, "worker_id=3") {
		t.Errorf("expected warning record with attribute, got %q", out)
	}
}

func TestNewWithWriter_JSONTrace(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, Config{Level: "TRACE", Format: "json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.Log(context.Background(), LevelTrace, "tick")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["level"] != "TRACE" {
		t.Errorf("expected level TRACE, got %v", rec["level"])
	}
	if rec["msg"] != "tick" {
		t.Errorf("expected msg tick, got %v", rec["msg"])
	}
}

func TestNewWithWriter_Off(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&buf, Config{Level: "OFF"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("expected no output at OFF, got %q", buf.String())
	}

	if err := l.SetLevel("ERROR"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Error("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("expected record after raising level, got %q", buf.String())
	}
}

func TestNew_BadFormat(t *testing.T) {
	if _, err := NewWithWriter(&bytes.Buffer{}, Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadence.log")
	l, err := New(Config{Level: "INFO", FilePath: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Info("written to file")
	if err := l.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("expected record in log file, got %q", data)
	}
}
