package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNNHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "20240615T143045Z",
			level:   slog.LevelInfo,
			message: "restore complete",
			want:    "2024-06-15T14:30:45Z\tINFO\t20240615T143045Z\trestore complete\n",
		},
		{
			name:    "error level",
			opID:    "op-456",
			level:   slog.LevelError,
			message: "restore failed",
			want:    "2024-06-15T14:30:45Z\tERROR\top-456\trestore failed\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "backup saved",
			attrs:   []slog.Attr{slog.String("path", "/backups/b.nnbackup"), slog.Int("bytes", 42)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\tbackup saved\tpath=/backups/b.nnbackup\tbytes=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &nnHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestNNHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &nnHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "vault")}).(*nnHandler)
	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "upload", 0)
	r.AddAttrs(slog.String("key", "abc"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{"a=1", "component=vault", "key=abc"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %s", got, want)
		}
	}
}

func TestNNHandler_Enabled(t *testing.T) {
	all := &nnHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !all.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true", level)
		}
	}

	warn := &nnHandler{level: slog.LevelWarn}
	if warn.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(INFO) with level WARN = true")
	}
	if !warn.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(ERROR) with level WARN = false")
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")
	var console bytes.Buffer

	logger, f, err := newLogger(dir, "test-op", &console)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Info("hello", "k", "v")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "\ttest-op\thello\tk=v") {
		t.Errorf("log file = %q", data)
	}
	if console.String() != string(data) {
		t.Errorf("console = %q, want same as file", console.String())
	}
}
