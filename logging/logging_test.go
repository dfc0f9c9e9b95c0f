package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/giygas/hemoterapia-api/config"
	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLogLevel(tt.input)
			if got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetConsoleLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		env         config.Environment
		logLevelStr string
		verbose     bool
		expected    slog.Level
	}{
		{"dev defaults to info", config.EnvDevelopment, "", false, slog.LevelInfo},
		{"test quiet defaults to error", config.EnvTest, "", false, slog.LevelError},
		{"test verbose defaults to info", config.EnvTest, "", true, slog.LevelInfo},
		{"prod defaults to warn", config.EnvProduction, "", false, slog.LevelWarn},
		{"staging defaults to warn", config.EnvStaging, "", false, slog.LevelWarn},
		{"prod with debug override", config.EnvProduction, "debug", false, slog.LevelDebug},
		{"dev with error override", config.EnvDevelopment, "error", false, slog.LevelError},
		{"test with debug override (ignored)", config.EnvTest, "debug", false, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetConsoleLogLevel(tt.env, tt.logLevelStr, tt.verbose)
			if got != tt.expected {
				t.Errorf("GetConsoleLogLevel(%v, %q, %v) = %v, want %v", tt.env, tt.logLevelStr, tt.verbose, got, tt.expected)
			}
		})
	}
}

func TestGetFileLogLevel(t *testing.T) {
	if got := GetFileLogLevel("error"); got != slog.LevelInfo {
		t.Errorf("GetFileLogLevel(error) = %v, want info", got)
	}
	if got := GetFileLogLevel("debug"); got != slog.LevelDebug {
		t.Errorf("GetFileLogLevel(debug) = %v, want debug", got)
	}
}

func TestLoggingServiceWritesFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewLoggingService(LoggerConfig{LogDir: dir, Env: config.EnvTest, Level: "info", RetentionWeeks: 1})
	defer svc.Close()

	svc.Logger.Info("evaluation served", "products", 2)

	data, err := os.ReadFile(filepath.Join(dir, logFilePrefix+weekKey(time.Now())+".log"))
	if err != nil {
		t.Fatalf("Expected log file, got %v", err)
	}
	if !strings.Contains(string(data), `"msg":"evaluation served"`) {
		t.Errorf("Expected JSON record in log file, got %s", data)
	}
}

func TestConsoleOnlyService(t *testing.T) {
	svc := NewLoggingService(LoggerConfig{Env: config.EnvTest})
	if svc.Logger == nil {
		t.Fatal("Expected logger")
	}
	if err := svc.CleanupOldLogs(); err != nil {
		t.Errorf("Expected no-op cleanup, got %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Expected no-op close, got %v", err)
	}
}

func TestRotatingLoggerSizeRollover(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1, 64)
	defer rl.Close()

	line := []byte(strings.Repeat("x", 40) + "\n")
	for range 3 {
		if _, err := rl.Write(line); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	week := weekKey(time.Now())
	for _, name := range []string{logFilePrefix + week + ".log", logFilePrefix + week + "_01.log", logFilePrefix + week + "_02.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestRotatingLoggerWeekChange(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1, 0)
	defer rl.Close()

	now := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	if _, err := rl.Write([]byte("first\n")); err != nil {
		t.Fatal(err)
	}

	now = now.AddDate(0, 0, 7)
	if _, err := rl.Write([]byte("second\n")); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"hemo-2026-W42.log", "hemo-2026-W43.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 1, 0)
	defer rl.Close()

	old := filepath.Join(dir, "hemo-2020-W01.log")
	unrelated := filepath.Join(dir, "other.log")
	for _, path := range []string{old, unrelated} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		past := time.Now().AddDate(0, 0, -30)
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := rl.Write([]byte("current\n")); err != nil {
		t.Fatal(err)
	}

	if err := rl.CleanupOldLogs(); err != nil {
		t.Fatalf("CleanupOldLogs failed: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Expected expired log to be removed")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("Expected unrelated file to be kept")
	}
	if _, err := os.Stat(filepath.Join(dir, logFilePrefix+weekKey(time.Now())+".log")); err != nil {
		t.Error("Expected current log to be kept")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := middleware.RequestID(LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/v1/transfusions/evaluate?teaching=true", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"status_code":201`, `"bytes_written":2`, `"query":"teaching=true"`, `"path":"/v1/transfusions/evaluate"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log to contain %s, got %s", want, out)
		}
	}
	if strings.Contains(out, `"request_id":"unknown"`) {
		t.Error("Expected request ID from chi middleware")
	}
}

func TestLoggingMiddlewareSkipsHealth(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, path := range []string{"/health", "/metrics"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no logs, got %s", buf.String())
	}
}
