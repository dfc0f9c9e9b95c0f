package main

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "not-a-port")

	if code := run(); code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
}

func TestRunServerStartFailureFlushesLogs(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to reserve a port: %v", err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	logDir := t.TempDir()
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "test")
	t.Setenv("ADDRESS", "127.0.0.1")
	t.Setenv("PORT", port)
	t.Setenv("LOG_DIR", logDir)

	if code := run(); code != 1 {
		t.Fatalf("Expected exit code 1 when the port is taken, got %d", code)
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("Failed to read log dir: %v", err)
	}
	var found bool
	for _, e := range entries {
		content, err := os.ReadFile(filepath.Join(logDir, e.Name()))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", e.Name(), err)
		}
		if strings.Contains(string(content), "Server failed to start") {
			found = true
		}
	}
	if !found {
		t.Error("Expected the startup failure to be written to the log file")
	}
}
