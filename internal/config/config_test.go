package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SocketDir != "" {
		t.Fatalf("expected zero-value config, got %+v", cfg)
	}
}

func TestLoadFromParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "socket_dir: /tmp/custom-sockets\ndefault_rows: 30\ndefault_cols: 100\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.SocketDir != "/tmp/custom-sockets" || cfg.DefaultRows != 30 || cfg.DefaultCols != 100 {
		t.Fatalf("got %+v", cfg)
	}
}
