package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PollInterval != 2*time.Second {
		t.Errorf("poll_interval = %v, want 2s", cfg.PollInterval)
	}
	if cfg.HistorySize != 600 {
		t.Errorf("history_size = %d, want 600", cfg.HistorySize)
	}
	if cfg.Server.Listen != ":8090" {
		t.Errorf("server.listen = %q, want :8090", cfg.Server.Listen)
	}
	if len(cfg.Fleet) != len(DefaultFleet) {
		t.Errorf("fleet = %d machines, want default %d", len(cfg.Fleet), len(DefaultFleet))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
endpoint: http://plant.local:8090
token: abc123
poll_interval: 5s
server:
  listen: ":9999"
  jwt_secret: hunter2
fleet:
  - id: press-07
    kind: hydraulic_press
  - id: reactor-02
    kind: reactor
`
	if err := os.WriteFile(filepath.Join(dir, "plantwatch.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Endpoint != "http://plant.local:8090" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.Token != "abc123" {
		t.Errorf("token = %q", cfg.Token)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("poll_interval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.Server.Listen != ":9999" || cfg.Server.JWTSecret != "hunter2" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if len(cfg.Fleet) != 2 || cfg.Fleet[0].ID != "press-07" || cfg.Fleet[1].Kind != "reactor" {
		t.Errorf("fleet = %+v", cfg.Fleet)
	}
}
