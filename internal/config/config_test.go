package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %q", cfg.Database.Driver)
	}
	if cfg.Schedule.ProjectSpanMonths != 6 {
		t.Errorf("expected 6 month span, got %d", cfg.Schedule.ProjectSpanMonths)
	}
	if cfg.Snapshots.Cron != "@daily" {
		t.Errorf("expected @daily, got %q", cfg.Snapshots.Cron)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("SNAPSHOTS_CRON", "0 */6 * * *")
	t.Setenv("SNAPSHOTS_TIMEOUT", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("expected memory driver, got %q", cfg.Database.Driver)
	}
	if cfg.Snapshots.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.Snapshots.Timeout)
	}
	if cfg.Log.Level != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.Log.Level)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("expected invalid REDIS_DB to fall back to 0, got %d", cfg.Redis.DB)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"SERVER_PORT": "70000"}},
		{"unknown driver", map[string]string{"DATABASE_DRIVER": "mongo"}},
		{"empty dsn", map[string]string{"DATABASE_DSN": ""}},
		{"bad cron", map[string]string{"SNAPSHOTS_CRON": "every day"}},
		{"zero span", map[string]string{"SCHEDULE_PROJECT_SPAN_MONTHS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
