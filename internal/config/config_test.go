package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  env: dev
  locale: en-US
db:
  driver: memory
  request_timeout: 2s
auth:
  mode: jwt
  jwt_secret: secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Env != Development {
		t.Errorf("expected dev env, got %q", cfg.App.Env)
	}
	if cfg.App.Locale != "en-US" {
		t.Errorf("expected en-US locale, got %q", cfg.App.Locale)
	}
	if cfg.DB.Driver != DriverMemory {
		t.Errorf("expected memory driver, got %q", cfg.DB.Driver)
	}
	if cfg.DB.RequestTimeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %v", cfg.DB.RequestTimeout)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Redis.TTL != 10*time.Minute {
		t.Errorf("expected default redis ttl, got %v", cfg.Redis.TTL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
app:
  env: dev
db:
  driver: memory
auth:
  jwt_secret: secret
`)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_LOCALE", "pt-BR")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port from env, got %d", cfg.Server.Port)
	}
	if cfg.App.Locale != "pt-BR" {
		t.Errorf("expected locale from env, got %q", cfg.App.Locale)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown env",
			body: "app:\n  env: staging\ndb:\n  driver: memory\nauth:\n  jwt_secret: s\n",
		},
		{
			name: "postgres without dsn",
			body: "app:\n  env: dev\ndb:\n  driver: postgres\nauth:\n  jwt_secret: s\n",
		},
		{
			name: "jwt without secret",
			body: "app:\n  env: dev\ndb:\n  driver: memory\n",
		},
		{
			name: "remote without provider",
			body: "app:\n  env: dev\ndb:\n  driver: memory\nauth:\n  mode: remote\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, ErrConfigNotLoaded) {
				t.Errorf("expected ErrConfigNotLoaded, got %v", err)
			}
		})
	}
}
