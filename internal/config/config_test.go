package config

import (
	"strings"
	"testing"
)

// setRequired sets the minimum environment for Load to succeed. Tests using
// t.Setenv cannot run in parallel.
func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("SESSION_KEY", "test-session-key")
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "test-client-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "http://localhost:8080/callback")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.DatabasePath != "./travel_guide.db" {
		t.Errorf("DatabasePath = %q, want ./travel_guide.db", cfg.DatabasePath)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("FrontendURL = %q, want http://localhost:3000", cfg.FrontendURL)
	}
	if cfg.StaticDir != "./static" {
		t.Errorf("StaticDir = %q, want ./static", cfg.StaticDir)
	}
	if cfg.EnableHSTS {
		t.Error("EnableHSTS = true, want false by default")
	}
	if cfg.ServerDebugMode {
		t.Error("ServerDebugMode = true, want false by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_PATH", "/var/data/guide.db")
	t.Setenv("ENABLE_HSTS", "true")
	t.Setenv("SERVER_DEBUG_MODE", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.DatabasePath != "/var/data/guide.db" {
		t.Errorf("DatabasePath = %q, want /var/data/guide.db", cfg.DatabasePath)
	}
	if !cfg.EnableHSTS {
		t.Error("EnableHSTS = false, want true")
	}
	if !cfg.ServerDebugMode {
		t.Error("ServerDebugMode = false, want true")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{name: "session key", unset: "SESSION_KEY", wantErr: "SESSION_KEY"},
		{name: "client id", unset: "GOOGLE_CLIENT_ID", wantErr: "GOOGLE_CLIENT_ID"},
		{name: "client secret", unset: "GOOGLE_CLIENT_SECRET", wantErr: "GOOGLE_CLIENT_SECRET"},
		{name: "redirect uri", unset: "GOOGLE_REDIRECT_URI", wantErr: "GOOGLE_REDIRECT_URI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() error = nil, want error about %s", tt.unset)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
