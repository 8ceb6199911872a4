package config

import (
	"testing"
	"time"
)

var viteKeys = []string{
	"VITE_API_URL",
	"VITE_API_VERSION",
	"VITE_API_TIMEOUT",
	"VITE_APP_TITLE",
	"VITE_APP_ENV",
	"VITE_ENABLE_MOCK_DATA",
	"VITE_LOG_LEVEL",
}

func clearVite(t *testing.T) {
	t.Helper()
	for _, key := range viteKeys {
		t.Setenv(key, "")
	}
}

func TestResolve_Defaults(t *testing.T) {
	clearVite(t)

	cfg := Resolve()
	if cfg.APIBaseURL != "http://localhost:8000/api" {
		t.Fatalf("expected default base url, got %q", cfg.APIBaseURL)
	}
	if cfg.APIVersion != "1" || cfg.Timeout != 30*time.Second {
		t.Fatalf("unexpected api defaults: %+v", cfg)
	}
	if cfg.AppTitle != "BricksValuation" || cfg.AppEnv != "development" || !cfg.IsDev || cfg.IsProd {
		t.Fatalf("unexpected app defaults: %+v", cfg)
	}
	if cfg.EnableMockData || cfg.LogLevel != "info" {
		t.Fatalf("unexpected flag defaults: %+v", cfg)
	}
}

func TestResolve_FromEnvironment(t *testing.T) {
	clearVite(t)
	t.Setenv("VITE_API_URL", "https://bricks.example.com/api/")
	t.Setenv("VITE_API_VERSION", "2")
	t.Setenv("VITE_API_TIMEOUT", "1500")
	t.Setenv("VITE_APP_TITLE", "Bricks")
	t.Setenv("VITE_APP_ENV", "production")
	t.Setenv("VITE_ENABLE_MOCK_DATA", "true")
	t.Setenv("VITE_LOG_LEVEL", "debug")

	cfg := Resolve()
	if cfg.APIBaseURL != "https://bricks.example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.APIVersion != "2" || cfg.Timeout != 1500*time.Millisecond {
		t.Fatalf("unexpected api values: %+v", cfg)
	}
	if cfg.AppTitle != "Bricks" || !cfg.IsProd || cfg.IsDev {
		t.Fatalf("unexpected app values: %+v", cfg)
	}
	if !cfg.EnableMockData || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
}

func TestResolve_InvalidValuesFallBack(t *testing.T) {
	clearVite(t)
	t.Setenv("VITE_API_TIMEOUT", "soon")
	t.Setenv("VITE_ENABLE_MOCK_DATA", "yes")

	cfg := Resolve()
	if cfg.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout)
	}
	if cfg.EnableMockData {
		t.Fatalf("only the literal \"true\" enables mock data")
	}
}

func TestConfiguration_AuthPath(t *testing.T) {
	tests := map[string]struct {
		version string
		op      string
		want    string
	}{
		"plain version":    {version: "1", op: "register", want: "/v1/auth/register"},
		"prefixed version": {version: "v2", op: "login", want: "/v2/auth/login"},
		"leading slash":    {version: "1", op: "/me", want: "/v1/auth/me"},
		"empty version":    {version: "", op: "logout", want: "/v1/auth/logout"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Configuration{APIVersion: tt.version}
			if got := cfg.AuthPath(tt.op); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConfiguration_APIPath(t *testing.T) {
	cfg := Configuration{APIVersion: "v3"}
	if got := cfg.APIPath("/bricksets/7"); got != "/v3/bricksets/7" {
		t.Fatalf("unexpected path: %s", got)
	}
	if got := (Configuration{}).APIPath("users/me/valuations"); got != "/v1/users/me/valuations" {
		t.Fatalf("unexpected default path: %s", got)
	}
}

func TestConfiguration_Endpoint(t *testing.T) {
	cfg := Configuration{APIBaseURL: "http://localhost:8000/api", APIVersion: "1"}
	if got := cfg.Endpoint(cfg.AuthPath("register")); got != "http://localhost:8000/api/v1/auth/register" {
		t.Fatalf("unexpected endpoint: %s", got)
	}
}
