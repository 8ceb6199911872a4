package config

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a VITE_* variable is unset or unusable.
const (
	DefaultAPIBaseURL = "http://localhost:8000/api"
	DefaultAPIVersion = "1"
	DefaultTimeout    = 30000 * time.Millisecond
	DefaultAppTitle   = "BricksValuation"
	DefaultAppEnv     = "development"
	DefaultLogLevel   = "info"
)

// Configuration is the client-side deployment configuration. It is resolved
// once and passed around by value.
type Configuration struct {
	APIBaseURL     string
	APIVersion     string
	Timeout        time.Duration
	AppTitle       string
	AppEnv         string
	IsDev          bool
	IsProd         bool
	EnableMockData bool
	LogLevel       string
}

// Resolve reads the client configuration from the environment. Missing or
// malformed values fall back to their defaults; Resolve never fails.
func Resolve() Configuration {
	appEnv := getEnv("VITE_APP_ENV", DefaultAppEnv)

	return Configuration{
		APIBaseURL:     strings.TrimRight(getEnv("VITE_API_URL", DefaultAPIBaseURL), "/"),
		APIVersion:     getEnv("VITE_API_VERSION", DefaultAPIVersion),
		Timeout:        parseMillis(getEnv("VITE_API_TIMEOUT", ""), DefaultTimeout),
		AppTitle:       getEnv("VITE_APP_TITLE", DefaultAppTitle),
		AppEnv:         appEnv,
		IsDev:          appEnv == "development",
		IsProd:         appEnv == "production",
		EnableMockData: getEnv("VITE_ENABLE_MOCK_DATA", "") == "true",
		LogLevel:       getEnv("VITE_LOG_LEVEL", DefaultLogLevel),
	}
}

// AuthPath returns the versioned path of an auth operation, e.g. /v1/auth/register.
func (c Configuration) AuthPath(op string) string {
	return c.APIPath("auth/" + strings.TrimLeft(op, "/"))
}

// APIPath prefixes path with the API version, e.g. /v1/bricksets.
func (c Configuration) APIPath(path string) string {
	version := strings.TrimPrefix(c.APIVersion, "v")
	if version == "" {
		version = DefaultAPIVersion
	}
	return "/v" + version + "/" + strings.TrimLeft(path, "/")
}

// Endpoint joins the API base URL with path.
func (c Configuration) Endpoint(path string) string {
	base := c.APIBaseURL
	if base == "" {
		base = DefaultAPIBaseURL
	}
	joined, err := url.JoinPath(base, path)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return joined
}

func parseMillis(input string, fallback time.Duration) time.Duration {
	ms, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
