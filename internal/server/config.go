// config.go - Environment-sourced configuration, read once at startup.
//
// Validates everything up front to fail fast with clear error messages
// rather than runtime failures.
package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultBearerToken is the demo credential used when API_BEARER_TOKEN is
// unset. Running with it is an explicit opt-in hazard: LoadConfig logs a
// prominent warning instead of refusing to start.
const DefaultBearerToken = "mysecrettoken"

// Settings is the process configuration, immutable after LoadConfig.
type Settings struct {
	Addr          string
	UploadDir     string
	BearerToken   string
	LogLevel      string
	LogFormat     string
	SanitizeNames bool
}

// ConfigValidationError represents a single configuration problem.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// configValidator accumulates validation errors across all settings so a
// misconfigured deployment reports every problem at once.
type configValidator struct {
	errors []ConfigValidationError
}

func (v *configValidator) addError(field, message string) {
	v.errors = append(v.errors, ConfigValidationError{Field: field, Message: message})
}

func (v *configValidator) validatePort(key, value string) {
	if value == "" {
		return
	}
	portStr := strings.TrimPrefix(value, ":")
	if i := strings.LastIndex(portStr, ":"); i >= 0 {
		portStr = portStr[i+1:]
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		v.addError(key, "port must be a number")
		return
	}
	if port < 1 || port > 65535 {
		v.addError(key, "port must be between 1 and 65535")
	}
}

func (v *configValidator) validateEnum(key, value string, allowed []string) {
	for _, opt := range allowed {
		if value == opt {
			return
		}
	}
	v.addError(key, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

func (v *configValidator) errorString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d error(s):\n", len(v.errors)))
	for i, err := range v.errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// LoadConfig reads and validates every setting from the environment.
// The returned Settings are complete: defaults are already applied.
func LoadConfig() (Settings, error) {
	cfg := Settings{
		Addr:        getenvDefault("ZD_ADDR", ":8000"),
		UploadDir:   getenvDefault("ZD_UPLOAD_DIR", "uploads"),
		BearerToken: getenvDefault("API_BEARER_TOKEN", DefaultBearerToken),
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),
		LogFormat:   getenvDefault("ZD_LOG_FORMAT", "text"),
	}

	v := &configValidator{}
	v.validatePort("ZD_ADDR", cfg.Addr)
	v.validateEnum("LOG_LEVEL", cfg.LogLevel, []string{"debug", "info", "warn", "error"})
	v.validateEnum("ZD_LOG_FORMAT", cfg.LogFormat, []string{"json", "text"})
	if env := os.Getenv("ZD_ENV"); env != "" {
		v.validateEnum("ZD_ENV", env, []string{"development", "production", "staging"})
	}

	switch raw := os.Getenv("ZD_SANITIZE_FILENAMES"); raw {
	case "", "false":
	case "true":
		cfg.SanitizeNames = true
	default:
		v.addError("ZD_SANITIZE_FILENAMES", "must be true or false")
	}

	if cfg.BearerToken == "" {
		v.addError("API_BEARER_TOKEN", "must not be empty")
	}

	if len(v.errors) > 0 {
		return Settings{}, fmt.Errorf("%s", v.errorString())
	}
	return cfg, nil
}

// UsingDefaultToken reports whether the demo credential is in effect.
func (c Settings) UsingDefaultToken() bool {
	return c.BearerToken == DefaultBearerToken
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
