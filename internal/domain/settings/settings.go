package settings

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Settings represents global application configuration.
type Settings struct {
	ControlPort int `yaml:"control_port" json:"control_port"`

	// RegistryURL is the npm registry searched for remote packages
	RegistryURL string `yaml:"registry_url" json:"registry_url"`
	PageSize    int    `yaml:"page_size" json:"page_size"`

	// RemoteSearch disables registry enrichment when false
	RemoteSearch bool `yaml:"remote_search" json:"remote_search"`

	DebounceMillis       int `yaml:"debounce_ms" json:"debounce_ms"`
	RemoteTimeoutSeconds int `yaml:"remote_timeout_seconds" json:"remote_timeout_seconds"`
	SessionIdleMinutes   int `yaml:"session_idle_minutes" json:"session_idle_minutes"`

	// TokenEnv names the environment variable holding a registry token
	TokenEnv string `yaml:"token_env" json:"token_env"`

	CategoryScript string `yaml:"category_script,omitempty" json:"category_script,omitempty"`
	CatalogFile    string `yaml:"catalog_file,omitempty" json:"catalog_file,omitempty"`
	LogLevel       string `yaml:"log_level" json:"log_level"`
}

// DefaultSettings returns the standard configuration.
func DefaultSettings() Settings {
	return Settings{
		ControlPort:          6300,
		RegistryURL:          "https://registry.npmjs.org",
		PageSize:             20,
		RemoteSearch:         true,
		DebounceMillis:       300,
		RemoteTimeoutSeconds: 5,
		SessionIdleMinutes:   30,
		TokenEnv:             "NPM_TOKEN",
		LogLevel:             "info",
	}
}

// Debounce is the quiet period before a typed query is searched.
func (s Settings) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// RemoteTimeout bounds one registry request.
func (s Settings) RemoteTimeout() time.Duration {
	return time.Duration(s.RemoteTimeoutSeconds) * time.Second
}

// SessionIdle is how long an unused non-default session survives.
func (s Settings) SessionIdle() time.Duration {
	return time.Duration(s.SessionIdleMinutes) * time.Minute
}

// Validate checks if the settings are usable.
func (s Settings) Validate() error {
	if s.ControlPort <= 0 || s.ControlPort > 65535 {
		return fmt.Errorf("control_port out of range: %d", s.ControlPort)
	}
	if s.PageSize <= 0 || s.PageSize > 250 {
		return fmt.Errorf("page_size must be between 1 and 250, got %d", s.PageSize)
	}
	u, err := url.Parse(s.RegistryURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("registry_url must be an http(s) URL: %q", s.RegistryURL)
	}
	if s.DebounceMillis < 0 || s.RemoteTimeoutSeconds < 0 || s.SessionIdleMinutes < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// withDefaults fills zero values from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.ControlPort == 0 {
		s.ControlPort = d.ControlPort
	}
	if s.RegistryURL == "" {
		s.RegistryURL = d.RegistryURL
	}
	if s.PageSize == 0 {
		s.PageSize = d.PageSize
	}
	if s.DebounceMillis == 0 {
		s.DebounceMillis = d.DebounceMillis
	}
	if s.RemoteTimeoutSeconds == 0 {
		s.RemoteTimeoutSeconds = d.RemoteTimeoutSeconds
	}
	if s.SessionIdleMinutes == 0 {
		s.SessionIdleMinutes = d.SessionIdleMinutes
	}
	if s.TokenEnv == "" {
		s.TokenEnv = d.TokenEnv
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	return s
}

// AppDir returns the configuration directory: $STACKCART_CONFIG_DIR, or
// stackcart under the user config dir.
func AppDir() string {
	if dir := os.Getenv("STACKCART_CONFIG_DIR"); dir != "" {
		return dir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "stackcart")
}

// ResolvePath makes a settings-relative path absolute against appDir.
func ResolvePath(appDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(appDir, p)
}
