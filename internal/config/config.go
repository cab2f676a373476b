package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort             = 8080
	DefaultDashboardPath        = "config/vesta.toml"
	DefaultDebounceMillis       = 50
	DefaultPingTimeoutSeconds   = 5
	DefaultSonarrTimeoutSeconds = 10
)

// Config is the server's own configuration, parsed from config.yaml.
// The dashboard document it points at is a separate TOML file owned by
// the dashboard package.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Widgets   WidgetsConfig   `yaml:"widgets"`
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	// HTTPPort is the port the API, WebSocket hub and UI listen on.
	HTTPPort int `yaml:"http_port"`
}

// DashboardConfig points at the watched dashboard document.
type DashboardConfig struct {
	// Path is the location of the TOML dashboard document.
	Path string `yaml:"path"`

	// Watch enables hot reload on file change. Disabled deployments
	// reload by restart.
	Watch bool `yaml:"watch"`

	// DebounceMillis is the window that collapses a burst of filesystem
	// events into one reload.
	DebounceMillis int `yaml:"debounce_ms"`
}

// Debounce returns the debounce window as a duration.
func (d DashboardConfig) Debounce() time.Duration {
	return time.Duration(d.DebounceMillis) * time.Millisecond
}

// WidgetsConfig bounds outbound widget calls.
type WidgetsConfig struct {
	// PingTimeoutSeconds bounds one liveness check.
	PingTimeoutSeconds int `yaml:"ping_timeout_seconds"`

	// SonarrTimeoutSeconds bounds one Sonarr API call.
	SonarrTimeoutSeconds int `yaml:"sonarr_timeout_seconds"`
}

// PingTimeout returns the ping deadline as a duration.
func (w WidgetsConfig) PingTimeout() time.Duration {
	return time.Duration(w.PingTimeoutSeconds) * time.Second
}

// SonarrTimeout returns the Sonarr call deadline as a duration.
func (w WidgetsConfig) SonarrTimeout() time.Duration {
	return time.Duration(w.SonarrTimeoutSeconds) * time.Second
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults. A missing
// file is not an error; the defaults describe a complete working
// setup.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
		},
		Dashboard: DashboardConfig{
			Path:           DefaultDashboardPath,
			Watch:          true,
			DebounceMillis: DefaultDebounceMillis,
		},
		Widgets: WidgetsConfig{
			PingTimeoutSeconds:   DefaultPingTimeoutSeconds,
			SonarrTimeoutSeconds: DefaultSonarrTimeoutSeconds,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Dashboard.Path == "" {
		return fmt.Errorf("dashboard.path is required")
	}
	if cfg.Dashboard.DebounceMillis < 0 {
		return fmt.Errorf("dashboard.debounce_ms must not be negative")
	}
	if cfg.Widgets.PingTimeoutSeconds <= 0 {
		return fmt.Errorf("widgets.ping_timeout_seconds must be positive")
	}
	if cfg.Widgets.SonarrTimeoutSeconds <= 0 {
		return fmt.Errorf("widgets.sonarr_timeout_seconds must be positive")
	}
	return nil
}
