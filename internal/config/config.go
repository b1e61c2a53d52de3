// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Sync        SyncConfig        `toml:"sync"`
	Preferences PreferencesConfig `toml:"preferences"`
	Sources     []SourceConfig    `toml:"source"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type SyncConfig struct {
	Interval     Duration `toml:"interval"`      // scheduler period between automatic passes
	Freshness    Duration `toml:"freshness"`     // window during which unforced syncs are skipped
	FetchTimeout Duration `toml:"fetch_timeout"` // bound on one provider fetch
	BatchSize    int      `toml:"batch_size"`
	Concurrency  int      `toml:"concurrency"`
}

// PreferencesConfig selects among alternate versions of the same content.
type PreferencesConfig struct {
	Language   string `toml:"language"`
	Resolution string `toml:"resolution"`
}

// SourceConfig is one IPTV provider account.
type SourceConfig struct {
	Name     string `toml:"name"`
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Duration wraps time.Duration so TOML accepts strings like "12h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8590
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/iptvarr.db"
	}
	if cfg.Sync.Interval.Duration == 0 {
		cfg.Sync.Interval.Duration = 12 * time.Hour
	}
	if cfg.Sync.Freshness.Duration == 0 {
		cfg.Sync.Freshness.Duration = 12 * time.Hour
	}
	if cfg.Sync.FetchTimeout.Duration == 0 {
		cfg.Sync.FetchTimeout.Duration = 2 * time.Minute
	}
	if cfg.Sync.BatchSize == 0 {
		cfg.Sync.BatchSize = 2000
	}
	if cfg.Sync.Concurrency == 0 {
		cfg.Sync.Concurrency = 2
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}

// MissingEnvVars returns the ${VAR} references in the file that have no
// value in the environment.
func MissingEnvVars(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var missing []string
	for _, match := range envVarPattern.FindAllStringSubmatch(string(data), -1) {
		if _, ok := os.LookupEnv(match[1]); !ok {
			missing = append(missing, match[1])
		}
	}
	return missing, nil
}
