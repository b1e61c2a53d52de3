// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validResolutions = map[string]bool{
	"": true, "SD": true, "720p": true, "1080p": true, "4K": true, "8K": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Sync validation
	if c.Sync.BatchSize < 0 {
		errs = append(errs, fmt.Sprintf("sync.batch_size: must be positive, got %d", c.Sync.BatchSize))
	}
	if c.Sync.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("sync.concurrency: must be positive, got %d", c.Sync.Concurrency))
	}

	// Preferences validation
	if !validResolutions[c.Preferences.Resolution] {
		errs = append(errs, fmt.Sprintf("preferences.resolution: must be one of SD, 720p, 1080p, 4K, 8K; got %q", c.Preferences.Resolution))
	}

	// Source validation
	if len(c.Sources) == 0 {
		errs = append(errs, "source: at least one provider source must be configured")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		label := src.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
			errs = append(errs, fmt.Sprintf("source %s: name required", label))
		}
		if seen[src.Name] && src.Name != "" {
			errs = append(errs, fmt.Sprintf("source %s: duplicate name", label))
		}
		seen[src.Name] = true

		if src.URL == "" {
			errs = append(errs, fmt.Sprintf("source %s: url required", label))
		} else if u, err := url.Parse(src.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("source %s: url %q is not a valid http(s) URL", label, src.URL))
		}
		if src.Username == "" {
			errs = append(errs, fmt.Sprintf("source %s: username required", label))
		}
		if src.Password == "" {
			errs = append(errs, fmt.Sprintf("source %s: password required", label))
		}
	}

	return errs
}
