package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-docassist/internal/fileutil"
	"github.com/alnah/go-docassist/internal/logging"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory under the user config dir searched by name.
const AppDirName = "go-docassist"

// Field length limits.
const (
	MaxPathLength    = 4096
	MaxNameLength    = 200  // output base name
	MaxEmailLength   = 254  // RFC 5321
	MaxSubjectLength = 255  // mail subject line
	MaxBodyLength    = 5000 // plain-text mail body
	MaxURLLength     = 2048
)

// Value bounds.
const (
	MaxRasterScale   = 8.0
	MaxWorkers       = 8
	MaxGraphRetries  = 10
	MaxFilesCeiling  = 1000
	MaxFileSizeLimit = 1024 // MB
)

// Delivery targets.
const (
	TargetDownload = "download"
	TargetEmail    = "email"
)

// Config holds all configuration for document processing and delivery.
// Zero values mean "use the library default".
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Raster   RasterConfig   `yaml:"raster"`
	Limits   LimitsConfig   `yaml:"limits"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Graph    GraphConfig    `yaml:"graph"`
	DOCX     DOCXConfig     `yaml:"docx"`
	Log      LogConfig      `yaml:"log"`
	Timeout  string         `yaml:"timeout"` // Go duration, e.g. "2m"
	Workers  int            `yaml:"workers"` // 0 = derived from GOMAXPROCS
}

// OutputConfig defines where and how artifacts are named.
type OutputConfig struct {
	Dir  string `yaml:"dir"`  // Empty = current directory
	Name string `yaml:"name"` // Artifact base name (empty = per-operation default)
}

// RasterConfig defines page rendering options.
type RasterConfig struct {
	Scale   float64 `yaml:"scale"`   // 1.0 = 72 DPI (default 2.0)
	Quality float64 `yaml:"quality"` // JPEG quality in (0, 1] (default 0.92)
}

// LimitsConfig bounds accepted input.
type LimitsConfig struct {
	MaxFiles      int `yaml:"maxFiles"`
	MaxFileSizeMB int `yaml:"maxFileSizeMB"`
}

// DeliveryConfig selects how artifacts leave the process.
type DeliveryConfig struct {
	Target     string      `yaml:"target"`     // "download" (default) or "email"
	BundleName string      `yaml:"bundleName"` // ZIP base name for multi-artifact mail
	Email      EmailConfig `yaml:"email"`
}

// EmailConfig defines the outgoing message.
type EmailConfig struct {
	To      string `yaml:"to"`
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// GraphConfig defines the Microsoft Graph client. The token never lives in
// the config file; it comes from DOCASSIST_GRAPH_TOKEN.
type GraphConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"maxRetries"` // -1 disables retries
}

// DOCXConfig defines Word document generation options.
type DOCXConfig struct {
	TemplatesDir string `yaml:"templatesDir"` // Empty = embedded templates
}

// LogConfig defines diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // zerolog level name (default "warn")
	Format string `yaml:"format"` // "console" (default) or "json"
}

// TimeoutDuration returns the parsed run timeout, or 0 when unset.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := parseDuration(c.Timeout)
	return d
}

// GraphTimeoutDuration returns the parsed Graph timeout, or 0 when unset.
func (c *Config) GraphTimeoutDuration() time.Duration {
	d, _ := parseDuration(c.Graph.Timeout)
	return d
}

// MaxFileSizeBytes converts the MB limit to bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Limits.MaxFileSizeMB) << 20
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	// Validate output fields
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.name", c.Output.Name, MaxNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Output.Name, "/\\\x00") {
		return fmt.Errorf("%w: output.name must not contain path separators", ErrInvalidValue)
	}

	// Validate raster fields
	if c.Raster.Scale < 0 || c.Raster.Scale > MaxRasterScale {
		return fmt.Errorf("%w: raster.scale must be between 0 and %.0f, got %.2f", ErrInvalidValue, MaxRasterScale, c.Raster.Scale)
	}
	if c.Raster.Quality < 0 || c.Raster.Quality > 1 {
		return fmt.Errorf("%w: raster.quality must be between 0 and 1, got %.2f", ErrInvalidValue, c.Raster.Quality)
	}

	// Validate limits
	if c.Limits.MaxFiles < 0 || c.Limits.MaxFiles > MaxFilesCeiling {
		return fmt.Errorf("%w: limits.maxFiles must be between 0 and %d, got %d", ErrInvalidValue, MaxFilesCeiling, c.Limits.MaxFiles)
	}
	if c.Limits.MaxFileSizeMB < 0 || c.Limits.MaxFileSizeMB > MaxFileSizeLimit {
		return fmt.Errorf("%w: limits.maxFileSizeMB must be between 0 and %d, got %d", ErrInvalidValue, MaxFileSizeLimit, c.Limits.MaxFileSizeMB)
	}

	// Validate delivery fields
	switch strings.ToLower(c.Delivery.Target) {
	case "", TargetDownload, TargetEmail:
		// valid
	default:
		return fmt.Errorf("%w: delivery.target %q (must be download or email)", ErrInvalidValue, c.Delivery.Target)
	}
	if err := validateFieldLength("delivery.bundleName", c.Delivery.BundleName, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("delivery.email.to", c.Delivery.Email.To, MaxEmailLength); err != nil {
		return err
	}
	if c.Delivery.Email.To != "" && !strings.Contains(c.Delivery.Email.To, "@") {
		return fmt.Errorf("%w: delivery.email.to %q is not an email address", ErrInvalidValue, c.Delivery.Email.To)
	}
	if err := validateFieldLength("delivery.email.subject", c.Delivery.Email.Subject, MaxSubjectLength); err != nil {
		return err
	}
	if err := validateFieldLength("delivery.email.body", c.Delivery.Email.Body, MaxBodyLength); err != nil {
		return err
	}

	// Validate graph fields
	if err := validateFieldLength("graph.endpoint", c.Graph.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if c.Graph.Endpoint != "" && !strings.HasPrefix(c.Graph.Endpoint, "https://") && !strings.HasPrefix(c.Graph.Endpoint, "http://") {
		return fmt.Errorf("%w: graph.endpoint must be an http(s) URL", ErrInvalidValue)
	}
	if _, err := parseDuration(c.Graph.Timeout); err != nil {
		return fmt.Errorf("%w: graph.timeout: %v", ErrInvalidValue, err)
	}
	if c.Graph.MaxRetries < -1 || c.Graph.MaxRetries > MaxGraphRetries {
		return fmt.Errorf("%w: graph.maxRetries must be between -1 and %d, got %d", ErrInvalidValue, MaxGraphRetries, c.Graph.MaxRetries)
	}

	// Validate docx fields
	if err := validateFieldLength("docx.templatesDir", c.DOCX.TemplatesDir, MaxPathLength); err != nil {
		return err
	}

	// Validate log fields
	if c.Log.Level != "" {
		if _, err := logging.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %v", ErrInvalidValue, err)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
		// valid
	default:
		return fmt.Errorf("%w: log.format %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	// Validate run fields
	if _, err := parseDuration(c.Timeout); err != nil {
		return fmt.Errorf("%w: timeout: %v", ErrInvalidValue, err)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// parseDuration accepts an empty string as zero. Negative durations are rejected.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

// DefaultConfig returns a configuration that defers every choice to the
// library defaults and saves artifacts to the current directory.
func DefaultConfig() *Config {
	return &Config{
		Delivery: DeliveryConfig{Target: TargetDownload},
		Log:      LogConfig{Level: "warn", Format: logging.FormatConsole},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-docassist/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
