package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alnah/go-docassist/internal/config"
	"github.com/alnah/go-docassist/internal/fileutil"
	"github.com/alnah/go-docassist/internal/hints"
)

// envPrefix namespaces every recognized environment variable.
const envPrefix = "DOCASSIST_"

// dotEnvFile is loaded from the working directory when present.
const dotEnvFile = ".env"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath    string        // DOCASSIST_CONFIG: config file name or path
	OutputDir     string        // DOCASSIST_OUTPUT_DIR: artifact directory
	Timeout       time.Duration // DOCASSIST_TIMEOUT: per-run timeout
	Workers       int           // DOCASSIST_WORKERS: parallel workers
	EmailTo       string        // DOCASSIST_EMAIL_TO: deliver by email to this address
	GraphToken    string        // DOCASSIST_GRAPH_TOKEN: Graph bearer token
	GraphEndpoint string        // DOCASSIST_GRAPH_ENDPOINT: Graph API base URL
	LogLevel      string        // DOCASSIST_LOG_LEVEL: diagnostic level
	LogFormat     string        // DOCASSIST_LOG_FORMAT: console or json
}

// knownEnvVars lists valid DOCASSIST_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCASSIST_CONFIG":         true,
	"DOCASSIST_OUTPUT_DIR":     true,
	"DOCASSIST_TIMEOUT":        true,
	"DOCASSIST_WORKERS":        true,
	"DOCASSIST_EMAIL_TO":       true,
	hints.GraphTokenEnv:        true,
	"DOCASSIST_GRAPH_ENDPOINT": true,
	"DOCASSIST_LOG_LEVEL":      true,
	"DOCASSIST_LOG_FORMAT":     true,
	"DOCASSIST_CONTAINER":      true,
}

// loadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func loadDotEnv(path string) error {
	if !fileutil.FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:    os.Getenv("DOCASSIST_CONFIG"),
		OutputDir:     os.Getenv("DOCASSIST_OUTPUT_DIR"),
		EmailTo:       os.Getenv("DOCASSIST_EMAIL_TO"),
		GraphToken:    os.Getenv(hints.GraphTokenEnv),
		GraphEndpoint: os.Getenv("DOCASSIST_GRAPH_ENDPOINT"),
		LogLevel:      os.Getenv("DOCASSIST_LOG_LEVEL"),
		LogFormat:     os.Getenv("DOCASSIST_LOG_FORMAT"),
	}

	if timeout := os.Getenv("DOCASSIST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("DOCASSIST_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized DOCASSIST_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config file values with set environment
// variables. CLI flags are applied afterwards by mergeFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.EmailTo != "" {
		cfg.Delivery.Target = config.TargetEmail
		cfg.Delivery.Email.To = env.EmailTo
	}
	if env.GraphEndpoint != "" {
		cfg.Graph.Endpoint = env.GraphEndpoint
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}
