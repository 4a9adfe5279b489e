// Package config holds the deadclick runtime configuration: artifact
// locations, policy document paths, the findings database, and logging
// controls. Configuration is YAML on disk with environment overrides for the
// paths that differ per machine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all deadclick configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Artifact ingestion
	Artifacts ArtifactsConfig `yaml:"artifacts"`

	// Policy documents
	Policy PolicyConfig `yaml:"policy"`

	// Findings persistence
	Store StoreConfig `yaml:"store"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ArtifactsConfig locates the extractor and observer output.
type ArtifactsConfig struct {
	ExpectationsPath string `yaml:"expectations_path"`
	ObservationsPath string `yaml:"observations_path"`
	RunInputsPath    string `yaml:"run_inputs_path"`
}

// PolicyConfig locates the policy documents. Empty paths select the embedded
// defaults.
type PolicyConfig struct {
	GuardrailsPath string `yaml:"guardrails_path"`
	ConfidencePath string `yaml:"confidence_path"`
}

// StoreConfig configures the SQLite findings store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// WatchConfig configures artifact watching.
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // e.g. "500ms"
}

// LoggingConfig mirrors internal/logging's expectations.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode"`
	Categories map[string]bool `yaml:"categories" json:"categories"`
	Level      string          `yaml:"level" json:"level"`
	JSONFormat bool            `yaml:"json_format" json:"json_format"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "deadclick",
		Version: "0.1.0",
		Artifacts: ArtifactsConfig{
			ExpectationsPath: filepath.Join(".deadclick", "artifacts", "expectations.json"),
			ObservationsPath: filepath.Join(".deadclick", "artifacts", "observations.json"),
			RunInputsPath:    filepath.Join(".deadclick", "artifacts", "run_inputs.json"),
		},
		Store: StoreConfig{
			DatabasePath: filepath.Join(".deadclick", "findings.db"),
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads config from path, falling back to defaults when the file does
// not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the config to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides maps environment variables onto machine-specific paths.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DEADCLICK_DB_PATH"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("DEADCLICK_GUARDRAILS_POLICY"); v != "" {
		c.Policy.GuardrailsPath = v
	}
	if v := os.Getenv("DEADCLICK_CONFIDENCE_POLICY"); v != "" {
		c.Policy.ConfidencePath = v
	}
	if v := os.Getenv("DEADCLICK_ARTIFACTS_DIR"); v != "" {
		c.Artifacts.ExpectationsPath = filepath.Join(v, "expectations.json")
		c.Artifacts.ObservationsPath = filepath.Join(v, "observations.json")
		c.Artifacts.RunInputsPath = filepath.Join(v, "run_inputs.json")
	}
}

// WatchDebounce parses the watch debounce interval.
func (c *Config) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// Validate checks for obviously broken configuration.
func (c *Config) Validate() error {
	if c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path must not be empty")
	}
	if c.Artifacts.ExpectationsPath == "" || c.Artifacts.ObservationsPath == "" {
		return fmt.Errorf("artifact paths must not be empty")
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); c.Watch.Debounce != "" && err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	return nil
}
