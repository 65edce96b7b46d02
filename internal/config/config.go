package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the cinecase API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	CaseBase CaseBaseConfig `yaml:"casebase"`
	Schema   SchemaConfig   `yaml:"schema"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings. An empty addrs list means
// no database: the service then requires a CSV case source and keeps no
// snapshot.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds snapshot storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// CaseBaseConfig holds case source settings. When CSVPath is set the base is
// loaded from the file (and snapshotted to the database when one is
// configured); otherwise the base is loaded from the stored snapshot.
type CaseBaseConfig struct {
	CSVPath string `yaml:"csv_path"`
}

// SchemaConfig declares the scored attributes. An empty list selects the
// built-in movie schema.
type SchemaConfig struct {
	Attributes []AttributeConfig `yaml:"attributes"`
}

// AttributeConfig declares one scored attribute.
type AttributeConfig struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"` // categorical, numeric_range, ordinal, set_jaccard
	Weight  float64  `yaml:"weight"`
	Min     float64  `yaml:"min"`     // numeric_range
	Max     float64  `yaml:"max"`     // numeric_range
	Ordered []string `yaml:"ordered"` // ordinal
	Unknown string   `yaml:"unknown"` // ordinal fallback for empty input
}

// Retrieval limits applied by the transport layer.
const (
	DefaultResultLimit = 10
	MaxResultLimit     = 100
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "cinecase:"
	}
}

var validKinds = map[string]bool{
	"categorical": true, "numeric_range": true, "ordinal": true, "set_jaccard": true,
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.CaseBase.CSVPath == "" && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("either casebase.csv_path or database.addrs is required")
	}
	for i, a := range c.Schema.Attributes {
		if a.Name == "" {
			return fmt.Errorf("schema.attributes[%d].name is required", i)
		}
		if !validKinds[a.Kind] {
			return fmt.Errorf("schema.attributes[%d].kind %q is not supported", i, a.Kind)
		}
		if math.IsNaN(a.Weight) || a.Weight < 0 || a.Weight > 1 {
			return fmt.Errorf("schema.attributes[%d].weight must be between 0 and 1, got %v", i, a.Weight)
		}
		if a.Kind == "numeric_range" && a.Max < a.Min {
			return fmt.Errorf("schema.attributes[%d]: max %v < min %v", i, a.Max, a.Min)
		}
		if a.Kind == "ordinal" && len(a.Ordered) == 0 {
			return fmt.Errorf("schema.attributes[%d]: ordered values are required", i)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
