package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Tiliavir/sip/internal/storage"
)

// Config is the root configuration for sip, stored in ~/.sip/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage  StorageConfig  `json:"storage"`
	Caffeine VerticalConfig `json:"caffeine"`
	Alcohol  VerticalConfig `json:"alcohol"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`

	// home is the directory the config was loaded from; not persisted.
	home string
}

// StorageConfig selects where entries are persisted.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `json:"backend"`
	// Dir is the data directory. Empty = <home>/data.
	Dir string `json:"dir"`
}

// VerticalConfig holds the per-vertical user settings.
type VerticalConfig struct {
	DailyLimit int `json:"daily_limit"`
	// Catalog is an optional path to a user drink catalog (.json or .yaml).
	// Empty = the bundled catalog.
	Catalog string `json:"catalog"`
}

const (
	// CaffeineDailyLimit is the default caffeine limit in milligrams.
	CaffeineDailyLimit = 400
	// AlcoholDailyLimit is the default alcohol limit in milliliters.
	AlcoholDailyLimit = 550
	// DefaultLogLevel keeps the CLI quiet unless something goes wrong.
	DefaultLogLevel = "warn"
)

var ErrUnknownVertical = errors.New("unknown vertical")

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig(home string) Config {
	return Config{
		Storage: StorageConfig{
			Backend: storage.BackendFile,
		},
		Caffeine: VerticalConfig{DailyLimit: CaffeineDailyLimit},
		Alcohol:  VerticalConfig{DailyLimit: AlcoholDailyLimit},
		LogLevel: DefaultLogLevel,
		home:     home,
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// sip configuration – ~/.sip/config.json
//
// All settings are optional; the defaults below match the built-in values.
{
  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "file"   – one JSON file per vertical (default)
    // "sqlite" – a single sip.db key-value database
    // "memory" – nothing is persisted (useful for trying things out)
    "backend": "file",

    // Data directory. Leave empty to use ~/.sip/data.
    "dir": ""
  },

  // ── Caffeine ─────────────────────────────────────────────────────────────
  "caffeine": {
    // Daily limit in mg. Totals above this value trigger a warning.
    "daily_limit": 400,
    // Optional path to your own drink catalog (.json or .yaml).
    "catalog": ""
  },

  // ── Alcohol ──────────────────────────────────────────────────────────────
  "alcohol": {
    // Daily limit in ml.
    "daily_limit": 550,
    "catalog": ""
  },

  // debug, info, warn or error. Logs go to stderr.
  "log_level": "warn"
}
`

// LoadEnvFile loads a .env file from the working directory if one exists.
// Errors are ignored; the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// HomeDir returns the sip home directory: $SIP_HOME or ~/.sip.
func HomeDir() (string, error) {
	if h := os.Getenv("SIP_HOME"); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".sip"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <home>/config.json, creating it with annotated defaults on first
// run, then applies environment overrides.
func Load() (Config, error) {
	home, err := HomeDir()
	if err != nil {
		return defaultConfig(""), err
	}
	cfg, err := LoadFrom(home)
	if err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFrom reads config.json from home without consulting the environment.
func LoadFrom(home string) (Config, error) {
	path := filepath.Join(home, "config.json")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(home), nil
	}
	if err != nil {
		return defaultConfig(home), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(home), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	cfg.home = home

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = storage.BackendFile
	}
	if cfg.Caffeine.DailyLimit == 0 {
		cfg.Caffeine.DailyLimit = CaffeineDailyLimit
	}
	if cfg.Alcohol.DailyLimit == 0 {
		cfg.Alcohol.DailyLimit = AlcoholDailyLimit
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return cfg, nil
}

// applyEnv overrides file settings with SIP_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("SIP_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("SIP_DATA_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("SIP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// DataDir returns the resolved data directory.
func (c Config) DataDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	return filepath.Join(c.home, "data")
}

// Validate validates the configuration and returns an error if invalid
func (c Config) Validate() error {
	var problems []string

	validBackend := false
	for _, b := range storage.Backends() {
		if c.Storage.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		problems = append(problems, fmt.Sprintf("invalid storage backend '%s': must be one of %v", c.Storage.Backend, storage.Backends()))
	}

	for _, v := range []struct {
		name string
		cfg  VerticalConfig
	}{{Caffeine, c.Caffeine}, {Alcohol, c.Alcohol}} {
		if v.cfg.DailyLimit < 0 {
			problems = append(problems, fmt.Sprintf("invalid %s daily limit %d: must not be negative", v.name, v.cfg.DailyLimit))
		}
		if v.cfg.Catalog != "" {
			if _, err := os.Stat(v.cfg.Catalog); err != nil {
				problems = append(problems, fmt.Sprintf("%s catalog file not readable: %s", v.name, v.cfg.Catalog))
			}
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
