package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFirstRunWritesTemplate(t *testing.T) {
	home := t.TempDir()

	cfg, err := LoadFrom(home)
	if err != nil {
		t.Fatalf("LoadFrom (first run): %v", err)
	}
	if cfg.Caffeine.DailyLimit != CaffeineDailyLimit || cfg.Alcohol.DailyLimit != AlcoholDailyLimit {
		t.Errorf("defaults = %d/%d, want %d/%d", cfg.Caffeine.DailyLimit, cfg.Alcohol.DailyLimit, CaffeineDailyLimit, AlcoholDailyLimit)
	}
	if _, err := os.Stat(filepath.Join(home, "config.json")); err != nil {
		t.Fatalf("template not written: %v", err)
	}

	// The annotated template must parse back to the same defaults.
	again, err := LoadFrom(home)
	if err != nil {
		t.Fatalf("LoadFrom (template): %v", err)
	}
	if again.Storage.Backend != "file" || again.LogLevel != "warn" || again.Caffeine.DailyLimit != 400 {
		t.Errorf("template parsed to %+v", again)
	}
	if err := again.Validate(); err != nil {
		t.Errorf("template config invalid: %v", err)
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	home := t.TempDir()
	content := `// only override one value
{
  "alcohol": { "daily_limit": 300 }
}`
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(home)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Alcohol.DailyLimit != 300 {
		t.Errorf("Alcohol.DailyLimit = %d, want 300", cfg.Alcohol.DailyLimit)
	}
	if cfg.Caffeine.DailyLimit != CaffeineDailyLimit {
		t.Errorf("Caffeine.DailyLimit = %d, want default %d", cfg.Caffeine.DailyLimit, CaffeineDailyLimit)
	}
	if cfg.DataDir() != filepath.Join(home, "data") {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir(), filepath.Join(home, "data"))
	}
}

func TestLoadFromCorruptFile(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(home)
	if err == nil {
		t.Fatal("expected error for corrupt config")
	}
	if cfg.Caffeine.DailyLimit != CaffeineDailyLimit {
		t.Errorf("corrupt config should still return defaults, got %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	home := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "elsewhere")
	t.Setenv("SIP_HOME", home)
	t.Setenv("SIP_BACKEND", "sqlite")
	t.Setenv("SIP_DATA_DIR", dataDir)
	t.Setenv("SIP_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.DataDir() != dataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir(), dataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestConfig_Validate(t *testing.T) {
	catalog := filepath.Join(t.TempDir(), "drinks.yaml")
	if err := os.WriteFile(catalog, []byte("[]"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "existing user catalog", mutate: func(c *Config) { c.Caffeine.Catalog = catalog }},
		{
			name:        "invalid backend",
			mutate:      func(c *Config) { c.Storage.Backend = "postgres" },
			errorString: "invalid storage backend 'postgres'",
		},
		{
			name:        "negative limit",
			mutate:      func(c *Config) { c.Alcohol.DailyLimit = -1 },
			errorString: "invalid alcohol daily limit -1",
		},
		{
			name:        "missing catalog",
			mutate:      func(c *Config) { c.Caffeine.Catalog = "/non/existent/drinks.json" },
			errorString: "caffeine catalog file not readable",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(t.TempDir())
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.errorString)
			}
		})
	}
}

func TestVerticalLookup(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.Alcohol.DailyLimit = 300

	v, err := cfg.Vertical("Alcohol")
	if err != nil {
		t.Fatalf("Vertical: %v", err)
	}
	if v.StorageKey != "alcoholEntries" || v.Unit != "ml" || v.DailyLimit != 300 || v.AmountField != "amountML" {
		t.Errorf("alcohol vertical = %+v", v)
	}

	c, err := cfg.Vertical("caffeine")
	if err != nil {
		t.Fatalf("Vertical: %v", err)
	}
	if c.StorageKey != "caffeineEntries" || c.DailyLimit != 400 || c.AmountField != "caffeineMg" {
		t.Errorf("caffeine vertical = %+v", c)
	}

	if _, err := cfg.Vertical("sugar"); !errors.Is(err, ErrUnknownVertical) {
		t.Errorf("Vertical(sugar) error = %v, want ErrUnknownVertical", err)
	}
}

func TestStripLineComments(t *testing.T) {
	in := []byte("// header\n{\n  // inner\n  \"a\": 1\n}\n")
	got := string(stripLineComments(in))
	if strings.Contains(got, "//") {
		t.Errorf("comments not stripped: %q", got)
	}
	if !strings.Contains(got, `"a": 1`) {
		t.Errorf("content lost: %q", got)
	}
}
