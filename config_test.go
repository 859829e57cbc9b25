package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"target volume above range", func(c *Config) { c.TargetVolume = 101 }},
		{"target volume below range", func(c *Config) { c.TargetVolume = -1 }},
		{"zero active interval", func(c *Config) { c.ActiveInterval = 0 }},
		{"negative idle interval", func(c *Config) { c.IdleInterval = -time.Second }},
		{"zero call interval", func(c *Config) { c.CallInterval = 0 }},
		{"zero window duration", func(c *Config) { c.WindowDuration = 0 }},
		{"zero batch windows", func(c *Config) { c.BatchWindows = 0 }},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }},
		{"ratio above one", func(c *Config) { c.SustainedRatio = 1.5 }},
		{"negative ratio", func(c *Config) { c.SustainedRatio = -0.1 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := defaultConfig()
			c.mutate(&cfg)
			if err := cfg.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestBoundaryValuesAccepted(t *testing.T) {
	cfg := defaultConfig()
	cfg.TargetVolume = 0
	cfg.SustainedRatio = 1
	cfg.BatchWindows = 1
	if err := cfg.validate(); err != nil {
		t.Errorf("boundary values rejected: %v", err)
	}
	cfg.TargetVolume = 100
	cfg.SustainedRatio = 0
	if err := cfg.validate(); err != nil {
		t.Errorf("boundary values rejected: %v", err)
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := defaultConfig()
	cfg.TargetVolume = 70
	cfg.ActiveInterval = 5 * time.Second
	cfg.WindowDuration = 500 * time.Millisecond
	cfg.SustainedRatio = 0.25
	cfg.LogPath = "/tmp/other.log"
	if err := saveConfigFile(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded := defaultConfig()
	if err := loadConfigFile(path, &loaded); err != nil {
		t.Fatal(err)
	}
	if loaded != cfg {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", loaded, cfg)
	}
}

func TestConfigFilePartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("target_volume = 65\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := defaultConfig()
	if err := loadConfigFile(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.TargetVolume != 65 {
		t.Errorf("target volume not overridden: %d", cfg.TargetVolume)
	}
	want := defaultConfig()
	if cfg.IdleInterval != want.IdleInterval || cfg.Threshold != want.Threshold {
		t.Errorf("untouched keys changed: %+v", cfg)
	}
}

func TestStartupConfigMissingExplicitPathFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg := defaultConfig()
	if err := loadStartupConfig(path, true, false, &cfg); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestStartupConfigMissingPathOkWhenSaving(t *testing.T) {
	// -config <new-path> -save-config: the file not existing yet is the
	// expected state, not a fatal.
	path := filepath.Join(t.TempDir(), "new.toml")
	cfg := defaultConfig()
	if err := loadStartupConfig(path, true, true, &cfg); err != nil {
		t.Fatalf("first save to an explicit path must not fail: %v", err)
	}
	if cfg != defaultConfig() {
		t.Errorf("config changed without a file: %+v", cfg)
	}
	if err := saveConfigFile(path, cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written: %v", err)
	}
}

func TestStartupConfigMissingDefaultPathIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg := defaultConfig()
	if err := loadStartupConfig(path, false, false, &cfg); err != nil {
		t.Errorf("missing default-location config must be ignored: %v", err)
	}
}

func TestStartupConfigLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("target_volume = 42\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := defaultConfig()
	if err := loadStartupConfig(path, true, false, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.TargetVolume != 42 {
		t.Errorf("expected target 42 from file, got %d", cfg.TargetVolume)
	}
}

func TestFlagsWinOverConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("target_volume = 65\nidle_interval = 40\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := defaultConfig()
	if err := loadStartupConfig(path, true, false, &cfg); err != nil {
		t.Fatal(err)
	}

	overrides := flagOverrides{
		set:          map[string]bool{"target-volume": true, "active-interval": true},
		targetVolume: 70,
		activeSecs:   7,
		// parsed defaults for flags the user never passed
		idleSecs: 15,
		callSecs: 30,
		logPath:  "micguard.log",
	}
	overrides.apply(&cfg)

	if cfg.TargetVolume != 70 {
		t.Errorf("explicit flag must beat file: target %d", cfg.TargetVolume)
	}
	if cfg.ActiveInterval != 7*time.Second {
		t.Errorf("explicit flag must beat default: active %v", cfg.ActiveInterval)
	}
	if cfg.IdleInterval != 40*time.Second {
		t.Errorf("unset flag must keep file value: idle %v", cfg.IdleInterval)
	}
	if cfg.CallInterval != defaultConfig().CallInterval {
		t.Errorf("untouched key changed: call %v", cfg.CallInterval)
	}
}

func TestNoOverridesKeepConfigIntact(t *testing.T) {
	cfg := defaultConfig()
	cfg.TargetVolume = 61
	overrides := flagOverrides{set: map[string]bool{}, targetVolume: 80}
	overrides.apply(&cfg)
	if cfg.TargetVolume != 61 {
		t.Errorf("empty override set must not touch config, got %d", cfg.TargetVolume)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	cfg := defaultConfig()
	if err := loadConfigFile(filepath.Join(t.TempDir(), "nope.toml"), &cfg); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.toml")
	if err := saveConfigFile(path, defaultConfig()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written: %v", err)
	}
}
