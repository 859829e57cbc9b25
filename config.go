package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds one run's settings. Built at startup, validated once, then
// read-only for the lifetime of the process.
type Config struct {
	TargetVolume int

	ActiveInterval time.Duration // volume checks during a call
	IdleInterval   time.Duration // detection passes while idle
	CallInterval   time.Duration // full re-detection during a call

	WindowDuration time.Duration // length of one sample window
	BatchWindows   int           // windows per detection pass
	Threshold      float64       // RMS energy threshold per window
	SustainedRatio float64       // active-window fraction needed per pass

	LogPath string
}

func defaultConfig() Config {
	return Config{
		TargetVolume:   80,
		ActiveInterval: 3 * time.Second,
		IdleInterval:   15 * time.Second,
		CallInterval:   30 * time.Second,
		WindowDuration: time.Second,
		BatchWindows:   5,
		Threshold:      0.01,
		SustainedRatio: 0.40,
		LogPath:        "micguard.log",
	}
}

func (c *Config) validate() error {
	if c.TargetVolume < 0 || c.TargetVolume > 100 {
		return fmt.Errorf("target volume must be between 0 and 100, got %d", c.TargetVolume)
	}
	if c.ActiveInterval <= 0 {
		return fmt.Errorf("active interval must be positive, got %v", c.ActiveInterval)
	}
	if c.IdleInterval <= 0 {
		return fmt.Errorf("idle interval must be positive, got %v", c.IdleInterval)
	}
	if c.CallInterval <= 0 {
		return fmt.Errorf("call interval must be positive, got %v", c.CallInterval)
	}
	if c.WindowDuration <= 0 {
		return fmt.Errorf("window duration must be positive, got %v", c.WindowDuration)
	}
	if c.BatchWindows < 1 {
		return fmt.Errorf("batch windows must be at least 1, got %d", c.BatchWindows)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("audio threshold must be positive, got %v", c.Threshold)
	}
	if c.SustainedRatio < 0 || c.SustainedRatio > 1 {
		return fmt.Errorf("sustained ratio must be between 0 and 1, got %v", c.SustainedRatio)
	}
	return nil
}

// fileConfig is the on-disk TOML shape. Intervals are whole seconds like
// the CLI flags; the window length is milliseconds.
type fileConfig struct {
	TargetVolume   int     `toml:"target_volume"`
	ActiveInterval int     `toml:"active_interval"`
	IdleInterval   int     `toml:"idle_interval"`
	CallInterval   int     `toml:"call_interval"`
	WindowMillis   int     `toml:"window_ms"`
	BatchWindows   int     `toml:"batch_windows"`
	Threshold      float64 `toml:"audio_threshold"`
	SustainedRatio float64 `toml:"sustained_ratio"`
	LogPath        string  `toml:"log_path"`
}

func newFileConfig(c Config) fileConfig {
	return fileConfig{
		TargetVolume:   c.TargetVolume,
		ActiveInterval: int(c.ActiveInterval / time.Second),
		IdleInterval:   int(c.IdleInterval / time.Second),
		CallInterval:   int(c.CallInterval / time.Second),
		WindowMillis:   int(c.WindowDuration / time.Millisecond),
		BatchWindows:   c.BatchWindows,
		Threshold:      c.Threshold,
		SustainedRatio: c.SustainedRatio,
		LogPath:        c.LogPath,
	}
}

func (fc fileConfig) toConfig() Config {
	return Config{
		TargetVolume:   fc.TargetVolume,
		ActiveInterval: time.Duration(fc.ActiveInterval) * time.Second,
		IdleInterval:   time.Duration(fc.IdleInterval) * time.Second,
		CallInterval:   time.Duration(fc.CallInterval) * time.Second,
		WindowDuration: time.Duration(fc.WindowMillis) * time.Millisecond,
		BatchWindows:   fc.BatchWindows,
		Threshold:      fc.Threshold,
		SustainedRatio: fc.SustainedRatio,
		LogPath:        fc.LogPath,
	}
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".micguard", "config.toml"), nil
}

// loadStartupConfig overlays cfg from the file at path, if one exists. A
// missing file is fatal only when the user named the path explicitly and is
// not about to create it with -save-config.
func loadStartupConfig(path string, explicit, saving bool, cfg *Config) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if explicit && !saving {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return nil
	}
	if err := loadConfigFile(path, cfg); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// flagOverrides carries the parsed CLI values; set names the flags that were
// explicitly passed. Explicit flags win over the config file, everything
// else keeps the file (or default) value.
type flagOverrides struct {
	set map[string]bool

	targetVolume int
	activeSecs   int
	idleSecs     int
	callSecs     int
	logPath      string
}

func (o flagOverrides) apply(cfg *Config) {
	if o.set["target-volume"] {
		cfg.TargetVolume = o.targetVolume
	}
	if o.set["active-interval"] {
		cfg.ActiveInterval = time.Duration(o.activeSecs) * time.Second
	}
	if o.set["idle-interval"] {
		cfg.IdleInterval = time.Duration(o.idleSecs) * time.Second
	}
	if o.set["call-interval"] {
		cfg.CallInterval = time.Duration(o.callSecs) * time.Second
	}
	if o.set["log-path"] {
		cfg.LogPath = o.logPath
	}
}

// loadConfigFile overlays cfg with the keys present in the TOML file at
// path. Keys absent from the file keep their current values.
func loadConfigFile(path string, cfg *Config) error {
	fc := newFileConfig(*cfg)
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}
	*cfg = fc.toConfig()
	return nil
}

func saveConfigFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(newFileConfig(cfg))
}
