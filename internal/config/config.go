package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appDirName = "countdown"

type Config struct {
	TickInterval         time.Duration `yaml:"tick_interval"`
	SchedulerBuffer      int           `yaml:"scheduler_buffer"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
	MaxRecentInputs      int           `yaml:"max_recent_inputs"`
	Store                StoreConfig   `yaml:"store"`
	Log                  LogConfig     `yaml:"log"`
	Control              ControlConfig `yaml:"control"`
	Sound                SoundConfig   `yaml:"sound"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type ControlConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type SoundConfig struct {
	// Command overrides the player binary; empty picks one for the platform.
	Command string `yaml:"command"`
	Dir     string `yaml:"dir"`
}

func DefaultConfig() Config {
	return Config{
		TickInterval:         time.Second,
		SchedulerBuffer:      64,
		DesktopNotifications: false,
		MaxRecentInputs:      10,
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join(dataDir(), "countdown.db"),
		},
		Log: LogConfig{
			File:  filepath.Join(stateDir(), "countdown.log"),
			Level: "info",
		},
		Control: ControlConfig{
			Enabled: true,
			Addr:    "127.0.0.1:7531",
		},
		Sound: SoundConfig{
			Dir: filepath.Join(dataDir(), "sounds"),
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/countdown/config.yaml.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			base = dir
		} else {
			base = "."
		}
	}
	return filepath.Join(base, appDirName, "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvDuration("COUNTDOWN_TICK_INTERVAL"); ok && v > 0 {
		cfg.TickInterval = v
	}
	if v, ok := getEnvInt("COUNTDOWN_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvBool("COUNTDOWN_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("COUNTDOWN_MAX_RECENT_INPUTS"); ok && v > 0 {
		cfg.MaxRecentInputs = v
	}
	if v, ok := getEnvString("COUNTDOWN_STORE_DRIVER"); ok {
		cfg.Store.Driver = v
	}
	if v, ok := getEnvString("COUNTDOWN_STORE_PATH"); ok {
		cfg.Store.Path = v
	}
	if v, ok := getEnvString("COUNTDOWN_STORE_DSN"); ok {
		cfg.Store.DSN = v
	}
	if v, ok := getEnvString("COUNTDOWN_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := getEnvString("COUNTDOWN_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := getEnvBool("COUNTDOWN_CONTROL_ENABLED"); ok {
		cfg.Control.Enabled = v
	}
	if v, ok := getEnvString("COUNTDOWN_CONTROL_ADDR"); ok {
		cfg.Control.Addr = v
	}
	if v, ok := getEnvString("COUNTDOWN_SOUND_COMMAND"); ok {
		cfg.Sound.Command = v
	}
	if v, ok := getEnvString("COUNTDOWN_SOUND_DIR"); ok {
		cfg.Sound.Dir = v
	}
	return cfg
}

func (c Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval))
	}
	if c.SchedulerBuffer <= 0 {
		errs = append(errs, fmt.Errorf("scheduler_buffer must be positive, got %d", c.SchedulerBuffer))
	}
	if c.MaxRecentInputs <= 0 {
		errs = append(errs, fmt.Errorf("max_recent_inputs must be positive, got %d", c.MaxRecentInputs))
	}
	switch strings.ToLower(c.Store.Driver) {
	case "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
	case "postgres":
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn is required for the postgres driver"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not one of sqlite, postgres, memory", c.Store.Driver))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if c.Control.Enabled && c.Control.Addr == "" {
		errs = append(errs, errors.New("control.addr is required when control is enabled"))
	}
	return errors.Join(errs...)
}

func dataDir() string {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", appDirName)
	}
	return "."
}

func stateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", appDirName)
	}
	return "."
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
