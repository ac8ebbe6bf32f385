// Package config provides configuration management for Tempo.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/xvierd/tempo-cli/internal/domain"
)

// ErrUnknownKey is returned by Set for keys that are not part of the config.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds all configuration for the Tempo application.
type Config struct {
	Focus         FocusConfig        `mapstructure:"focus"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// FocusConfig holds the interval timer durations, in minutes.
type FocusConfig struct {
	FocusMinutes int `mapstructure:"focus_minutes"`
	BreakMinutes int `mapstructure:"break_minutes"`
}

// Durations converts the configured minutes to timer settings.
func (c FocusConfig) Durations() domain.DurationSettings {
	return domain.NewDurationSettings(c.FocusMinutes, c.BreakMinutes)
}

// NotificationConfig holds completion cue settings.
type NotificationConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Sound   bool     `mapstructure:"sound"`
	Timeout Duration `mapstructure:"timeout"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings. An empty File logs to tempo.log in the data dir.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorFocus         string `mapstructure:"color_focus"`
	ColorBreak         string `mapstructure:"color_break"`
	ColorPaused        string `mapstructure:"color_paused"`
	ColorDone          string `mapstructure:"color_done"`
	ColorTitle         string `mapstructure:"color_title"`
	ColorHelp          string `mapstructure:"color_help"`
	FocusGradientStart string `mapstructure:"focus_gradient_start"`
	FocusGradientEnd   string `mapstructure:"focus_gradient_end"`
	BreakGradientStart string `mapstructure:"break_gradient_start"`
	BreakGradientEnd   string `mapstructure:"break_gradient_end"`
	IconApp            string `mapstructure:"icon_app"`
	IconTask           string `mapstructure:"icon_task"`
	IconHabit          string `mapstructure:"icon_habit"`
	IconNote           string `mapstructure:"icon_note"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorFocus:         "#7C6FE0",
		ColorBreak:         "#4ECDC4",
		ColorPaused:        "#6B7280",
		ColorDone:          "#2ECC71",
		ColorTitle:         "#6B7280",
		ColorHelp:          "#95A5A6",
		FocusGradientStart: "#7C6FE0",
		FocusGradientEnd:   "#A78BFA",
		BreakGradientStart: "#4ECDC4",
		BreakGradientEnd:   "#2ECC71",
		IconApp:            "⏱",
		IconTask:           "📋",
		IconHabit:          "🔁",
		IconNote:           "📝",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

const defaultDataDir = "~/.tempo"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Focus: FocusConfig{
			FocusMinutes: domain.DefaultFocusMinutes,
			BreakMinutes: domain.DefaultBreakMinutes,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
			Timeout: Duration(5 * time.Second),
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Log: LogConfig{
			Level: "info",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration at configPath, creating it with defaults
// when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return decode(v)
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath as TOML.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)

	v.Set("focus.focus_minutes", cfg.Focus.FocusMinutes)
	v.Set("focus.break_minutes", cfg.Focus.BreakMinutes)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("notifications.timeout", cfg.Notifications.Timeout.String())
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("theme.color_focus", cfg.Theme.ColorFocus)
	v.Set("theme.color_break", cfg.Theme.ColorBreak)
	v.Set("theme.color_paused", cfg.Theme.ColorPaused)
	v.Set("theme.color_done", cfg.Theme.ColorDone)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("theme.focus_gradient_start", cfg.Theme.FocusGradientStart)
	v.Set("theme.focus_gradient_end", cfg.Theme.FocusGradientEnd)
	v.Set("theme.break_gradient_start", cfg.Theme.BreakGradientStart)
	v.Set("theme.break_gradient_end", cfg.Theme.BreakGradientEnd)
	v.Set("theme.icon_app", cfg.Theme.IconApp)
	v.Set("theme.icon_task", cfg.Theme.IconTask)
	v.Set("theme.icon_habit", cfg.Theme.IconHabit)
	v.Set("theme.icon_note", cfg.Theme.IconNote)

	return v.WriteConfigAs(configPath)
}

// Set updates a single key in the file at configPath. The raw value is
// converted to the key's type and the result must still decode.
func Set(configPath, key, raw string) (*Config, error) {
	cfg, err := LoadFrom(configPath)
	if err != nil {
		return nil, err
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	key = strings.ToLower(strings.TrimSpace(key))
	current := v.Get(key)
	if current == nil || !isLeafKey(v, key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	value, err := convertLike(current, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	v.Set(key, value)

	if cfg, err = decode(v); err != nil {
		return nil, err
	}
	if err := SaveTo(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	return cfg, nil
}

// Settings returns every key in the file at configPath with its current
// value, defaults included.
func Settings(configPath string) (map[string]interface{}, error) {
	if _, err := LoadFrom(configPath); err != nil {
		return nil, err
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	settings := make(map[string]interface{})
	for _, key := range v.AllKeys() {
		settings[key] = v.Get(key)
	}
	return settings, nil
}

// Keys returns every settable key, sorted.
func Keys() []string {
	v := viper.New()
	setDefaults(v)
	keys := v.AllKeys()
	sort.Strings(keys)
	return keys
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tempo", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "tempo.db")
}

// GetLogPath returns the path to the log file.
func GetLogPath(cfg *Config) string {
	if cfg.Log.File != "" {
		return expandHome(cfg.Log.File)
	}
	return filepath.Join(cfg.Storage.DataDir, "tempo.log")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = defaultDataDir
	}
	cfg.Storage.DataDir = expandHome(cfg.Storage.DataDir)
	cfg.Focus.FocusMinutes = domain.ClampMinutes(cfg.Focus.FocusMinutes)
	cfg.Focus.BreakMinutes = domain.ClampMinutes(cfg.Focus.BreakMinutes)

	return &cfg, nil
}

func isLeafKey(v *viper.Viper, key string) bool {
	for _, k := range v.AllKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func convertLike(current interface{}, raw string) (interface{}, error) {
	switch current.(type) {
	case bool:
		return cast.ToBoolE(raw)
	case int, int64:
		return cast.ToIntE(raw)
	case float64:
		return cast.ToFloat64E(raw)
	default:
		return raw, nil
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("focus.focus_minutes", defaults.Focus.FocusMinutes)
	v.SetDefault("focus.break_minutes", defaults.Focus.BreakMinutes)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("notifications.sound", defaults.Notifications.Sound)
	v.SetDefault("notifications.timeout", defaults.Notifications.Timeout.String())
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)

	theme := defaults.Theme
	v.SetDefault("theme.color_focus", theme.ColorFocus)
	v.SetDefault("theme.color_break", theme.ColorBreak)
	v.SetDefault("theme.color_paused", theme.ColorPaused)
	v.SetDefault("theme.color_done", theme.ColorDone)
	v.SetDefault("theme.color_title", theme.ColorTitle)
	v.SetDefault("theme.color_help", theme.ColorHelp)
	v.SetDefault("theme.focus_gradient_start", theme.FocusGradientStart)
	v.SetDefault("theme.focus_gradient_end", theme.FocusGradientEnd)
	v.SetDefault("theme.break_gradient_start", theme.BreakGradientStart)
	v.SetDefault("theme.break_gradient_end", theme.BreakGradientEnd)
	v.SetDefault("theme.icon_app", theme.IconApp)
	v.SetDefault("theme.icon_task", theme.IconTask)
	v.SetDefault("theme.icon_habit", theme.IconHabit)
	v.SetDefault("theme.icon_note", theme.IconNote)
}
