// Package config loads the YAML configuration of the application and
// applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"focustimer/alert"
	"focustimer/timer"
)

// ErrInvalid marks a configuration value that failed validation.
var ErrInvalid = errors.New("config: invalid value")

// Environment variables.
const (
	EnvConfigPath     = "FOCUSTIMER_CONFIG"
	EnvDefaultMinutes = "FOCUSTIMER_DEFAULT_MINUTES"
)

type Config struct {
	App      AppConfig     `yaml:"app"`
	Timer    TimerConfig   `yaml:"timer"`
	Alert    AlertConfig   `yaml:"alert"`
	Storage  StorageConfig `yaml:"storage"`
	Language string        `yaml:"language"`
}

type AppConfig struct {
	Name         string `yaml:"name"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
}

type TimerConfig struct {
	DefaultMinutes float64   `yaml:"default_minutes"`
	Presets        []float64 `yaml:"presets"`
}

type AlertConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Pattern   string        `yaml:"pattern"`
	Duration  time.Duration `yaml:"duration"`
	Pulse     time.Duration `yaml:"pulse"`
	Frequency float64       `yaml:"frequency"`
	Volume    float64       `yaml:"volume"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the configuration written on first start.
func DefaultConfig() *Config {
	a := alert.DefaultSettings()
	return &Config{
		App: AppConfig{
			Name:         "FocusTimer",
			WindowWidth:  timer.WindowWidth,
			WindowHeight: timer.WindowHeight,
		},
		Timer: TimerConfig{
			DefaultMinutes: timer.DefaultMinutes,
			Presets:        append([]float64(nil), timer.PresetMinutes...),
		},
		Alert: AlertConfig{
			Enabled:   a.Enabled,
			Pattern:   a.Pattern.String(),
			Duration:  a.Duration,
			Pulse:     a.Pulse,
			Frequency: a.Frequency,
			Volume:    a.Volume,
		},
	}
}

// AlertSettings converts the alert section for the alert package. Values
// that failed validation have already been replaced by Validate.
func (c *Config) AlertSettings() alert.Settings {
	s := alert.DefaultSettings()
	s.Enabled = c.Alert.Enabled
	s.Pattern, _ = alert.ParsePattern(c.Alert.Pattern)
	s.Duration = c.Alert.Duration
	s.Pulse = c.Alert.Pulse
	if s.Beep > s.Pulse {
		s.Beep = s.Pulse / 2
	}
	s.Frequency = c.Alert.Frequency
	s.Volume = c.Alert.Volume
	return s
}

// Validate replaces every invalid field with its default and returns the
// joined validation errors.
func (c *Config) Validate() error {
	def := DefaultConfig()
	var errs []error

	if !positive(c.Timer.DefaultMinutes) {
		errs = append(errs, fmt.Errorf("%w: timer.default_minutes %v", ErrInvalid, c.Timer.DefaultMinutes))
		c.Timer.DefaultMinutes = def.Timer.DefaultMinutes
	}
	presets := c.Timer.Presets[:0]
	for _, p := range c.Timer.Presets {
		if positive(p) {
			presets = append(presets, p)
		} else {
			errs = append(errs, fmt.Errorf("%w: timer.presets entry %v", ErrInvalid, p))
		}
	}
	c.Timer.Presets = presets
	if len(c.Timer.Presets) == 0 {
		errs = append(errs, fmt.Errorf("%w: timer.presets is empty", ErrInvalid))
		c.Timer.Presets = def.Timer.Presets
	}

	if _, err := alert.ParsePattern(c.Alert.Pattern); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
		c.Alert.Pattern = def.Alert.Pattern
	}
	if c.Alert.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: alert.duration %s", ErrInvalid, c.Alert.Duration))
		c.Alert.Duration = def.Alert.Duration
	}
	if c.Alert.Pulse <= 0 || c.Alert.Pulse > c.Alert.Duration {
		errs = append(errs, fmt.Errorf("%w: alert.pulse %s", ErrInvalid, c.Alert.Pulse))
		c.Alert.Pulse = def.Alert.Pulse
	}
	if c.Alert.Frequency <= 0 || c.Alert.Frequency >= 20000 {
		errs = append(errs, fmt.Errorf("%w: alert.frequency %v", ErrInvalid, c.Alert.Frequency))
		c.Alert.Frequency = def.Alert.Frequency
	}

	if c.App.Name == "" {
		c.App.Name = def.App.Name
	}
	if c.App.WindowWidth <= 0 || c.App.WindowHeight <= 0 {
		c.App.WindowWidth, c.App.WindowHeight = def.App.WindowWidth, def.App.WindowHeight
	}

	return errors.Join(errs...)
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

type Manager struct {
	config     *Config
	configPath string
}

// NewManager loads the configuration from $FOCUSTIMER_CONFIG or the user
// config directory, creating it with defaults when it does not exist.
func NewManager() (*Manager, error) {
	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		configDir, err := getConfigDir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(configDir, "config.yaml")
	}
	return NewManagerAt(configPath)
}

// NewManagerAt loads the configuration from configPath.
func NewManagerAt(configPath string) (*Manager, error) {
	manager := &Manager{configPath: configPath}

	if err := manager.loadConfig(); err != nil {
		manager.config = DefaultConfig()
		if !errors.Is(err, os.ErrNotExist) {
			// Leave the file for the user to fix.
			log.Printf("Failed to load config %s, using defaults: %v", configPath, err)
		} else if err := manager.SaveConfig(); err != nil {
			return nil, err
		}
	}

	if err := manager.config.Validate(); err != nil {
		log.Printf("Config %s: %v", configPath, err)
	}
	manager.applyEnv()
	if manager.config.Storage.Path == "" {
		manager.config.Storage.Path = filepath.Join(filepath.Dir(configPath), "history.db")
	}

	return manager, nil
}

func (m *Manager) loadConfig() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse %s: %w", m.configPath, err)
	}

	m.config = config
	return nil
}

func (m *Manager) applyEnv() {
	v := strings.TrimSpace(os.Getenv(EnvDefaultMinutes))
	if v == "" {
		return
	}
	minutes, err := strconv.ParseFloat(v, 64)
	if err != nil || !positive(minutes) {
		log.Printf("Ignoring %s=%q: must be a positive number", EnvDefaultMinutes, v)
		return
	}
	log.Printf("%s is set to: %v", EnvDefaultMinutes, minutes)
	m.config.Timer.DefaultMinutes = minutes
}

// SaveConfig writes the current configuration back to disk.
func (m *Manager) SaveConfig() error {
	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	return os.WriteFile(m.configPath, data, 0o644)
}

func (m *Manager) GetConfig() *Config {
	return m.config
}

func (m *Manager) Path() string {
	return m.configPath
}

func getConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "focustimer"), nil
}
