// Package config provides configuration management for blitzbridge with
// Viper integration: defaults, an optional TOML/YAML file, BLITZBRIDGE_*
// environment overrides and live reload on file changes.
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete configuration for the bridge.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Fetch   FetchConfig   `mapstructure:"fetch" yaml:"fetch"`
	Content ContentConfig `mapstructure:"content" yaml:"content"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// FetchConfig tunes the network pipeline. A zero Timeout keeps the
// original run-to-completion behavior: in-flight fetches are never
// cancelled or bounded in duration.
type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	MaxConcurrent int64         `mapstructure:"max_concurrent" yaml:"max_concurrent"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// ContentConfig holds the initial document and render pacing.
type ContentConfig struct {
	InitialHTML   string        `mapstructure:"initial_html" yaml:"initial_html"`
	FrameInterval time.Duration `mapstructure:"frame_interval" yaml:"frame_interval"`
}

// Manager loads configuration and notifies subscribers on change.
type Manager struct {
	mu        sync.RWMutex
	viper     *viper.Viper
	config    *Config
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a manager with defaults applied. path optionally
// names a config file; an empty path means defaults + env only.
func NewManager(path string) (*Manager, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BLITZBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	m := &Manager{viper: v}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns the current configuration snapshot.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// OnChange registers a callback invoked after every successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

func (m *Manager) reload() error {
	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return nil
}

func (m *Manager) notifyCallbacks() {
	m.mu.RLock()
	cfg := m.config
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.RUnlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
}
