package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/bnema/blitzbridge/internal/logging"
)

// Watch starts watching the config file for changes and reloads
// automatically. No-op without a config file or when already watching.
func (m *Manager) Watch() {
	m.mu.Lock()
	if m.watching || m.viper.ConfigFileUsed() == "" {
		m.mu.Unlock()
		return
	}
	m.watching = true
	m.mu.Unlock()

	m.viper.OnConfigChange(func(e fsnotify.Event) {
		log := logging.NewFromEnv()
		log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("config change detected")

		if err := m.reload(); err != nil {
			log.Warn().Err(err).Msg("failed to reload config")
			return
		}
		m.notifyCallbacks()
	})
	m.viper.WatchConfig()
}
