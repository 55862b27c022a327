package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default configuration constants
const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"

	// No timeout: in-flight fetches run to completion or failure.
	defaultFetchTimeout = 0 * time.Second

	// 0 = unbounded; the host decides how much it requests.
	defaultMaxBodyBytes  = 0
	defaultMaxConcurrent = 0

	defaultUserAgent = "blitzbridge/1.0"

	// The placeholder document shown until the embedder loads content.
	defaultInitialHTML = "<html><body style='background:#202020;color:#EEE;font-family:sans-serif'>Blitz host</body></html>"

	// 60Hz frame pacing for the built-in loop.
	defaultFrameInterval = time.Second / 60
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.format", defaultLogFormat)

	v.SetDefault("fetch.timeout", defaultFetchTimeout)
	v.SetDefault("fetch.max_body_bytes", defaultMaxBodyBytes)
	v.SetDefault("fetch.max_concurrent", defaultMaxConcurrent)
	v.SetDefault("fetch.user_agent", defaultUserAgent)

	v.SetDefault("content.initial_html", defaultInitialHTML)
	v.SetDefault("content.frame_interval", defaultFrameInterval)
}
