//nolint:mnd //no magic number
package config

import (
	"log/slog"

	"github.com/xdoubleu/essentia/v2/pkg/config"
)

type Config struct {
	Env                 string
	Port                int
	Throttle            bool
	WebURL              string
	SentryDsn           string
	SampleRate          float64
	Release             string
	GoogleClientID      string
	OAuthRedirectURL    string
	GeminiAPIKey        string
	TokenCacheDir       string
	ExpiryCheckInterval string
}

func New(logger *slog.Logger) Config {
	var cfg Config

	parser := config.New(logger)

	cfg.Env = parser.EnvStr("ENV", config.ProdEnv)
	cfg.Port = parser.EnvInt("PORT", 8000)
	cfg.Throttle = parser.EnvBool("THROTTLE", true)
	cfg.WebURL = parser.EnvStr("WEB_URL", "http://localhost:8000")
	cfg.SentryDsn = parser.EnvStr("SENTRY_DSN", "")
	cfg.SampleRate = parser.EnvFloat("SAMPLE_RATE", 1.0)
	cfg.Release = parser.EnvStr("RELEASE", config.DevEnv)

	cfg.GoogleClientID = parser.EnvStr("GOOGLE_CLIENT_ID", "")
	cfg.OAuthRedirectURL = parser.EnvStr("OAUTH_REDIRECT_URL", cfg.WebURL)
	cfg.GeminiAPIKey = parser.EnvStr("GEMINI_API_KEY", "")

	cfg.TokenCacheDir = parser.EnvStr("TOKEN_CACHE_DIR", ".aical")
	cfg.ExpiryCheckInterval = parser.EnvStr("EXPIRY_CHECK_INTERVAL", "1m")

	return cfg
}

// Configured reports whether the external credentials are present. Their
// absence is a visible configuration-error state, not a crash.
func (cfg Config) Configured() (hasOAuth bool, hasAssistant bool) {
	return cfg.GoogleClientID != "", cfg.GeminiAPIKey != ""
}
