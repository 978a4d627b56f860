package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"WealthCheck"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Remote struct {
		APIURL     string        `envconfig:"API_URL"`
		APIBaseURL string        `envconfig:"API_BASE_URL"`
		Timeout    time.Duration `envconfig:"REMOTE_TIMEOUT" default:"30s"`
	}

	Session struct {
		Path string `envconfig:"SESSION_PATH" default:"session.json"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

// BaseURL resolves the remote API address from the equivalently-named
// environment variables; the first non-empty value wins. An empty result is
// not fatal here: each proxy call reports the missing configuration instead,
// matching how the dashboard always behaved.
func (c *Config) BaseURL() string {
	for _, candidate := range []string{c.Remote.APIURL, c.Remote.APIBaseURL} {
		if candidate != "" {
			return candidate
		}
	}

	return ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
