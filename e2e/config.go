package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_MESSAGES is the exchange length N used by every scenario
	Messages int `envconfig:"E2E_MESSAGES" default:"10"`
	// E2E_HOST is the loopback interface the receiver binds and the initiator dials
	Host string `envconfig:"E2E_HOST" default:"127.0.0.1"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_DEBUG logs every exchange event at debug level
	Debug bool `envconfig:"E2E_DEBUG" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
