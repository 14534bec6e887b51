package internal

import (
	"exchange-lab/domain"
	"exchange-lab/errors"
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Config struct {
	TotalMessages   int           `env:"TOTAL_MESSAGES,default=10" validate:"min=1"`
	Host            string        `env:"HOST,default=localhost" validate:"required,hostname_rfc1123|ip"`
	Port            int           `env:"PORT,default=8080" validate:"min=1,max=65535"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	ExchangeTimeout time.Duration `env:"EXCHANGE_TIMEOUT,default=30s" validate:"gt=0"`
	DialTimeout     time.Duration `env:"DIAL_TIMEOUT,default=5s" validate:"gt=0"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	Colours         bool          `env:"CONSOLE_COLOURS,default=true"`
}

// LoadConfig reads the environment, applies defaults and validates the result.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	config.LogLevel = strings.ToUpper(config.LogLevel)
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return nil
}

// Exchange is the immutable protocol view of the configuration.
func (c Config) Exchange() domain.ExchangeConfig {
	return domain.ExchangeConfig{
		TotalMessages: c.TotalMessages,
		Host:          c.Host,
		Port:          c.Port,
	}
}
