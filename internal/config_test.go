package internal

import (
	"exchange-lab/errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"TOTAL_MESSAGES", "HOST", "PORT", "LOG_LEVEL",
	"EXCHANGE_TIMEOUT", "DIAL_TIMEOUT", "RESTART_INTERVAL", "CONSOLE_COLOURS",
}

// clearEnv unsets the configuration keys for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	clearEnv(t)

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal(10, config.TotalMessages)
	req.Equal("localhost", config.Host)
	req.Equal(8080, config.Port)
	req.Equal("INFO", config.LogLevel)
	req.Equal(30*time.Second, config.ExchangeTimeout)
	req.Equal("localhost:8080", config.Exchange().Address())
	req.Equal(":8080", config.Exchange().ListenAddress())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	req := require.New(t)
	clearEnv(t)
	t.Setenv("TOTAL_MESSAGES", "3")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DIAL_TIMEOUT", "250ms")

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal(3, config.TotalMessages)
	req.Equal("DEBUG", config.LogLevel)
	req.Equal(250*time.Millisecond, config.DialTimeout)
	req.Equal("127.0.0.1:9090", config.Exchange().Address())
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"zero messages":  {"TOTAL_MESSAGES": "0"},
		"port too large": {"PORT": "70000"},
		"unknown level":  {"LOG_LEVEL": "TRACE"},
		"not a number":   {"TOTAL_MESSAGES": "ten"},
	}

	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range vars {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()

			require.ErrorIs(t, err, errors.ErrInvalidConfig)
		})
	}
}
