package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HostAddr   string `envconfig:"HOST_ADDR"`
	HostOrigin string `envconfig:"HOST_ORIGIN" default:"http://localhost:3000"`
	// Origins of two catalogue participants that are not connected yet
	FirstOrigin  string `envconfig:"E2E_FIRST_ORIGIN" default:"http://localhost:3101"`
	SecondOrigin string `envconfig:"E2E_SECOND_ORIGIN" default:"http://localhost:3102"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
