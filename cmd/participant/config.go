package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Origin          string        `envconfig:"PARTICIPANT_ORIGIN" required:"true"`
	HostOrigin      string        `envconfig:"HOST_ORIGIN" default:"http://localhost:3000"`
	HostAddr        string        `envconfig:"HOST_ADDR" default:"localhost:8080"`
	Publish         []string      `envconfig:"PUBLISH" default:"test-message,rogue-message"`
	Subscribe       []string      `envconfig:"SUBSCRIBE" default:"test-message"`
	PublishInterval time.Duration `envconfig:"PUBLISH_INTERVAL" default:"5s"`
	OutboxSize      int           `envconfig:"OUTBOX_SIZE" default:"64"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"INFO"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
