package test

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	JWTSecret string `envconfig:"HUB_JWT_SECRET" default:"integration_hub_secret"`
	// HUB_READ_TIMEOUT bounds how long a scenario waits for a single frame
	ReadTimeout time.Duration `envconfig:"HUB_READ_TIMEOUT" default:"2s"`
	// HUB_SILENCE_WINDOW is how long a scenario listens before declaring
	// that no frame arrives
	SilenceWindow    time.Duration `envconfig:"HUB_SILENCE_WINDOW" default:"300ms"`
	HeartbeatTimeout time.Duration `envconfig:"HUB_HEARTBEAT_TIMEOUT" default:"5s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
