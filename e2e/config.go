package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// RELAY_ADDR points at a running relay, e.g. "localhost:12345".
	// When unset the e2e suite is skipped.
	RelayAddr string `envconfig:"RELAY_ADDR"`
	// RELAY_PASSWORD is the shared secret of the target relay.
	RelayPassword string `envconfig:"RELAY_PASSWORD" default:"hunter2"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
