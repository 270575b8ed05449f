package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=12345" validate:"min=1,max=65535"`
	Password             string        `env:"SERVER_PASSWORD,required=true" validate:"required"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64" validate:"min=1"`
	MaxClients           *int          `env:"MAX_CLIENTS" validate:"omitempty,min=1"`
	CensorReplacement    string        `env:"CENSOR_REPLACEMENT,default=*"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=0s"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
}

// CharacterRune rejects multi-rune replacement strings early instead of
// letting the moderator mask with garbage.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSOR_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
