package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/seolens/seolens/internal/config"
)

// NewLogger creates the service-wide structured logger. Level falls back to
// info when the configured level does not parse.
func NewLogger(cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(os.Stdout).With().Timestamp().Str("service", "dashboard-api")

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
