package observability

import (
	"os"

	"github.com/danmuck/azadio/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs the runtime logger tagged with app and returns it.
func InitLogger(app string) zerolog.Logger {
	cfg := logging.DefaultConfig(logging.ProfileRuntime)
	logging.ApplyEnvOverrides(&cfg, os.Getenv)
	logger := logging.New(cfg).With().Str("app", app).Logger()
	log.Logger = logger
	zerolog.SetGlobalLevel(cfg.Level)
	return logger
}
