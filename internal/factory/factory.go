// Package factory constructs configured implementations of the service's
// pluggable dependencies: the record store and the image generator.
package factory

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/havenmind/haven-server/internal/config"
	"github.com/havenmind/haven-server/internal/imagegen"
	storepkg "github.com/havenmind/haven-server/internal/store"
	"github.com/havenmind/haven-server/internal/store/localfile"
	"github.com/havenmind/haven-server/internal/store/memory"
	storepg "github.com/havenmind/haven-server/internal/store/postgres"
	storesqlite "github.com/havenmind/haven-server/internal/store/sqlite"
)

// NewStore returns the store selected by cfg.StoreDriver. Connections are
// opened synchronously since health checks need them immediately.
func NewStore(cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.StoreDriver {
	case "localfile":
		return localfile.Open(cfg.LocalFilePath(), log)
	case "sqlite":
		return storesqlite.New(cfg.SQLitePath())
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("HAVEN_POSTGRES_DSN is required when HAVEN_STORE_DRIVER=postgres")
		}
		return storepg.New(cfg.PostgresDSN)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown HAVEN_STORE_DRIVER: %s", cfg.StoreDriver)
	}
}

// NewImageGenerator returns an image client, or nil when no service URL is
// configured. Ingestion treats a nil generator as "skip image generation".
func NewImageGenerator(cfg *config.Config, log zerolog.Logger) imagegen.Generator {
	if cfg.ImageServiceURL == "" {
		log.Info().Msg("image service not configured; records will be stored without imagery")
		return nil
	}
	timeout := time.Duration(cfg.ImageTimeoutSeconds) * time.Second
	return imagegen.New(cfg.ImageServiceURL, cfg.ImageStyle, cfg.ImageSize, timeout)
}
