// Package app builds the service graph shared by the HTTP server and the
// boardctl CLI from a loaded configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ignite/trello-agent/internal/config"
	"github.com/ignite/trello-agent/internal/domain"
	"github.com/ignite/trello-agent/internal/pkg/logger"
	"github.com/ignite/trello-agent/internal/repository/postgres"
	activityredis "github.com/ignite/trello-agent/internal/repository/redis"
	"github.com/ignite/trello-agent/internal/service/assistant"
	"github.com/ignite/trello-agent/internal/trello"
)

// App holds the constructed components. Service is nil when Trello
// credentials are missing.
type App struct {
	Config   *config.Config
	Service  *assistant.Service
	Activity assistant.ActivityLog
	closers  []func() error
}

// New wires the Trello client, the activity log and the assistant service.
// Missing Trello credentials are not an error here: the caller decides
// whether it can run without them.
func New(cfg *config.Config) (*App, error) {
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	a := &App{Config: cfg}

	activity, err := a.openActivityLog(cfg.Activity)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Activity = activity

	client, err := trello.NewClient(cfg.Trello)
	switch {
	case errors.Is(err, domain.ErrConfigMissing):
		logger.Warn("trello credentials missing, board routes will answer with a configuration error")
	case err != nil:
		a.Close()
		return nil, err
	default:
		a.Service = assistant.NewService(client, a.Defaults(), activity)
		logger.Info("trello client ready", "base_url", cfg.Trello.BaseURL, "max_retries", cfg.Trello.MaxRetries)
	}
	return a, nil
}

// Defaults returns the configured fallback hints.
func (a *App) Defaults() assistant.Defaults {
	return assistant.Defaults{Board: a.Config.Defaults.Board, List: a.Config.Defaults.List}
}

// RequireService returns the assistant service or a ConfigMissing error.
func (a *App) RequireService() (*assistant.Service, error) {
	if a.Service == nil {
		return nil, a.Config.Trello.Validate()
	}
	return a.Service, nil
}

// Close releases the activity log connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) openActivityLog(cfg config.ActivityConfig) (assistant.ActivityLog, error) {
	switch cfg.Backend {
	case config.ActivityBackendRedis:
		log, err := activityredis.NewActivityLogFromURL(cfg.RedisURL, cfg.RedisKey, cfg.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("activity log: %w", err)
		}
		a.closers = append(a.closers, log.Close)
		return log, nil

	case config.ActivityBackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("activity log: %w", err)
		}
		db.SetMaxOpenConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("activity log: postgres ping: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		logger.Info("activity log connected to postgres")
		return postgres.NewActivityRepo(db), nil

	default:
		return assistant.NopActivityLog{}, nil
	}
}
