package app

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/trello-agent/internal/config"
	"github.com/ignite/trello-agent/internal/domain"
	activityredis "github.com/ignite/trello-agent/internal/repository/redis"
	"github.com/ignite/trello-agent/internal/service/assistant"
)

func baseConfig() *config.Config {
	return &config.Config{
		Trello:   config.TrelloConfig{BaseURL: config.DefaultTrelloBaseURL, TimeoutSeconds: 30},
		Defaults: config.DefaultsConfig{Board: "Groceries", List: "This week"},
		Activity: config.ActivityConfig{Backend: config.ActivityBackendNone},
		Logging:  config.LoggingConfig{Level: "error"},
	}
}

func TestNew_WithoutCredentials(t *testing.T) {
	a, err := New(baseConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Service)
	assert.IsType(t, assistant.NopActivityLog{}, a.Activity)

	_, err = a.RequireService()
	assert.True(t, errors.Is(err, domain.ErrConfigMissing))
}

func TestNew_WithCredentials(t *testing.T) {
	cfg := baseConfig()
	cfg.Trello.Key = "k"
	cfg.Trello.Token = "t"

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	svc, err := a.RequireService()
	require.NoError(t, err)
	assert.Equal(t, assistant.Defaults{Board: "Groceries", List: "This week"}, svc.Defaults())
}

func TestNew_RedisActivity(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.Activity = config.ActivityConfig{
		Backend:    config.ActivityBackendRedis,
		RedisURL:   "redis://" + mr.Addr(),
		RedisKey:   "test:activity",
		MaxEntries: 10,
	}

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.IsType(t, &activityredis.ActivityLog{}, a.Activity)
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := baseConfig()
	cfg.Activity = config.ActivityConfig{Backend: config.ActivityBackendRedis, RedisURL: "redis://127.0.0.1:1"}

	_, err := New(cfg)
	assert.Error(t, err)
}
