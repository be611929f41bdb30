package main

import (
	"testing"
	"time"

	"github.com/fieldaid/backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerDevelopment(t *testing.T) {
	cfg := &config.Config{Environment: "development"}

	logger, err := newLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLoggerProduction(t *testing.T) {
	cfg := &config.Config{
		Environment: "production",
		Observability: config.ObservabilityConfig{
			LogLevel:  "warn",
			LogFormat: "json",
		},
	}

	logger, err := newLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLoggerInvalidLevelFallsBack(t *testing.T) {
	cfg := &config.Config{
		Environment: "production",
		Observability: config.ObservabilityConfig{
			LogLevel:  "not-a-level",
			LogFormat: "json",
		},
	}

	logger, err := newLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestServerAddressFromConfig(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            9000,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: time.Second,
		},
	}

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address())
}
