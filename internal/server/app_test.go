package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/logboard/internal/config"
	"github.com/dmitrijs2005/logboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DBDriver = store.DriverSQLite
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "board.db")
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.LogLevel = "error"
	return cfg
}

func TestNewApp_BadStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "oracle"

	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewApp_BadLogLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "loud"

	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	app, err := NewApp(ctx, testConfig(t))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Error(t, app.core.Ping(context.Background()), "store is closed after Run")
}
