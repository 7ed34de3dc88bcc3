package httpapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/session"
	"github.com/dmitrijs2005/logboard/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := NewRegistry(testFactory(t, storetest.NewMemory()))

	c, err := reg.Create(context.Background(), models.UserMoni)
	require.NoError(t, err)
	assert.Equal(t, models.UserMoni, c.State().User)
	assert.Equal(t, 1, reg.Len())

	h, err := reg.get(c.ID())
	require.NoError(t, err)
	assert.Same(t, c, h.ctrl)

	_, err = reg.get("nope")
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestRegistry_CreateFactoryError(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry(func(context.Context, models.User) (*session.Controller, error) {
		return nil, boom
	})

	_, err := reg.Create(context.Background(), models.UserAldo)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	reg := NewRegistry(testFactory(t, storetest.NewMemory()))
	reg.now = func() time.Time { return now }

	stale, err := reg.Create(context.Background(), models.UserAldo)
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	fresh, err := reg.Create(context.Background(), models.UserMoni)
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, reg.Sweep(time.Hour))
	assert.Equal(t, 1, reg.Len())

	_, err = reg.get(stale.ID())
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
	_, err = reg.get(fresh.ID())
	assert.NoError(t, err)
}

func TestRegistry_GetRefreshesLastSeen(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	reg := NewRegistry(testFactory(t, storetest.NewMemory()))
	reg.now = func() time.Time { return now }

	c, err := reg.Create(context.Background(), models.UserAldo)
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	_, err = reg.get(c.ID())
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	assert.Equal(t, 0, reg.Sweep(time.Hour))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RunSweeperStopsOnCancel(t *testing.T) {
	reg := NewRegistry(testFactory(t, storetest.NewMemory()))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reg.RunSweeper(ctx, time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
