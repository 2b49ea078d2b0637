package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crease/crease/internal/platform/platformtest"
	"github.com/crease/crease/internal/registry"
	"github.com/crease/crease/pkg/cricket"
)

func newMatch() registry.NewMatch {
	return registry.NewMatch{
		Name:         "Final",
		Date:         "2026-10-19",
		Venue:        "Lord's",
		Format:       "T20",
		Team1:        "Lions",
		Team2:        "Tigers",
		TossWinner:   "Lions",
		TossDecision: "bat",
		BattingFirst: "Lions",
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(platformtest.NewSQLite(t))

	m, err := svc.Create(ctx, newMatch())
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, cricket.StatusSetup, m.Status)

	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	status, err := svc.Status(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, cricket.StatusSetup, status)
}

func TestCreateValidation(t *testing.T) {
	svc := registry.NewService(platformtest.NewSQLite(t))

	tests := []struct {
		name   string
		mutate func(*registry.NewMatch)
	}{
		{"missing name", func(m *registry.NewMatch) { m.Name = " " }},
		{"missing team", func(m *registry.NewMatch) { m.Team2 = "" }},
		{"same teams", func(m *registry.NewMatch) { m.Team2 = m.Team1 }},
		{"toss winner not playing", func(m *registry.NewMatch) { m.TossWinner = "Bears" }},
		{"bad toss decision", func(m *registry.NewMatch) { m.TossDecision = "field first" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newMatch()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, cricket.ErrInvalidArgument)
		})
	}
}

func TestGetMissing(t *testing.T) {
	svc := registry.NewService(platformtest.NewSQLite(t))

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, cricket.ErrNotFound)

	_, err = svc.Status(context.Background(), "nope")
	assert.ErrorIs(t, err, cricket.ErrNotFound)

	_, err = svc.Start(context.Background(), "nope")
	assert.ErrorIs(t, err, cricket.ErrNotFound)
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(platformtest.NewSQLite(t))
	m, err := svc.Create(ctx, newMatch())
	require.NoError(t, err)

	m, err = svc.Start(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, cricket.StatusLive, m.Status)

	// Starting a live match again is a no-op.
	_, err = svc.Start(ctx, m.ID)
	require.NoError(t, err)

	m, err = svc.SetStatus(ctx, m.ID, cricket.StatusPaused)
	require.NoError(t, err)
	assert.Equal(t, cricket.StatusPaused, m.Status)

	_, err = svc.SetStatus(ctx, m.ID, cricket.StatusSetup)
	assert.ErrorIs(t, err, cricket.ErrInvalidState)

	m, err = svc.SetStatus(ctx, m.ID, cricket.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, cricket.StatusCompleted, m.Status)

	_, err = svc.Start(ctx, m.ID)
	assert.ErrorIs(t, err, cricket.ErrInvalidState)

	_, err = svc.SetStatus(ctx, m.ID, cricket.MatchStatus("abandoned"))
	assert.ErrorIs(t, err, cricket.ErrInvalidArgument)
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]cricket.MatchStatus]bool{
		{cricket.StatusSetup, cricket.StatusLive}:       true,
		{cricket.StatusSetup, cricket.StatusCompleted}:  true,
		{cricket.StatusLive, cricket.StatusPaused}:      true,
		{cricket.StatusLive, cricket.StatusCompleted}:   true,
		{cricket.StatusPaused, cricket.StatusLive}:      true,
		{cricket.StatusPaused, cricket.StatusCompleted}: true,
	}
	all := []cricket.MatchStatus{cricket.StatusSetup, cricket.StatusLive, cricket.StatusPaused, cricket.StatusCompleted}
	for _, from := range all {
		for _, to := range all {
			if from == to {
				continue
			}
			assert.Equal(t, allowed[[2]cricket.MatchStatus{from, to}], registry.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(platformtest.NewSQLite(t))

	first, err := svc.Create(ctx, newMatch())
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Create(ctx, newMatch())
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(platformtest.NewSQLite(t))
	m, err := svc.Create(ctx, newMatch())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.ID))
	_, err = svc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, cricket.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, m.ID), cricket.ErrNotFound)
}

func TestStatusChangesWaitForMatchLock(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(platformtest.NewSQLite(t))
	m, err := svc.Create(ctx, newMatch())
	require.NoError(t, err)
	_, err = svc.Start(ctx, m.ID)
	require.NoError(t, err)

	unlock := svc.Locks().Lock(m.ID)
	done := make(chan error, 1)
	go func() {
		_, err := svc.SetStatus(ctx, m.ID, cricket.StatusCompleted)
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("status change ran while the match was locked")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	require.NoError(t, <-done)

	status, err := svc.Status(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, cricket.StatusCompleted, status)
}
