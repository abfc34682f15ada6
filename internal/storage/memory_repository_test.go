package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryMatchesSQLiteSemantics(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.GetSetting(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.CreateTimer(ctx, TimerRecord{ID: "a", State: "Running"}))
	assert.ErrorIs(t, repo.CreateTimer(ctx, TimerRecord{ID: "a", State: "Running"}), ErrConflict)
	assert.ErrorIs(t, repo.UpdateTimer(ctx, TimerRecord{ID: "missing"}), ErrNotFound)

	require.NoError(t, repo.ReplaceTimers(ctx, []TimerRecord{{ID: "z", State: "Paused"}, {ID: "y", State: "Running"}}))
	all, err := repo.ListTimers(ctx, TimerListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "z", all[0].ID)
	assert.Equal(t, "{}", all[0].Options)

	running, err := repo.ListTimers(ctx, TimerListFilter{State: "Running"})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "y", running[0].ID)

	require.NoError(t, repo.ReplaceRecentInputs(ctx, []string{"1", "2", "1", "3"}))
	recent, err := repo.ListRecentInputs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, recent)
}
