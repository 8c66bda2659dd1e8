package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/morris-backend/internal/entity"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
	"github.com/rocketscienceinc/morris-backend/internal/repository/storage/sqlite"
)

func newHistory(t *testing.T) (context.Context, HistoryRepository) {
	t.Helper()

	ctx := context.Background()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	require.NoError(t, st.Init(ctx))

	return ctx, NewHistoryRepository(st.Connection)
}

func TestHistoryRepository_Save(t *testing.T) {
	ctx, historyRepo := newHistory(t)

	// Given: a finished match
	result := &entity.MatchResult{
		GameID:     "abc",
		Winner:     morris.Player2,
		Moves:      42,
		FinishedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	// When: it is saved twice
	require.NoError(t, historyRepo.Save(ctx, result))
	require.NoError(t, historyRepo.Save(ctx, result))

	// Then: a single row is kept
	results, err := historyRepo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "abc", results[0].GameID)
	assert.Equal(t, morris.Player2, results[0].Winner)
	assert.Equal(t, 42, results[0].Moves)
	assert.True(t, result.FinishedAt.Equal(results[0].FinishedAt))
}

func TestHistoryRepository_List(t *testing.T) {
	t.Run("Newest first with limit", func(t *testing.T) {
		ctx, historyRepo := newHistory(t)

		// Given: three matches finished an hour apart
		start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		for i, id := range []string{"first", "second", "third"} {
			require.NoError(t, historyRepo.Save(ctx, &entity.MatchResult{
				GameID:     id,
				Winner:     morris.Player1,
				Moves:      i,
				FinishedAt: start.Add(time.Duration(i) * time.Hour),
			}))
		}

		// When: the two latest are requested
		results, err := historyRepo.List(ctx, 2)

		// Then
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "third", results[0].GameID)
		assert.Equal(t, "second", results[1].GameID)
	})

	t.Run("Empty history", func(t *testing.T) {
		ctx, historyRepo := newHistory(t)

		results, err := historyRepo.List(ctx, 0)

		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
