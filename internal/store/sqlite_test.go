package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystone-claims/appliance-research/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_SaveAndGetRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	request := []byte(`{"brand":"GE","model":"JGB735SPSS"}`)
	result := []byte(`{"success":true}`)

	saved, err := s.SaveRun(ctx, model.RunKindResearch, request, result)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, model.RunKindResearch, saved.Kind)

	got, err := s.GetRun(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, model.RunKindResearch, got.Kind)
	assert.JSONEq(t, string(request), string(got.Request))
	assert.JSONEq(t, string(result), string(got.Result))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(ctx, model.RunKindResearch, []byte(`{}`), []byte(`{}`))
		require.NoError(t, err)
	}
	_, err := s.SaveRun(ctx, model.RunKindReplacement, []byte(`{}`), []byte(`{}`))
	require.NoError(t, err)

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	research, err := s.ListRuns(ctx, RunFilter{Kind: model.RunKindResearch})
	require.NoError(t, err)
	assert.Len(t, research, 3)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteStore_ListRuns_Empty(t *testing.T) {
	s := newTestSQLite(t)

	runs, err := s.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	ctx := context.Background()

	run, err := s.SaveRun(ctx, model.RunKindComplete, []byte(`{}`), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, model.RunKindComplete, run.Kind)

	_, err = s.GetRun(ctx, "any")
	assert.ErrorIs(t, err, ErrRunNotFound)

	runs, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)

	assert.NoError(t, s.Migrate(ctx))
	assert.NoError(t, s.Close())
}
