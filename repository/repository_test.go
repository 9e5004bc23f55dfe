package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"researchhub/platform/sqlite"
	"researchhub/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	s, err := store.New(db)
	require.NoError(t, err)
	return s
}
