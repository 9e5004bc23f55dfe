package repository_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"researchhub/model"
	"researchhub/repository"
	"researchhub/store"
)

func TestSessionSetStripsSecret(t *testing.T) {
	s := newTestStore(t)
	repo := repository.NewSessionRepository(s)

	user := &model.User{ID: "u1", Email: "a@b.com", PasswordHash: "secret-hash", FullName: "Ada"}
	require.NoError(t, repo.Set(user))

	su, err := repo.Get()
	require.NoError(t, err)
	require.NotNil(t, su)
	assert.Equal(t, "u1", su.ID)
	assert.Equal(t, "Ada", su.FullName)

	// The persisted record itself must not carry the hash.
	var raw map[string]any
	found, err := s.Get(store.CollectionSession, &raw)
	require.NoError(t, err)
	require.True(t, found)
	payload, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "secret-hash")
}

func TestSessionClear(t *testing.T) {
	repo := repository.NewSessionRepository(newTestStore(t))

	require.NoError(t, repo.Set(&model.User{ID: "u1", Email: "a@b.com"}))
	require.NoError(t, repo.Clear())

	su, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, su)
}

func TestSessionGetWhenUnset(t *testing.T) {
	repo := repository.NewSessionRepository(newTestStore(t))

	su, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, su)
}
