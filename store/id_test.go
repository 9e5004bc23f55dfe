package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"researchhub/store"
)

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := store.NewID()
		assert.NotEmpty(t, id)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
}
