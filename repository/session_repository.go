package repository

import (
	"fmt"

	"researchhub/model"
	"researchhub/store"
)

// SessionRepository holds the single current-session pointer. Absence
// means unauthenticated.
type SessionRepository struct {
	store *store.Store
}

func NewSessionRepository(s *store.Store) *SessionRepository {
	return &SessionRepository{store: s}
}

// Set persists the stripped view of the user as the current session.
func (r *SessionRepository) Set(user *model.User) error {
	if err := r.store.Save(store.CollectionSession, user.Session()); err != nil {
		return fmt.Errorf("set session failed: %w", err)
	}
	return nil
}

// Get returns the current session user, or nil when unset or corrupt.
func (r *SessionRepository) Get() (*model.SessionUser, error) {
	var su model.SessionUser
	found, err := r.store.Get(store.CollectionSession, &su)
	if err != nil {
		return nil, fmt.Errorf("get session failed: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &su, nil
}

func (r *SessionRepository) Clear() error {
	if err := r.store.Delete(store.CollectionSession); err != nil {
		return fmt.Errorf("clear session failed: %w", err)
	}
	return nil
}
