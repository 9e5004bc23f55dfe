package repository

import (
	"fmt"
	"strings"

	"researchhub/model"
	"researchhub/store"
)

// UserRepository appends and looks up user records. It does not
// enforce email uniqueness; callers check GetByEmail before Create.
type UserRepository struct {
	store *store.Store
}

func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) Create(user *model.User) error {
	if user.ID == "" {
		user.ID = store.NewID()
	}

	var users []model.User
	if err := r.store.Load(store.CollectionUsers, &users); err != nil {
		return err
	}
	users = append(users, *user)
	if err := r.store.Save(store.CollectionUsers, users); err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

// GetByEmail matches case-insensitively and returns nil when absent.
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var users []model.User
	if err := r.store.Load(store.CollectionUsers, &users); err != nil {
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	var users []model.User
	if err := r.store.Load(store.CollectionUsers, &users); err != nil {
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}
