package repository

import (
	"fmt"
	"time"

	"researchhub/model"
	"researchhub/store"
)

type WorkspaceRepository struct {
	store *store.Store
}

func NewWorkspaceRepository(s *store.Store) *WorkspaceRepository {
	return &WorkspaceRepository{store: s}
}

func (r *WorkspaceRepository) Create(ws *model.Workspace) error {
	if ws.ID == "" {
		ws.ID = store.NewID()
	}
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = time.Now()
	}

	var workspaces []model.Workspace
	if err := r.store.Load(store.CollectionWorkspaces, &workspaces); err != nil {
		return err
	}
	workspaces = append(workspaces, *ws)
	if err := r.store.Save(store.CollectionWorkspaces, workspaces); err != nil {
		return fmt.Errorf("create workspace failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's workspaces in insertion order.
func (r *WorkspaceRepository) ListByUserID(userID string) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	if err := r.store.Load(store.CollectionWorkspaces, &workspaces); err != nil {
		return nil, fmt.Errorf("list workspaces failed: %w", err)
	}
	var owned []model.Workspace
	for _, ws := range workspaces {
		if ws.UserID == userID {
			owned = append(owned, ws)
		}
	}
	return owned, nil
}

func (r *WorkspaceRepository) GetByID(id string) (*model.Workspace, error) {
	var workspaces []model.Workspace
	if err := r.store.Load(store.CollectionWorkspaces, &workspaces); err != nil {
		return nil, fmt.Errorf("get workspace failed: %w", err)
	}
	for i := range workspaces {
		if workspaces[i].ID == id {
			ws := workspaces[i]
			return &ws, nil
		}
	}
	return nil, nil
}

// Delete removes the workspace and cascades over its papers and
// messages in a single transaction; callers never observe a partial
// cascade.
func (r *WorkspaceRepository) Delete(id string) error {
	err := r.store.Update(func(tx *store.Store) error {
		var workspaces []model.Workspace
		if err := tx.Load(store.CollectionWorkspaces, &workspaces); err != nil {
			return err
		}
		kept := workspaces[:0]
		for _, ws := range workspaces {
			if ws.ID != id {
				kept = append(kept, ws)
			}
		}
		if err := tx.Save(store.CollectionWorkspaces, kept); err != nil {
			return err
		}

		var papers []model.Paper
		if err := tx.Load(store.CollectionPapers, &papers); err != nil {
			return err
		}
		keptPapers := papers[:0]
		for _, p := range papers {
			if p.WorkspaceID != id {
				keptPapers = append(keptPapers, p)
			}
		}
		if err := tx.Save(store.CollectionPapers, keptPapers); err != nil {
			return err
		}

		var messages []model.Message
		if err := tx.Load(store.CollectionMessages, &messages); err != nil {
			return err
		}
		keptMessages := messages[:0]
		for _, m := range messages {
			if m.WorkspaceID != id {
				keptMessages = append(keptMessages, m)
			}
		}
		return tx.Save(store.CollectionMessages, keptMessages)
	})
	if err != nil {
		return fmt.Errorf("delete workspace failed: %w", err)
	}
	return nil
}
