package repository

import (
	"fmt"
	"time"

	"researchhub/model"
	"researchhub/store"
)

// historyWindow caps how many messages a read returns. Older messages
// stay persisted until an explicit clear or a workspace cascade; only
// the read path trims.
const historyWindow = 50

type MessageRepository struct {
	store *store.Store
}

func NewMessageRepository(s *store.Store) *MessageRepository {
	return &MessageRepository{store: s}
}

// Append persists a new message for the workspace and returns it.
func (r *MessageRepository) Append(workspaceID, role, content string) (*model.Message, error) {
	msg := model.Message{
		ID:          store.NewID(),
		WorkspaceID: workspaceID,
		Role:        role,
		Content:     content,
		CreatedAt:   time.Now(),
	}

	var messages []model.Message
	if err := r.store.Load(store.CollectionMessages, &messages); err != nil {
		return nil, err
	}
	messages = append(messages, msg)
	if err := r.store.Save(store.CollectionMessages, messages); err != nil {
		return nil, fmt.Errorf("append message failed: %w", err)
	}
	return &msg, nil
}

// ListByWorkspaceID returns at most the 50 most recently created
// messages of the workspace, in creation order.
func (r *MessageRepository) ListByWorkspaceID(workspaceID string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.store.Load(store.CollectionMessages, &messages); err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	var scoped []model.Message
	for _, m := range messages {
		if m.WorkspaceID == workspaceID {
			scoped = append(scoped, m)
		}
	}
	if len(scoped) > historyWindow {
		scoped = scoped[len(scoped)-historyWindow:]
	}
	return scoped, nil
}

// DeleteByWorkspaceID removes every message of the workspace, leaving
// other workspaces' messages intact.
func (r *MessageRepository) DeleteByWorkspaceID(workspaceID string) error {
	var messages []model.Message
	if err := r.store.Load(store.CollectionMessages, &messages); err != nil {
		return err
	}
	kept := messages[:0]
	for _, m := range messages {
		if m.WorkspaceID != workspaceID {
			kept = append(kept, m)
		}
	}
	if err := r.store.Save(store.CollectionMessages, kept); err != nil {
		return fmt.Errorf("delete messages failed: %w", err)
	}
	return nil
}
