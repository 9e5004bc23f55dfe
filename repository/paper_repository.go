package repository

import (
	"fmt"

	"researchhub/model"
	"researchhub/store"
)

type PaperRepository struct {
	store *store.Store
}

func NewPaperRepository(s *store.Store) *PaperRepository {
	return &PaperRepository{store: s}
}

func (r *PaperRepository) Create(paper *model.Paper) error {
	if paper.ID == "" {
		paper.ID = store.NewID()
	}

	var papers []model.Paper
	if err := r.store.Load(store.CollectionPapers, &papers); err != nil {
		return err
	}
	papers = append(papers, *paper)
	if err := r.store.Save(store.CollectionPapers, papers); err != nil {
		return fmt.Errorf("create paper failed: %w", err)
	}
	return nil
}

func (r *PaperRepository) ListByWorkspaceID(workspaceID string) ([]model.Paper, error) {
	var papers []model.Paper
	if err := r.store.Load(store.CollectionPapers, &papers); err != nil {
		return nil, fmt.Errorf("list papers failed: %w", err)
	}
	var scoped []model.Paper
	for _, p := range papers {
		if p.WorkspaceID == workspaceID {
			scoped = append(scoped, p)
		}
	}
	return scoped, nil
}

func (r *PaperRepository) GetByID(id string) (*model.Paper, error) {
	var papers []model.Paper
	if err := r.store.Load(store.CollectionPapers, &papers); err != nil {
		return nil, fmt.Errorf("get paper failed: %w", err)
	}
	for i := range papers {
		if papers[i].ID == id {
			p := papers[i]
			return &p, nil
		}
	}
	return nil, nil
}

// Delete removes a single paper; other collections are untouched.
func (r *PaperRepository) Delete(id string) error {
	var papers []model.Paper
	if err := r.store.Load(store.CollectionPapers, &papers); err != nil {
		return err
	}
	kept := papers[:0]
	for _, p := range papers {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := r.store.Save(store.CollectionPapers, kept); err != nil {
		return fmt.Errorf("delete paper failed: %w", err)
	}
	return nil
}
