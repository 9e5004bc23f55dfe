package app

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"researchhub/model"
	"researchhub/repository"
	"researchhub/search"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrPaperNotFound     = errors.New("paper not found")
)

// WorkspaceService manages workspaces and the papers imported into
// them.
type WorkspaceService struct {
	workspaceRepo *repository.WorkspaceRepository
	paperRepo     *repository.PaperRepository
	historyCache  HistoryCache
	log           *zap.Logger
}

func NewWorkspaceService(
	workspaceRepo *repository.WorkspaceRepository,
	paperRepo *repository.PaperRepository,
	historyCache HistoryCache,
	log *zap.Logger,
) *WorkspaceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		paperRepo:     paperRepo,
		historyCache:  historyCache,
		log:           log,
	}
}

type CreateWorkspaceInput struct {
	UserID      string
	Name        string
	Description string
}

func (s *WorkspaceService) Create(input CreateWorkspaceInput) (*model.Workspace, error) {
	if input.UserID == "" {
		return nil, ErrInvalidInput
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Untitled Workspace"
	}

	ws := &model.Workspace{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		UserID:      input.UserID,
	}
	if err := s.workspaceRepo.Create(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *WorkspaceService) List(userID string) ([]model.Workspace, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.workspaceRepo.ListByUserID(userID)
}

func (s *WorkspaceService) Get(id string) (*model.Workspace, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.workspaceRepo.GetByID(id)
}

// Delete removes the workspace with its papers and messages in one
// cascade and drops any cached history.
func (s *WorkspaceService) Delete(id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	ws, err := s.workspaceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if ws == nil {
		return ErrWorkspaceNotFound
	}
	if err := s.workspaceRepo.Delete(id); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(context.Background(), id)
	}
	s.log.Info("workspace deleted", zap.String("workspace_id", id))
	return nil
}

type ImportPaperInput struct {
	UserID      string
	WorkspaceID string
	Result      search.Result
}

// ImportPaper persists a search result as a paper of the workspace.
// UserID is recorded as the importer reference, not re-validated.
func (s *WorkspaceService) ImportPaper(input ImportPaperInput) (*model.Paper, error) {
	if input.UserID == "" || input.WorkspaceID == "" {
		return nil, ErrInvalidInput
	}
	ws, err := s.workspaceRepo.GetByID(input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, ErrWorkspaceNotFound
	}

	paper := &model.Paper{
		Title:       input.Result.Title,
		Authors:     input.Result.Authors,
		Abstract:    input.Result.Abstract,
		Year:        input.Result.Year,
		SourceURL:   input.Result.URL,
		WorkspaceID: input.WorkspaceID,
		UserID:      input.UserID,
	}
	if err := s.paperRepo.Create(paper); err != nil {
		return nil, err
	}
	return paper, nil
}

func (s *WorkspaceService) ListPapers(workspaceID string) ([]model.Paper, error) {
	if workspaceID == "" {
		return nil, ErrInvalidInput
	}
	return s.paperRepo.ListByWorkspaceID(workspaceID)
}

func (s *WorkspaceService) DeletePaper(id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	paper, err := s.paperRepo.GetByID(id)
	if err != nil {
		return err
	}
	if paper == nil {
		return ErrPaperNotFound
	}
	return s.paperRepo.Delete(id)
}
