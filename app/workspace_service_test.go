package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"researchhub/app"
	"researchhub/repository"
	"researchhub/search"
	"researchhub/store"
)

func newWorkspaceService(t *testing.T) (*app.WorkspaceService, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	svc := app.NewWorkspaceService(
		repository.NewWorkspaceRepository(s),
		repository.NewPaperRepository(s),
		nil,
		nil,
	)
	return svc, s
}

func TestCreateWorkspaceDefaultsName(t *testing.T) {
	svc, _ := newWorkspaceService(t)

	ws, err := svc.Create(app.CreateWorkspaceInput{UserID: "u1", Name: "  "})
	require.NoError(t, err)
	assert.Equal(t, "Untitled Workspace", ws.Name)
	assert.NotEmpty(t, ws.ID)
	assert.False(t, ws.CreatedAt.IsZero())
}

func TestDeleteWorkspaceNotFound(t *testing.T) {
	svc, _ := newWorkspaceService(t)

	err := svc.Delete("missing")
	assert.ErrorIs(t, err, app.ErrWorkspaceNotFound)
}

func TestImportPaperRequiresWorkspace(t *testing.T) {
	svc, _ := newWorkspaceService(t)

	_, err := svc.ImportPaper(app.ImportPaperInput{
		UserID:      "u1",
		WorkspaceID: "missing",
		Result:      search.Result{Title: "T"},
	})
	assert.ErrorIs(t, err, app.ErrWorkspaceNotFound)
}

func TestImportPaperRecordsImporter(t *testing.T) {
	svc, _ := newWorkspaceService(t)

	ws, err := svc.Create(app.CreateWorkspaceInput{UserID: "u1", Name: "ML"})
	require.NoError(t, err)

	year := 2017
	paper, err := svc.ImportPaper(app.ImportPaperInput{
		UserID:      "u1",
		WorkspaceID: ws.ID,
		Result: search.Result{
			Title:    "Attention Is All You Need",
			Authors:  "Vaswani et al.",
			Abstract: "Transformers.",
			Year:     &year,
			URL:      "https://example.org/attention",
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, paper.ID)
	assert.Equal(t, "u1", paper.UserID)
	assert.Equal(t, ws.ID, paper.WorkspaceID)
	assert.Equal(t, "https://example.org/attention", paper.SourceURL)

	papers, err := svc.ListPapers(ws.ID)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Attention Is All You Need", papers[0].Title)
}

func TestDeletePaperNotFound(t *testing.T) {
	svc, _ := newWorkspaceService(t)

	err := svc.DeletePaper("missing")
	assert.ErrorIs(t, err, app.ErrPaperNotFound)
}
