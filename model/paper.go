package model

// Paper is an imported bibliographic record. Year is nil when the
// source did not report a publication year.
type Paper struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Abstract    string `json:"abstract"`
	Year        *int   `json:"year"`
	SourceURL   string `json:"source_url"`
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
}
