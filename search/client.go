package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultLimit = 10

// Result is a normalized paper summary from the bibliographic search
// service, in the shape the paper manager imports.
type Result struct {
	PaperID  string `json:"paper_id"`
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Abstract string `json:"abstract"`
	Year     *int   `json:"year"`
	URL      string `json:"url"`
}

// Client queries the Semantic Scholar graph API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limit      int
	log        *zap.Logger
}

func NewClient(baseURL string, limit int, log *zap.Logger) *Client {
	if limit <= 0 {
		limit = defaultLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limit:      limit,
		log:        log,
	}
}

// Search runs a free-text paper query and normalizes missing fields:
// empty titles become "Untitled", empty author lists "Unknown".
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	endpoint := fmt.Sprintf(
		"%s/graph/v1/paper/search?query=%s&limit=%d&fields=title,authors,abstract,year,url",
		c.baseURL, url.QueryEscape(query), c.limit,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paper search request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		c.log.Warn("paper search rejected", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("paper search failed with status %d", resp.StatusCode)
	}

	var parsed struct {
		Data []struct {
			PaperID string `json:"paperId"`
			Title   string `json:"title"`
			Authors []struct {
				Name string `json:"name"`
			} `json:"authors"`
			Abstract string `json:"abstract"`
			Year     *int   `json:"year"`
			URL      string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse search json failed: %w", err)
	}

	results := make([]Result, 0, len(parsed.Data))
	for _, p := range parsed.Data {
		names := make([]string, 0, len(p.Authors))
		for _, a := range p.Authors {
			names = append(names, a.Name)
		}
		authors := strings.Join(names, ", ")
		if authors == "" {
			authors = "Unknown"
		}
		title := p.Title
		if title == "" {
			title = "Untitled"
		}
		results = append(results, Result{
			PaperID:  p.PaperID,
			Title:    title,
			Authors:  authors,
			Abstract: p.Abstract,
			Year:     p.Year,
			URL:      p.URL,
		})
	}
	return results, nil
}
