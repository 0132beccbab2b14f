// Package notion is the HTTP client for the Notion workspace destination: it
// reads the movie database back as records, creates pages for fresh records
// and deletes the pages of stale ones.
package notion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"watchsync/feature/watchlist/models"
)

// Client talks to the Notion API for one movie database.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// New creates a client for the configured database.
func New(cfg Config, log *zap.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}
}

// richText is one element of a title or rich_text property. plain_text is
// set on reads, text on writes.
type richText struct {
	PlainText string       `json:"plain_text,omitempty"`
	Text      *textContent `json:"text,omitempty"`
}

type textContent struct {
	Content string `json:"content"`
}

// property is the union of the property shapes the movie database uses.
type property struct {
	Title    []richText `json:"title,omitempty"`
	RichText []richText `json:"rich_text,omitempty"`
	URL      string     `json:"url,omitempty"`
	Number   *float64   `json:"number,omitempty"`
}

type page struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type createPageRequest struct {
	Parent     pageParent          `json:"parent"`
	Properties map[string]property `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

// ListMovies reads back every record in the database, following the query
// cursor until the API reports no more pages.
func (c *Client) ListMovies(ctx context.Context) ([]models.MovieRecord, error) {
	var records []models.MovieRecord
	cursor := ""
	for {
		var resp queryResponse
		path := "/v1/databases/" + c.cfg.DatabaseID + "/query"
		if err := c.do(ctx, http.MethodPost, path, queryRequest{StartCursor: cursor}, &resp); err != nil {
			return nil, fmt.Errorf("query database: %w", err)
		}
		for _, p := range resp.Results {
			records = append(records, recordFromPage(p))
		}
		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}
	c.log.Debug("listed workspace movies", zap.Int("count", len(records)))
	return records, nil
}

// Insert creates a page for a fresh record.
func (c *Client) Insert(ctx context.Context, record models.MovieRecord) error {
	req := createPageRequest{
		Parent:     pageParent{DatabaseID: c.cfg.DatabaseID},
		Properties: propertiesFor(record),
	}
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, nil); err != nil {
		return fmt.Errorf("insert %q: %w", record.Title, err)
	}
	return nil
}

// Delete removes the page behind a stale record. The record must carry the
// workspace-assigned page id.
func (c *Client) Delete(ctx context.Context, record models.MovieRecord) error {
	if record.WorkspaceID == "" {
		return fmt.Errorf("delete %q: record has no workspace id", record.Title)
	}
	if err := c.do(ctx, http.MethodDelete, "/v1/blocks/"+record.WorkspaceID, nil, nil); err != nil {
		return fmt.Errorf("delete %q: %w", record.Title, err)
	}
	return nil
}

// recordFromPage maps a database row to a record. Missing or empty
// properties read as zero values rather than failing.
func recordFromPage(p page) models.MovieRecord {
	year := 0
	if n := p.Properties["Year"].Number; n != nil {
		year = int(*n)
	}
	return models.MovieRecord{
		Title:          firstPlainText(p.Properties["Title"].Title),
		Runtime:        firstPlainText(p.Properties["Runtime"].RichText),
		Location:       firstPlainText(p.Properties["Location"].RichText),
		Year:           year,
		LetterboxdID:   firstPlainText(p.Properties["Letterboxd ID"].RichText),
		LetterboxdLink: p.Properties["Letterboxd Link"].URL,
		WorkspaceID:    p.ID,
	}
}

func firstPlainText(texts []richText) string {
	if len(texts) == 0 {
		return ""
	}
	return texts[0].PlainText
}

// propertiesFor builds the property payload for a page creation.
func propertiesFor(record models.MovieRecord) map[string]property {
	year := float64(record.Year)
	return map[string]property{
		"Title":           {Title: []richText{{Text: &textContent{Content: record.Title}}}},
		"Runtime":         {RichText: []richText{{Text: &textContent{Content: record.Runtime}}}},
		"Location":        {RichText: []richText{{Text: &textContent{Content: record.Location}}}},
		"Year":            {Number: &year},
		"Letterboxd ID":   {RichText: []richText{{Text: &textContent{Content: record.LetterboxdID}}}},
		"Letterboxd Link": {URL: record.LetterboxdLink},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", c.cfg.Version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
