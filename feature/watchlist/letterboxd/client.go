// Package letterboxd scrapes a Letterboxd list and the per-film pages it
// links to: film identity from poster fragments, runtime and genres from the
// film page, and the raw availability payload from the site's JustWatch
// passthrough endpoint.
package letterboxd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"watchsync/feature/watchlist/availability"
)

// Film is one entry of a Letterboxd list.
type Film struct {
	// ID is the site-internal film id used by the availability endpoint.
	ID string
	// Name is the film title.
	Name string
	// Year is the release year, 0 when the site omits it.
	Year int
	// Link is the site-relative film page path, e.g. /film/aftersun/.
	Link string
}

// Details carries the extra film-page data the list page does not expose.
type Details struct {
	// RuntimeMinutes is the film length in minutes, 0 when unknown.
	RuntimeMinutes int
	// Genres are the film page's genre labels.
	Genres []string
}

// Client fetches and parses Letterboxd pages.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// New creates a client for the configured list.
func New(cfg Config, log *zap.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}
}

// Concurrency returns the configured per-film fan-out bound.
func (c *Client) Concurrency() int {
	if c.cfg.MaxConcurrency < 1 {
		return 1
	}
	return c.cfg.MaxConcurrency
}

// BaseURL returns the configured site root without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/")
}

// ListFilms walks the paginated list and resolves every entry's poster
// fragment into a Film. Poster fetches fan out with bounded concurrency;
// list order is preserved.
func (c *Client) ListFilms(ctx context.Context) ([]Film, error) {
	if c.cfg.ListURL == "" {
		return nil, fmt.Errorf("letterboxd: list_url is not configured")
	}

	var refs []posterRef
	url := c.cfg.ListURL
	for page := 1; url != ""; page++ {
		body, err := c.get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetch list page %d: %w", page, err)
		}
		pageRefs, next, err := parseListPage(strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse list page %d: %w", page, err)
		}
		refs = append(refs, pageRefs...)
		c.log.Debug("fetched list page",
			zap.Int("page", page),
			zap.Int("films", len(pageRefs)))

		url = ""
		if next != "" {
			url = c.BaseURL() + next
		}
	}

	films := make([]Film, len(refs))
	errs := make([]error, len(refs))
	sem := make(chan struct{}, c.Concurrency())
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref posterRef) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			films[i], errs[i] = c.fetchPoster(ctx, ref)
		}(i, ref)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("poster %s: %w", refs[i].Slug, err)
		}
	}
	return films, nil
}

// FilmDetails fetches the film page behind a list entry and extracts runtime
// and genres.
func (c *Client) FilmDetails(ctx context.Context, film Film) (Details, error) {
	body, err := c.get(ctx, c.BaseURL()+film.Link)
	if err != nil {
		return Details{}, fmt.Errorf("fetch film page %s: %w", film.Link, err)
	}
	return parseFilmPage(strings.NewReader(body))
}

// FilmAvailability fetches the raw availability payload for one film.
func (c *Client) FilmAvailability(ctx context.Context, film Film) (availability.Payload, error) {
	url := fmt.Sprintf("%s/s/film-availability?filmId=%s&locale=%s", c.BaseURL(), film.ID, c.cfg.Locale)
	body, err := c.get(ctx, url)
	if err != nil {
		return availability.Payload{}, fmt.Errorf("fetch availability for film %s: %w", film.ID, err)
	}
	var payload availability.Payload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return availability.Payload{}, fmt.Errorf("decode availability for film %s: %w", film.ID, err)
	}
	return payload, nil
}

// fetchPoster resolves one poster fragment into a Film.
func (c *Client) fetchPoster(ctx context.Context, ref posterRef) (Film, error) {
	body, err := c.get(ctx, c.BaseURL()+ref.fragmentPath())
	if err != nil {
		return Film{}, err
	}
	return parsePoster(strings.NewReader(body))
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if c.cfg.Cookie != "" {
		req.Header.Set("Cookie", c.cfg.Cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
