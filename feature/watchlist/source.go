package watchlist

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"watchsync/core/utils"
	"watchsync/feature/watchlist/availability"
	"watchsync/feature/watchlist/letterboxd"
	"watchsync/feature/watchlist/models"
)

// Source assembles fresh records from the Letterboxd list: the list entries
// themselves, the film-page details and the resolved availability.
type Source struct {
	client   *letterboxd.Client
	resolver *availability.Resolver
	log      *zap.Logger
}

// NewSource wires the list client and the availability resolver.
func NewSource(client *letterboxd.Client, resolver *availability.Resolver, log *zap.Logger) *Source {
	return &Source{client: client, resolver: resolver, log: log}
}

// Fetch crawls the list and enriches every film with bounded concurrency.
// List order is preserved.
func (s *Source) Fetch(ctx context.Context) ([]models.MovieRecord, error) {
	films, err := s.client.ListFilms(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("fetched watchlist", zap.Int("films", len(films)))

	records := make([]models.MovieRecord, len(films))
	errs := make([]error, len(films))
	sem := make(chan struct{}, s.client.Concurrency())
	var wg sync.WaitGroup
	for i, film := range films {
		wg.Add(1)
		go func(i int, film letterboxd.Film) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			records[i], errs[i] = s.assemble(ctx, film)
		}(i, film)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("enrich %q: %w", films[i].Name, err)
		}
	}

	s.warnDuplicateTitles(records)
	return records, nil
}

// warnDuplicateTitles flags list entries whose titles normalize to the same
// string. Such records can still differ in year or link, but when all fields
// coincide they collapse to one workspace row, which is worth surfacing.
func (s *Source) warnDuplicateTitles(records []models.MovieRecord) {
	var seen []string
	for _, r := range records {
		matched := false
		for _, first := range seen {
			if utils.TitlesMatch(r.Title, first) {
				s.log.Warn("duplicate title in watchlist",
					zap.String("title", r.Title),
					zap.String("matches", first))
				matched = true
				break
			}
		}
		if !matched {
			seen = append(seen, r.Title)
		}
	}
}

// assemble builds one record from a list entry plus its film-page details
// and availability payload.
func (s *Source) assemble(ctx context.Context, film letterboxd.Film) (models.MovieRecord, error) {
	details, err := s.client.FilmDetails(ctx, film)
	if err != nil {
		return models.MovieRecord{}, err
	}

	payload, err := s.client.FilmAvailability(ctx, film)
	if err != nil {
		return models.MovieRecord{}, err
	}

	runtime := ""
	if details.RuntimeMinutes > 0 {
		runtime = utils.FormatRuntime(details.RuntimeMinutes)
	}

	return models.MovieRecord{
		Title:          film.Name,
		Runtime:        runtime,
		Location:       s.resolver.ResolveLocation(payload),
		Year:           film.Year,
		LetterboxdID:   film.ID,
		LetterboxdLink: s.client.BaseURL() + film.Link,
	}, nil
}
