package letterboxd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// posterRef identifies one list entry's poster fragment: the film slug plus
// the cache-busting key the fragment endpoint requires.
type posterRef struct {
	Slug   string
	Buster string
}

// fragmentPath builds the site-relative poster fragment path. The slug
// already carries leading and trailing slashes.
func (r posterRef) fragmentPath() string {
	return "/ajax/poster" + r.Slug + "std/125x187/?k=" + r.Buster
}

// parseListPage extracts the poster references of one list page and the
// site-relative path of the next page, empty when this is the last page.
func parseListPage(r io.Reader) ([]posterRef, string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, "", err
	}

	var refs []posterRef
	doc.Find("div.really-lazy-load").Each(func(_ int, s *goquery.Selection) {
		slug, _ := s.Attr("data-film-slug")
		buster, _ := s.Attr("data-cache-busting-key")
		if slug == "" {
			return
		}
		refs = append(refs, posterRef{Slug: slug, Buster: buster})
	})

	// The page carries two paginators; the second one holds the next link,
	// which disappears on the last page.
	next, _ := doc.Find("div.paginate-nextprev").Eq(1).Find("a").First().Attr("href")
	return refs, next, nil
}

// parsePoster extracts film identity from a poster fragment.
func parsePoster(r io.Reader) (Film, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Film{}, err
	}

	poster := doc.Find("div.poster").First()
	if poster.Length() == 0 {
		return Film{}, fmt.Errorf("poster fragment has no poster element")
	}

	id, _ := poster.Attr("data-film-id")
	name, _ := poster.Attr("data-film-name")
	yearAttr, _ := poster.Attr("data-film-release-year")
	link, _ := poster.Attr("data-film-link")
	if id == "" || name == "" {
		return Film{}, fmt.Errorf("poster fragment is missing film attributes")
	}

	year, _ := strconv.Atoi(yearAttr)
	return Film{ID: id, Name: name, Year: year, Link: link}, nil
}

// parseFilmPage extracts runtime and genres from a film page.
func parseFilmPage(r io.Reader) (Details, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Details{}, err
	}

	var details Details

	// The footer line reads like "102 mins  More at IMDb"; the minutes are
	// the first whitespace-delimited token (NBSP counts as whitespace).
	text := strings.TrimSpace(doc.Find("p.text-link").First().Text())
	if fields := strings.Fields(text); len(fields) > 0 {
		if minutes, err := strconv.Atoi(fields[0]); err == nil {
			details.RuntimeMinutes = minutes
		}
	}

	doc.Find("#tab-genres div").First().Find("a").Each(func(_ int, s *goquery.Selection) {
		if genre := strings.TrimSpace(s.Text()); genre != "" {
			details.Genres = append(details.Genres, genre)
		}
	})

	return details, nil
}
