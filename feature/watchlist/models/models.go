package models

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// MovieRecord is the unit of reconciliation: one enriched watchlist entry,
// either freshly assembled from the source sites or read back from the
// workspace destination.
type MovieRecord struct {
	// Title is the film title.
	Title string `json:"title"`

	// Runtime is the formatted runtime, e.g. "1:47".
	Runtime string `json:"runtime"`

	// Location is the human-readable availability text: a provider name for
	// streaming, "<Kind> $<price>" otherwise, or empty when nothing is available.
	Location string `json:"location"`

	// Year is the release year.
	Year int `json:"year"`

	// LetterboxdID is the source film identifier.
	LetterboxdID string `json:"letterboxd_id"`

	// LetterboxdLink is the absolute URL of the source film page.
	LetterboxdLink string `json:"letterboxd_link"`

	// WorkspaceID is the destination-assigned identifier. It is only set on
	// records read back from the workspace and is excluded from identity:
	// two records with identical content are the same movie regardless of
	// where they came from.
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// identityFields returns the canonical projection the identity is derived
// from: every substantive field, WorkspaceID excluded.
func (m MovieRecord) identityFields() [][2]string {
	return [][2]string{
		{"letterboxd_id", m.LetterboxdID},
		{"letterboxd_link", m.LetterboxdLink},
		{"location", m.Location},
		{"runtime", m.Runtime},
		{"title", m.Title},
		{"year", strconv.Itoa(m.Year)},
	}
}

// IdentityKey returns a canonical, order-stabilized string representation of
// the record's content. Two records are the same movie iff their keys match.
func (m MovieRecord) IdentityKey() string {
	fields := m.identityFields()
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, f[0]+"="+f[1])
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}

// IdentityHash returns a 64-bit hash of the identity key, suitable for
// hash-based set construction. Consistent with Equal by construction.
func (m MovieRecord) IdentityHash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(m.IdentityKey()))
	return h.Sum64()
}

// Equal reports whether two records describe the same movie, ignoring the
// workspace-assigned identifier.
func (m MovieRecord) Equal(other MovieRecord) bool {
	return m.IdentityKey() == other.IdentityKey()
}
