package letterboxd

// Config holds configuration for the Letterboxd list source.
type Config struct {
	// ListURL is the full URL of the list to sync, e.g.
	// https://letterboxd.com/someuser/watchlist.
	ListURL string `mapstructure:"list_url"`
	// BaseURL is the site root, used for pagination links and the
	// poster/availability endpoints.
	BaseURL string `mapstructure:"base_url" default:"https://letterboxd.com"`
	// Locale selects the region for availability lookups.
	Locale string `mapstructure:"locale" default:"USA"`
	// Cookie is sent verbatim with every request. Needed for private lists.
	Cookie string `mapstructure:"cookie"`
	// TimeoutSeconds bounds each individual HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxConcurrency caps parallel per-film fetches.
	MaxConcurrency int `mapstructure:"max_concurrency" default:"8"`
}
