package notion

// Config holds configuration for the Notion workspace destination.
type Config struct {
	// Token is the integration token sent as a Bearer credential.
	Token string `mapstructure:"token"`
	// DatabaseID is the id of the movie database to reconcile against.
	DatabaseID string `mapstructure:"database_id"`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.notion.com"`
	// Version is the Notion-Version header value.
	Version string `mapstructure:"version" default:"2022-06-28"`
	// TimeoutSeconds bounds each individual HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
