package sync

import (
	"fmt"
	"strings"
)

// Destination driver names.
const (
	DestinationNotion   = "notion"
	DestinationDatabase = "database"
)

// Config holds configuration for sync runs.
type Config struct {
	// Destination selects the workspace driver: notion or database.
	Destination string `mapstructure:"destination" default:"notion"`
	// ArchiveReports enables uploading each run's report to the configured
	// storage bucket.
	ArchiveReports bool `mapstructure:"archive_reports" default:"false"`
	// Providers overrides the built-in provider allow-list with a
	// comma-separated list of display names. Empty keeps the built-in list.
	Providers string `mapstructure:"providers"`
}

// ProviderNames splits the configured allow-list override.
func (c Config) ProviderNames() []string {
	if c.Providers == "" {
		return nil
	}
	parts := strings.Split(c.Providers, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Validate checks the destination driver name.
func (c Config) Validate() error {
	switch c.Destination {
	case DestinationNotion, DestinationDatabase:
		return nil
	default:
		return fmt.Errorf("unknown sync destination %q (want %s or %s)",
			c.Destination, DestinationNotion, DestinationDatabase)
	}
}
