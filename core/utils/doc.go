// Package utils provides common utility functions for the watchlist sync service.
// It includes helper functions for runtime formatting, title normalization, and
// other shared logic that doesn't fit into domain-specific packages.
package utils
