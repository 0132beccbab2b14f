// Package watchlist syncs a Letterboxd watchlist into a workspace database:
// it scrapes the list, enriches every film with runtime and the best watch
// option, and reconciles the result against the destination by deleting
// stale rows and inserting fresh ones.
package watchlist
