package cmd

import (
	"fmt"

	"watchsync/core/config"
	"watchsync/core/database"
	"watchsync/core/storage"
	"watchsync/feature/watchlist"
	"watchsync/feature/watchlist/availability"
	"watchsync/feature/watchlist/dbstore"
	"watchsync/feature/watchlist/letterboxd"
	"watchsync/feature/watchlist/notion"
	syncsvc "watchsync/feature/watchlist/sync"

	"go.uber.org/zap"
)

// buildService wires the whole sync pipeline from configuration: list
// source, provider allow-list, the selected workspace driver and the
// optional report archiver.
func buildService(cfg *config.Config, logg *zap.Logger) (*watchlist.Service, error) {
	if err := cfg.Sync.Validate(); err != nil {
		return nil, err
	}

	providers := availability.DefaultProviders()
	if names := cfg.Sync.ProviderNames(); len(names) > 0 {
		providers = availability.ProvidersFromNames(names)
	}

	source := watchlist.NewSource(
		letterboxd.New(cfg.Letterboxd, logg),
		availability.NewResolver(providers),
		logg,
	)

	var workspace syncsvc.Workspace
	switch cfg.Sync.Destination {
	case syncsvc.DestinationNotion:
		workspace = notion.New(cfg.Notion, logg)
	case syncsvc.DestinationDatabase:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect destination database: %w", err)
		}
		workspace, err = dbstore.New(db, logg)
		if err != nil {
			return nil, err
		}
	}

	var archiver *syncsvc.Archiver
	if cfg.Sync.ArchiveReports {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		archiver = syncsvc.NewArchiver(client, cfg.Storage.Bucket, logg)
	}

	pipeline := syncsvc.NewService(source, workspace, cfg.Sync.Destination, archiver, logg)
	return watchlist.NewService(pipeline, providers, logg), nil
}
