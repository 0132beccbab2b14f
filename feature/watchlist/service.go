package watchlist

import (
	"context"

	"go.uber.org/zap"

	"watchsync/core/reconcile"
	"watchsync/feature/watchlist/availability"
	"watchsync/feature/watchlist/models"
	syncsvc "watchsync/feature/watchlist/sync"
)

// Service is the feature facade the handler and the CLI talk to.
type Service struct {
	sync      *syncsvc.Service
	providers []availability.Provider
	logger    *zap.Logger
}

// NewService wires the sync pipeline and the provider allow-list.
func NewService(sync *syncsvc.Service, providers []availability.Provider, logger *zap.Logger) *Service {
	return &Service{sync: sync, providers: providers, logger: logger}
}

// Report computes the current delete/keep/add plan without mutating the
// workspace.
func (s *Service) Report(ctx context.Context) (reconcile.Plan[models.MovieRecord], error) {
	return s.sync.Plan(ctx)
}

// Sync runs the pipeline with the given options.
func (s *Service) Sync(ctx context.Context, opts reconcile.Options) (*syncsvc.Report, error) {
	return s.sync.Run(ctx, opts)
}

// Apply executes a plan previously computed by Report, so a caller that
// showed the plan for confirmation mutates exactly what was confirmed.
func (s *Service) Apply(ctx context.Context, plan reconcile.Plan[models.MovieRecord], opts reconcile.Options) (*syncsvc.Report, error) {
	return s.sync.Apply(ctx, plan, opts)
}

// Providers returns the active provider allow-list.
func (s *Service) Providers() []availability.Provider {
	return s.providers
}

// Reports lists the archived sync report names.
func (s *Service) Reports(ctx context.Context) ([]string, error) {
	return s.sync.ListReports(ctx)
}

// ArchivedReport reads one archived sync report back by name.
func (s *Service) ArchivedReport(ctx context.Context, name string) (*syncsvc.Report, error) {
	return s.sync.GetReport(ctx, name)
}
