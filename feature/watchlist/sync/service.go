// Package sync orchestrates a reconciliation run: fetch the fresh watchlist,
// read the workspace back, partition, and apply deletions then insertions.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"watchsync/core/reconcile"
	"watchsync/feature/watchlist/models"
)

// Source produces the fresh, fully enriched watchlist records.
type Source interface {
	Fetch(ctx context.Context) ([]models.MovieRecord, error)
}

// Workspace is a destination that can also be read back, so the current
// state can be diffed against the fresh collection.
type Workspace interface {
	ListMovies(ctx context.Context) ([]models.MovieRecord, error)
	reconcile.Destination[models.MovieRecord]
}

// Service runs the sync pipeline against one source/workspace pair.
type Service struct {
	source      Source
	workspace   Workspace
	archiver    *Archiver
	destination string
	log         *zap.Logger
}

// NewService wires a sync service. destination is the driver name recorded
// in reports; archiver may be nil to disable report archiving.
func NewService(source Source, workspace Workspace, destination string, archiver *Archiver, log *zap.Logger) *Service {
	return &Service{
		source:      source,
		workspace:   workspace,
		archiver:    archiver,
		destination: destination,
		log:         log,
	}
}

// Plan computes the delete/keep/add partition without mutating anything.
func (s *Service) Plan(ctx context.Context) (reconcile.Plan[models.MovieRecord], error) {
	fresh, err := s.source.Fetch(ctx)
	if err != nil {
		return reconcile.Plan[models.MovieRecord]{}, fmt.Errorf("fetch fresh records: %w", err)
	}
	existing, err := s.workspace.ListMovies(ctx)
	if err != nil {
		return reconcile.Plan[models.MovieRecord]{}, fmt.Errorf("list existing records: %w", err)
	}
	return reconcile.BuildPlan(existing, fresh, models.MovieRecord.IdentityKey), nil
}

// Run executes one sync: plan, verify the destructive phase's precondition,
// apply, and report. With opts.DryRun or without opts.Confirmed the plan is
// computed and reported but nothing is mutated.
func (s *Service) Run(ctx context.Context, opts reconcile.Options) (*Report, error) {
	report := s.newReport(opts)

	var fresh, existing []models.MovieRecord
	err := s.step(report, "fetch_fresh", func() error {
		var err error
		fresh, err = s.source.Fetch(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch fresh records: %w", err)
	}

	err = s.step(report, "list_existing", func() error {
		var err error
		existing, err = s.workspace.ListMovies(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list existing records: %w", err)
	}

	plan := reconcile.BuildPlan(existing, fresh, models.MovieRecord.IdentityKey)
	return s.apply(ctx, report, plan, opts)
}

// Apply executes an already computed plan without recomputing it, so the
// mutations issued are exactly the ones the caller reviewed and confirmed.
func (s *Service) Apply(ctx context.Context, plan reconcile.Plan[models.MovieRecord], opts reconcile.Options) (*Report, error) {
	return s.apply(ctx, s.newReport(opts), plan, opts)
}

func (s *Service) newReport(opts reconcile.Options) *Report {
	return &Report{
		StartedAt:   time.Now(),
		Destination: s.destination,
		DryRun:      opts.DryRun || !opts.Confirmed,
	}
}

func (s *Service) apply(ctx context.Context, report *Report, plan reconcile.Plan[models.MovieRecord], opts reconcile.Options) (*Report, error) {
	report.Summary = plan.Summary

	// Every record slated for deletion must carry its workspace id before
	// the destructive phase starts.
	if err := validateDeletions(plan); err != nil {
		return nil, err
	}

	err := s.step(report, "apply", func() error {
		executed, err := reconcile.Apply[models.MovieRecord](ctx, s.workspace, plan, opts)
		report.Executed = executed
		return err
	})
	if err != nil {
		return report, err
	}

	s.log.Info("sync run finished",
		zap.String("destination", s.destination),
		zap.Bool("dry_run", report.DryRun),
		zap.Int("deleted", plan.Summary.Deleted),
		zap.Int("kept", plan.Summary.Kept),
		zap.Int("added", plan.Summary.Added),
		zap.Int("duplicates_collapsed", plan.Summary.DuplicatesCollapsed),
		zap.Int("executed", report.Executed))

	if s.archiver != nil && !report.DryRun {
		// Archiving is best effort; the sync itself already succeeded.
		if err := s.archiver.Archive(ctx, report); err != nil {
			s.log.Warn("failed to archive sync report", zap.Error(err))
		}
	}

	return report, nil
}

// ErrArchivingDisabled is returned by the report accessors when the service
// was built without an archiver.
var ErrArchivingDisabled = errors.New("report archiving is disabled")

// ListReports lists the archived report names.
func (s *Service) ListReports(ctx context.Context) ([]string, error) {
	if s.archiver == nil {
		return nil, ErrArchivingDisabled
	}
	return s.archiver.ListReports(ctx)
}

// GetReport reads one archived report back.
func (s *Service) GetReport(ctx context.Context, name string) (*Report, error) {
	if s.archiver == nil {
		return nil, ErrArchivingDisabled
	}
	return s.archiver.GetReport(ctx, name)
}

// step times one phase and appends it to the report.
func (s *Service) step(report *Report, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	report.Steps = append(report.Steps, StepTiming{Step: name, Duration: elapsed})
	s.log.Debug("sync step finished",
		zap.String("step", name),
		zap.Duration("duration", elapsed),
		zap.Error(err))
	return err
}

// validateDeletions enforces the destructive-phase precondition: a record
// cannot be deleted without the workspace-assigned id it was read back with.
func validateDeletions(plan reconcile.Plan[models.MovieRecord]) error {
	for _, record := range plan.Delete {
		if record.WorkspaceID == "" {
			return fmt.Errorf("precondition failed: record %q slated for deletion has no workspace id", record.Title)
		}
	}
	return nil
}
