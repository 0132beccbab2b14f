package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"watchsync/core/config"
	"watchsync/core/logger"
	"watchsync/core/reconcile"
	syncsvc "watchsync/feature/watchlist/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	applySync  bool
	dryRunSync bool
	yesConfirm bool
)

// syncCmd runs one reconciliation of the watchlist against the workspace.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the workspace against the Letterboxd watchlist",
	Long: `Fetch the watchlist, enrich every film, and diff the result against the
configured workspace destination.

Without flags only the plan is reported. Deletions and insertions run with
--apply after an interactive confirmation.

Examples:
  # Report only
  watchsync sync

  # Apply the plan (with interactive confirmation)
  watchsync sync --apply

  # Apply with auto-confirm (non-interactive)
  watchsync sync --apply --yes

  # Compute and time the whole run without mutating
  watchsync sync --apply --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&applySync, "apply", false, "Execute the plan (delete stale rows, insert fresh ones)")
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting watchlist sync", zap.String("destination", cfg.Sync.Destination))

	service, err := buildService(cfg, l)
	if err != nil {
		return err
	}

	// Step 1: Plan (always runs)
	plan, err := service.Report(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan sync: %w", err)
	}
	printPlanReport(l, plan.Summary)

	if !applySync {
		l.Info("No actions requested. Use --apply to execute the plan.")
		return nil
	}

	if plan.Summary.Deleted == 0 && plan.Summary.Added == 0 {
		l.Info("Workspace is already in sync.")
		return nil
	}

	opts := reconcile.Options{DryRun: dryRunSync}
	if !dryRunSync {
		if !confirmDestructiveAction(plan.Summary.Deleted) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		opts.Confirmed = true
	}

	// Step 2: Apply the plan the user just confirmed. The plan is not
	// recomputed, so the mutations match the counts shown above even if the
	// watchlist changed in the meantime.
	report, err := service.Apply(ctx, plan, opts)
	if err != nil {
		return fmt.Errorf("failed to apply sync: %w", err)
	}

	if report.DryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	printRunReport(l, report)
	return nil
}

// printPlanReport prints the plan partition counts using the logger.
func printPlanReport(l *zap.Logger, s reconcile.Summary) {
	l.Info("Sync plan",
		zap.Int("existing", s.Existing),
		zap.Int("fresh", s.Fresh),
		zap.Int("delete", s.Deleted),
		zap.Int("keep", s.Kept),
		zap.Int("add", s.Added),
		zap.Int("duplicates_collapsed", s.DuplicatesCollapsed),
	)
}

// printRunReport prints the executed run's outcome and step timings.
func printRunReport(l *zap.Logger, report *syncsvc.Report) {
	l.Info("Sync finished",
		zap.Int("deleted", report.Summary.Deleted),
		zap.Int("added", report.Summary.Added),
		zap.Int("executed", report.Executed),
	)
	for _, step := range report.Steps {
		l.Info("Step timing",
			zap.String("step", step.Step),
			zap.Duration("duration", step.Duration),
		)
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(deletions int) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  This will delete %d workspace rows. Type 'yes' to confirm: ", deletions)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
