package reconcile

import (
	"context"
	"fmt"
)

// Apply executes a plan against the destination.
// Returns the number of mutations executed and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
//
// Deletions run before insertions so the destination never transiently holds
// both the stale and the fresh representation of the same title. An error in
// either phase aborts that phase immediately; mutations already issued are
// not rolled back (the next run converges).
func Apply[T any](ctx context.Context, dest Destination[T], plan Plan[T], opts Options) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	for _, record := range plan.Delete {
		if err := dest.Delete(ctx, record); err != nil {
			return executed, fmt.Errorf("delete phase aborted: %w", err)
		}
		executed++
	}

	for _, record := range plan.Add {
		if err := dest.Insert(ctx, record); err != nil {
			return executed, fmt.Errorf("insert phase aborted: %w", err)
		}
		executed++
	}

	return executed, nil
}
