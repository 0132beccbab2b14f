package reconcile

import "context"

// Plan contains the partitioned outcome of a reconciliation.
// Delete, Keep and Add are pairwise disjoint: every existing record lands in
// exactly one of Delete/Keep, every fresh record in exactly one of Keep/Add.
type Plan[T any] struct {
	// Delete holds records present in the destination but absent from the
	// fresh collection.
	Delete []T `json:"delete"`

	// Keep holds records present in both collections. No action is taken for them.
	Keep []T `json:"keep"`

	// Add holds fresh records absent from the destination.
	Add []T `json:"add"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a reconcile plan.
type Summary struct {
	// Existing is the number of records read from the destination.
	Existing int `json:"existing"`

	// Fresh is the number of distinct fresh records after duplicate collapsing.
	Fresh int `json:"fresh"`

	// Deleted, Kept and Added count the three partitions.
	Deleted int `json:"deleted"`
	Kept    int `json:"kept"`
	Added   int `json:"added"`

	// DuplicatesCollapsed counts fresh records dropped because an earlier
	// record produced the same identity key.
	DuplicatesCollapsed int `json:"duplicates_collapsed"`
}

// Options controls whether a plan's actions are executed.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the user has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}

// Destination abstracts the store the plan is applied against.
// Implementations must reject deletions of records that lack their
// destination-assigned identifier; Apply treats such errors as fatal.
type Destination[T any] interface {
	// Delete removes a record from the destination.
	Delete(ctx context.Context, record T) error
	// Insert adds a record to the destination.
	Insert(ctx context.Context, record T) error
}
