// Package reconcile provides a generic engine for reconciling a freshly
// fetched collection of records against the set already persisted in a
// destination store.
//
// # Architecture
//
// The engine consists of two parts:
//
//  1. BuildPlan: pure set algebra. Both collections are indexed by a
//     caller-supplied content-identity key, then partitioned into three
//     disjoint groups: Delete (stale destination records), Keep (unchanged)
//     and Add (new records to insert).
//
//  2. Apply: drives the mutations against a Destination implementation.
//     Deletions are issued before insertions, and nothing executes unless the
//     caller confirmed the plan and dry-run is off.
//
// # Identity
//
// The key function defines what "the same record" means. It must be computed
// from record content only; destination-assigned identifiers are excluded so
// that a row read back from the destination compares equal to a freshly
// built record for the same entity.
//
// # Usage Example
//
//	plan := reconcile.BuildPlan(existing, fresh, models.MovieRecord.IdentityKey)
//	executed, err := reconcile.Apply(ctx, repo, plan, reconcile.Options{Confirmed: true})
package reconcile
