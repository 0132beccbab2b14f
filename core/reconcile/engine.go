package reconcile

import "sort"

// BuildPlan computes the delete/keep/add partition between the records already
// persisted in the destination and a freshly fetched collection.
//
// Both collections are keyed by the caller-supplied identity function, which
// must derive its key from record content only (never from a
// destination-assigned identifier), so a destination row and a fresh record
// describing the same entity collapse onto the same key.
//
// Fresh duplicates collapse first-wins: when two fresh records share a key the
// first one scanned is kept and later ones are counted in
// Summary.DuplicatesCollapsed. Partitions are sorted by identity key for
// deterministic output.
func BuildPlan[T any](existing, fresh []T, key func(T) string) Plan[T] {
	freshIndex := make(map[string]T, len(fresh))
	freshOrder := make([]string, 0, len(fresh))

	var collapsed int
	for _, record := range fresh {
		k := key(record)
		if _, seen := freshIndex[k]; seen {
			collapsed++
			continue
		}
		freshIndex[k] = record
		freshOrder = append(freshOrder, k)
	}

	existingIndex := make(map[string]struct{}, len(existing))

	plan := Plan[T]{
		Delete: []T{},
		Keep:   []T{},
		Add:    []T{},
	}

	// Existing records split into delete (gone from fresh) and keep.
	// The destination copy is kept for the Keep partition so callers retain
	// the destination-assigned identifier.
	for _, record := range existing {
		k := key(record)
		existingIndex[k] = struct{}{}
		if _, ok := freshIndex[k]; ok {
			plan.Keep = append(plan.Keep, record)
		} else {
			plan.Delete = append(plan.Delete, record)
		}
	}

	// Fresh records not present in the destination become insertions.
	for _, k := range freshOrder {
		if _, ok := existingIndex[k]; !ok {
			plan.Add = append(plan.Add, freshIndex[k])
		}
	}

	sortByKey(plan.Delete, key)
	sortByKey(plan.Keep, key)
	sortByKey(plan.Add, key)

	plan.Summary = Summary{
		Existing:            len(existing),
		Fresh:               len(freshIndex),
		Deleted:             len(plan.Delete),
		Kept:                len(plan.Keep),
		Added:               len(plan.Add),
		DuplicatesCollapsed: collapsed,
	}

	return plan
}

// sortByKey orders records by identity key for deterministic output.
func sortByKey[T any](records []T, key func(T) string) {
	sort.SliceStable(records, func(i, j int) bool {
		return key(records[i]) < key(records[j])
	})
}
