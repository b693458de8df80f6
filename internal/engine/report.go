package engine

import (
	"maps"
	"slices"
)

// ValidationReport is the outcome of validating one commit.
type ValidationReport struct {
	SyncViolations []SyncViolation

	// Collisions maps a guid to every entry claiming it: new entries first,
	// then registry rows.
	Collisions map[string][]MetaEntry

	// Mutations maps a registered guid to the updated file that no longer carries it.
	Mutations map[string]MetaEntry

	Passed bool
}

// Aggregate combines checker outputs. Passed is true iff all three are empty.
func Aggregate(syncViolations []SyncViolation, collisions map[string][]MetaEntry, mutations map[string]MetaEntry) *ValidationReport {
	if collisions == nil {
		collisions = map[string][]MetaEntry{}
	}
	if mutations == nil {
		mutations = map[string]MetaEntry{}
	}
	return &ValidationReport{
		SyncViolations: syncViolations,
		Collisions:     collisions,
		Mutations:      mutations,
		Passed:         len(syncViolations) == 0 && len(collisions) == 0 && len(mutations) == 0,
	}
}

// CollisionGUIDs returns the colliding guids in sorted order.
func (r *ValidationReport) CollisionGUIDs() []string {
	return slices.Sorted(maps.Keys(r.Collisions))
}

// MutationGUIDs returns the original guids of mutated files in sorted order.
func (r *ValidationReport) MutationGUIDs() []string {
	return slices.Sorted(maps.Keys(r.Mutations))
}

// ViolationsOf filters sync violations by kind, keeping order.
func (r *ValidationReport) ViolationsOf(kind SyncViolationKind) []SyncViolation {
	var out []SyncViolation
	for _, v := range r.SyncViolations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}
