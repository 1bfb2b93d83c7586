package domain

// StalenessState is the computed build state of one project node.
//
// It is mutated only by the validator during topological traversal; the
// descriptor itself stays immutable.
type StalenessState string

const (
	// StateUnbuilt means no declared output exists yet.
	StateUnbuilt StalenessState = "UNBUILT"
	// StateStale means outputs exist but at least one is missing or older
	// than its inputs or an upstream output.
	StateStale StalenessState = "STALE"
	// StateFresh means every declared output exists and is up to date.
	StateFresh StalenessState = "FRESH"
)

// NeedsRebuild reports whether a node in this state must be rebuilt before
// dependents may consume its source files.
func (s StalenessState) NeedsRebuild() bool { return s != StateFresh }
