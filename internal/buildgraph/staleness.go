package buildgraph

import (
	"time"

	"typeref/internal/fsx"
	"typeref/pkg/domain"
)

// EvaluateStates computes staleness for every node in dependency order.
// Fails only when the graph is cyclic.
func (g *Graph) EvaluateStates(snap *fsx.Snapshot) ([]*Node, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	for _, node := range order {
		upstreams := make([]*Node, 0, len(g.incoming[node.canonicalIndex]))
		for _, i := range g.incoming[node.canonicalIndex] {
			upstreams = append(upstreams, g.nodes[i])
		}
		node.State = evaluateStaleness(snap, node, upstreams)
	}
	return order, nil
}

// evaluateStaleness computes the state of node given its (already
// evaluated) direct upstream dependencies.
//
// UNBUILT: no declared output exists. STALE: some output is missing, or
// older than its source, or older than any upstream output. FRESH
// otherwise. A project with no declared outputs has nothing to build and
// counts as fresh.
func evaluateStaleness(snap *fsx.Snapshot, node *Node, upstreams []*Node) domain.StalenessState {
	outputs := node.Project.Outputs
	if len(outputs) == 0 {
		return domain.StateFresh
	}

	missing := 0
	oldestDecl := time.Time{}
	for _, out := range outputs {
		declTime, ok := snap.ModTime(out.Declaration)
		if !ok {
			missing++
			continue
		}
		if oldestDecl.IsZero() || declTime.Before(oldestDecl) {
			oldestDecl = declTime
		}
		if srcTime, ok := snap.ModTime(out.Source); ok && declTime.Before(srcTime) {
			return domain.StateStale
		}
	}
	if missing == len(outputs) {
		return domain.StateUnbuilt
	}
	if missing > 0 {
		return domain.StateStale
	}

	// Outputs must also be no older than any upstream output: a rebuilt
	// dependency invalidates dependents even when their own sources are
	// untouched.
	for _, up := range upstreams {
		if up.State.NeedsRebuild() {
			return domain.StateStale
		}
		for _, out := range up.Project.Outputs {
			if upTime, ok := snap.ModTime(out.Declaration); ok && oldestDecl.Before(upTime) {
				return domain.StateStale
			}
		}
	}
	return domain.StateFresh
}
