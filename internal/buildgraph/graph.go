// Package buildgraph builds the project reference graph, orders it
// topologically, evaluates per-node staleness and emits a build plan or a
// complete diagnostic list.
package buildgraph

import (
	"container/heap"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"typeref/internal/config"
	"typeref/internal/fsx"
	"typeref/pkg/domain"
)

// Node wraps one project descriptor plus its computed staleness state.
// State is mutated only by the validator during topological traversal.
type Node struct {
	Project *domain.ProjectDescriptor
	State   domain.StalenessState

	canonicalIndex int
}

// Graph is the deduplicated project reference graph. Projects are indexed
// by absolute config path, so a dependency referenced from multiple
// parents appears exactly once (diamond shapes are legal and cheap).
type Graph struct {
	byPath map[string]*Node
	nodes  []*Node // canonical order: sorted by config path

	outgoing [][]int // dependency -> dependents
	incoming [][]int // dependent -> dependencies
	indeg    []int
}

// Build loads the root config and every transitively referenced config,
// deduplicating by absolute path, and wires the dependency edges.
func Build(snap *fsx.Snapshot, rootConfigPath string) (*Graph, error) {
	byPath := make(map[string]*Node)
	var load func(path string) (*Node, error)
	load = func(path string) (*Node, error) {
		desc, err := config.Load(snap, path)
		if err != nil {
			return nil, err
		}
		if n, ok := byPath[desc.ConfigPath]; ok {
			return n, nil
		}
		n := &Node{Project: desc, State: domain.StateUnbuilt}
		byPath[desc.ConfigPath] = n
		for _, ref := range desc.References {
			if _, err := load(ref); err != nil {
				return nil, fmt.Errorf("reference of %s: %w", desc.ConfigPath, err)
			}
		}
		return n, nil
	}
	if _, err := load(rootConfigPath); err != nil {
		return nil, err
	}

	// Canonicalize: sort by config path so ordering never depends on
	// reference declaration order.
	nodes := make([]*Node, 0, len(byPath))
	for _, n := range byPath {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Project.ConfigPath < nodes[j].Project.ConfigPath
	})
	for i, n := range nodes {
		n.canonicalIndex = i
	}

	g := &Graph{
		byPath:   byPath,
		nodes:    nodes,
		outgoing: make([][]int, len(nodes)),
		incoming: make([][]int, len(nodes)),
		indeg:    make([]int, len(nodes)),
	}
	for _, n := range nodes {
		for _, ref := range n.Project.References {
			dep, ok := byPath[ref]
			if !ok {
				// A reference may name the project directory rather than
				// its config file.
				dep = byPath[filepath.Join(ref, config.DefaultFileName)]
			}
			if dep == nil {
				continue
			}
			g.outgoing[dep.canonicalIndex] = append(g.outgoing[dep.canonicalIndex], n.canonicalIndex)
			g.incoming[n.canonicalIndex] = append(g.incoming[n.canonicalIndex], dep.canonicalIndex)
			g.indeg[n.canonicalIndex]++
		}
	}
	for i := range g.outgoing {
		sort.Ints(g.outgoing[i])
		sort.Ints(g.incoming[i])
	}
	return g, nil
}

// Nodes returns the nodes in canonical order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node returns the node for an absolute config path.
func (g *Graph) Node(configPath string) (*Node, bool) {
	n, ok := g.byPath[configPath]
	return n, ok
}

// Edges returns (dependency, dependent) config path pairs in canonical order.
func (g *Graph) Edges() [][2]string {
	var out [][2]string
	for from, tos := range g.outgoing {
		for _, to := range tos {
			out = append(out, [2]string{
				g.nodes[from].Project.ConfigPath,
				g.nodes[to].Project.ConfigPath,
			})
		}
	}
	return out
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopologicalOrder returns the nodes in deterministic dependency order.
//
// Determinism: the ready queue is a min-heap over canonical indices. If a
// cycle exists, one stable witness path is extracted for the error.
func (g *Graph) TopologicalOrder() ([]*Node, error) {
	indeg := make([]int, len(g.indeg))
	copy(indeg, g.indeg)

	ready := &intMinHeap{}
	heap.Init(ready)
	for i := range indeg {
		if indeg[i] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]*Node, 0, len(indeg))
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		out = append(out, g.nodes[i])
		for _, m := range g.outgoing[i] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	if len(out) != len(g.nodes) {
		witness := g.findCycle()
		return nil, fmt.Errorf("%w: %s", domain.ErrCyclicReference, strings.Join(witness, " -> "))
	}
	return out, nil
}

// findCycle runs a deterministic DFS over canonical indices and extracts
// one cycle path by project name. It returns a single stable witness, not
// every cycle.
func (g *Graph) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(g.nodes))
	parent := make([]int, len(g.nodes))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int
	var visit func(u int) bool
	visit = func(u int) bool {
		color[u] = gray
		for _, v := range g.outgoing[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if visit(v) {
					return true
				}
			case gray:
				cycle = []int{v}
				for w := u; w != v && w != -1; w = parent[w] {
					cycle = append(cycle, w)
				}
				cycle = append(cycle, v)
				// Path was collected backwards.
				for l, r := 0, len(cycle)-1; l < r; l, r = l+1, r-1 {
					cycle[l], cycle[r] = cycle[r], cycle[l]
				}
				return true
			}
		}
		color[u] = black
		return false
	}
	for i := range g.nodes {
		if color[i] == white && visit(i) {
			break
		}
	}

	names := make([]string, 0, len(cycle))
	for _, i := range cycle {
		names = append(names, g.nodes[i].Project.Name())
	}
	return names
}
