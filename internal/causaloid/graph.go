package causaloid

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/KeSeaman/deep-causality/domain/core"
)

// Graph is a validated directed acyclic graph of causaloids. Built once at
// configuration time, immutable afterward, and shared read-only across every
// subject's evaluation without synchronization.
type Graph struct {
	causaloids map[core.CausaloidID]Causaloid
	parents    map[core.CausaloidID][]core.CausaloidID
	edges      []Edge
	order      []core.CausaloidID // deterministic topological order
}

// NewGraph validates the causaloid set and its edges: every edge endpoint
// must exist and the dependency structure must be acyclic, otherwise
// construction fails and no evaluation may proceed.
func NewGraph(causaloids []Causaloid, edges []Edge) (*Graph, error) {
	g := &Graph{
		causaloids: make(map[core.CausaloidID]Causaloid, len(causaloids)),
		parents:    make(map[core.CausaloidID][]core.CausaloidID),
	}

	for _, c := range causaloids {
		if _, dup := g.causaloids[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateCausaloid, c.ID)
		}
		g.causaloids[c.ID] = c
	}

	// DependsOn entries are shorthand for causal edges.
	all := make([]Edge, 0, len(edges))
	for _, c := range causaloids {
		for _, dep := range c.DependsOn {
			all = append(all, Edge{From: dep, To: c.ID, Kind: EdgeCausal})
		}
	}
	all = append(all, edges...)

	for _, e := range all {
		if _, ok := g.causaloids[e.From]; !ok {
			return nil, core.NewUnknownCausaloidError(e.From.String())
		}
		if _, ok := g.causaloids[e.To]; !ok {
			return nil, core.NewUnknownCausaloidError(e.To.String())
		}
		if e.From == e.To {
			return nil, fmt.Errorf("%w: self edge on %s", core.ErrCyclicCausaloidGraph, e.From)
		}
		g.parents[e.To] = append(g.parents[e.To], e.From)
		g.edges = append(g.edges, e)
	}

	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	g.order = g.topoOrder()
	return g, nil
}

// checkAcyclic runs cycle detection over the dependency structure.
func (g *Graph) checkAcyclic() error {
	ids := g.sortedIDs()
	index := make(map[core.CausaloidID]int64, len(ids))
	dg := simple.NewDirectedGraph()
	for i, id := range ids {
		index[id] = int64(i)
		dg.AddNode(simple.Node(int64(i)))
	}
	for _, e := range g.edges {
		dg.SetEdge(simple.Edge{F: simple.Node(index[e.From]), T: simple.Node(index[e.To])})
	}
	if _, err := topo.Sort(dg); err != nil {
		return fmt.Errorf("%w: %v", core.ErrCyclicCausaloidGraph, err)
	}
	return nil
}

// topoOrder computes the unique deterministic topological order: Kahn's
// algorithm with the ready set kept sorted by causaloid id ascending.
// Only called on graphs already proven acyclic.
func (g *Graph) topoOrder() []core.CausaloidID {
	indegree := make(map[core.CausaloidID]int, len(g.causaloids))
	children := make(map[core.CausaloidID][]core.CausaloidID)
	for id := range g.causaloids {
		indegree[id] = 0
	}
	for _, e := range g.edges {
		indegree[e.To]++
		children[e.From] = append(children[e.From], e.To)
	}

	var ready []core.CausaloidID
	for _, id := range g.sortedIDs() {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]core.CausaloidID, 0, len(g.causaloids))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, child := range children[id] {
			indegree[child]--
			if indegree[child] == 0 {
				ready = insertSorted(ready, child)
			}
		}
	}
	return order
}

func insertSorted(ids []core.CausaloidID, id core.CausaloidID) []core.CausaloidID {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func (g *Graph) sortedIDs() []core.CausaloidID {
	ids := make([]core.CausaloidID, 0, len(g.causaloids))
	for id := range g.causaloids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the causaloid count.
func (g *Graph) Len() int { return len(g.causaloids) }

// Order returns the evaluation order.
func (g *Graph) Order() []core.CausaloidID {
	out := make([]core.CausaloidID, len(g.order))
	copy(out, g.order)
	return out
}

// Causaloid looks a definition up by id.
func (g *Graph) Causaloid(id core.CausaloidID) (Causaloid, bool) {
	c, ok := g.causaloids[id]
	return c, ok
}
