package contextgraph

import (
	"sort"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
)

// NodeID indexes a node inside its owning graph's arena. Ids are local to
// one subject's graph and never outlive it.
type NodeID int64

// NodeKind discriminates raw observations from derived features.
type NodeKind int

const (
	KindObservation NodeKind = iota
	KindDerived
)

// Node is one time-indexed entry of a subject's context. Derived nodes keep
// id back-references to the observations they were computed from; the
// references are bookkeeping, never ownership edges.
type Node struct {
	ID      NodeID
	Kind    NodeKind
	Time    core.RelTime
	Name    core.FeatureName
	Value   measure.Value
	Sources []NodeID // derived nodes only
}

// Graph is the mutable per-subject context: an arena of observation and
// derived nodes indexed by feature name. Out-of-order ingestion is allowed;
// queries always return time-ordered results. One graph belongs to one
// subject and is not safe for concurrent mutation.
type Graph struct {
	subject core.SubjectID
	nodes   []Node
	byName  map[core.FeatureName][]NodeID
}

// New creates an empty context graph for one subject.
func New(subject core.SubjectID) *Graph {
	return &Graph{
		subject: subject,
		byName:  make(map[core.FeatureName][]NodeID),
	}
}

// Subject returns the owning subject id.
func (g *Graph) Subject() core.SubjectID { return g.subject }

// Len returns the node count.
func (g *Graph) Len() int { return len(g.nodes) }

// Node looks a node up by id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// AddObservation appends a raw observation. Inserting at a relative time
// before the current maximum is permitted.
func (g *Graph) AddObservation(t core.RelTime, feature core.FeatureName, v measure.Value) NodeID {
	return g.insert(Node{Kind: KindObservation, Time: t, Name: feature, Value: v})
}

// AddDerived appends a derived feature computed from existing nodes. Every
// source id must already be present, otherwise the node is rejected with
// ErrDanglingSourceReference and the graph is left untouched.
func (g *Graph) AddDerived(t core.RelTime, name core.FeatureName, v measure.Value, sources []NodeID) (NodeID, error) {
	for _, s := range sources {
		if s < 0 || int(s) >= len(g.nodes) {
			return 0, core.NewDanglingSourceError(name.String(), int64(s))
		}
	}
	srcs := make([]NodeID, len(sources))
	copy(srcs, sources)
	return g.insert(Node{Kind: KindDerived, Time: t, Name: name, Value: v, Sources: srcs}), nil
}

func (g *Graph) insert(n Node) NodeID {
	n.ID = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.byName[n.Name] = append(g.byName[n.Name], n.ID)
	return n.ID
}

// Names returns every feature or derived name present, ascending.
func (g *Graph) Names() []core.FeatureName {
	out := make([]core.FeatureName, 0, len(g.byName))
	for n := range g.byName {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Query returns a finite, restartable cursor over the named nodes inside the
// window, ordered by relative time ascending (insertion order breaks time
// ties).
func (g *Graph) Query(name core.FeatureName, w core.Window) *Cursor {
	var ids []NodeID
	for _, id := range g.byName[name] {
		if w.Contains(g.nodes[id].Time) {
			ids = append(ids, id)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := g.nodes[ids[i]], g.nodes[ids[j]]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return ids[i] < ids[j]
	})
	return &Cursor{graph: g, ids: ids}
}

// At returns a read-only view restricted to nodes at or before t, the input
// contract for causaloid predicates and guard rules.
func (g *Graph) At(t core.RelTime) *View {
	return &View{graph: g, at: t}
}

// Cursor iterates a query result. Finite and restartable.
type Cursor struct {
	graph *Graph
	ids   []NodeID
	pos   int
}

// Next returns the next node in time order, false when exhausted.
func (c *Cursor) Next() (Node, bool) {
	if c.pos >= len(c.ids) {
		return Node{}, false
	}
	n := c.graph.nodes[c.ids[c.pos]]
	c.pos++
	return n, true
}

// Reset rewinds the cursor to the first node.
func (c *Cursor) Reset() { c.pos = 0 }

// Len returns the number of nodes the cursor will yield.
func (c *Cursor) Len() int { return len(c.ids) }
