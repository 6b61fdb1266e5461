package domain

import (
	"encoding/binary"
	"iter"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Node is an account registered in the social graph.
type Node struct {
	ID    AccountID
	Label string
}

// Edge is an undirected connection between two accounts.
// A and B are stored normalized so that A sorts before B.
type Edge struct {
	A AccountID
	B AccountID
}

// NewEdge returns the normalized edge between a and b.
func NewEdge(a, b AccountID) Edge {
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// SocialGraph is a simple undirected graph of accounts.
// It is safe for concurrent use; structural writes are serialized.
type SocialGraph struct {
	mu        sync.RWMutex
	root      AccountID
	labels    map[AccountID]string
	adjacency map[AccountID]map[AccountID]struct{}
	edges     int
}

// NewSocialGraph creates a new empty SocialGraph.
func NewSocialGraph() *SocialGraph {
	return &SocialGraph{
		labels:    make(map[AccountID]string),
		adjacency: make(map[AccountID]map[AccountID]struct{}),
	}
}

// SetRoot registers the crawled account as a node and remembers it as the root.
func (g *SocialGraph) SetRoot(id AccountID, label string) error {
	if err := g.AddNode(id, label); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.root = id
	return nil
}

// Root returns the root account, or the zero AccountID if none was set.
func (g *SocialGraph) Root() AccountID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.root
}

// AddNode registers an account. Adding an existing account only replaces its label.
// An empty label falls back to the identifier.
func (g *SocialGraph) AddNode(id AccountID, label string) error {
	if id.IsZero() {
		return ErrEmptyAccountID
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNodeLocked(id, label)
	return nil
}

// AddEdge connects a and b. Both must already be nodes.
// It reports whether a new edge was created; adding an existing edge is a no-op.
func (g *SocialGraph) AddEdge(a, b AccountID) (bool, error) {
	if a == b {
		return false, zerr.With(ErrSelfLoop, "account", a.String())
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addEdgeLocked(a, b)
}

// Attach registers id with label and connects it to the existing node to,
// as one atomic step. Readers never observe the node without its edge.
func (g *SocialGraph) Attach(id AccountID, label string, to AccountID) (bool, error) {
	if id.IsZero() {
		return false, ErrEmptyAccountID
	}
	if id == to {
		return false, zerr.With(ErrSelfLoop, "account", id.String())
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.adjacency[to]; !ok {
		return false, zerr.With(ErrNodeNotFound, "account", to.String())
	}
	g.addNodeLocked(id, label)
	return g.addEdgeLocked(id, to)
}

func (g *SocialGraph) addNodeLocked(id AccountID, label string) {
	if label == "" {
		label = id.String()
	}
	g.labels[id] = label
	if _, ok := g.adjacency[id]; !ok {
		g.adjacency[id] = make(map[AccountID]struct{})
	}
}

func (g *SocialGraph) addEdgeLocked(a, b AccountID) (bool, error) {
	for _, id := range [...]AccountID{a, b} {
		if _, ok := g.adjacency[id]; !ok {
			return false, zerr.With(ErrNodeNotFound, "account", id.String())
		}
	}

	if _, ok := g.adjacency[a][b]; ok {
		return false, nil
	}
	g.adjacency[a][b] = struct{}{}
	g.adjacency[b][a] = struct{}{}
	g.edges++
	return true, nil
}

// HasNode reports whether id is registered.
func (g *SocialGraph) HasNode(id AccountID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adjacency[id]
	return ok
}

// HasEdge reports whether a and b are connected.
func (g *SocialGraph) HasEdge(a, b AccountID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adjacency[a][b]
	return ok
}

// Label returns the display label of id.
func (g *SocialGraph) Label(id AccountID) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	label, ok := g.labels[id]
	return label, ok
}

// Degree returns the number of distinct edges incident to id.
// Unknown accounts have degree zero.
func (g *SocialGraph) Degree(id AccountID) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.adjacency[id])
}

// NodeCount returns the number of nodes.
func (g *SocialGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.adjacency)
}

// EdgeCount returns the number of edges.
func (g *SocialGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges
}

// Nodes returns an iterator over a snapshot of the nodes, sorted by identifier.
func (g *SocialGraph) Nodes() iter.Seq[Node] {
	nodes := g.snapshotNodes()
	return slices.Values(nodes)
}

// Edges returns an iterator over a snapshot of the edges, sorted by endpoints.
func (g *SocialGraph) Edges() iter.Seq[Edge] {
	edges := g.snapshotEdges()
	return slices.Values(edges)
}

// Neighbors returns the sorted neighbors of id.
func (g *SocialGraph) Neighbors(id AccountID) []AccountID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]AccountID, 0, len(g.adjacency[id]))
	for n := range g.adjacency[id] {
		out = append(out, n)
	}
	slices.SortFunc(out, AccountID.Compare)
	return out
}

// Fingerprint returns a digest of the node set, labels and edge set.
// Two graphs built from the same inputs in any insertion order share a fingerprint.
func (g *SocialGraph) Fingerprint() uint64 {
	digest := xxhash.New()
	var sep [8]byte

	for _, n := range g.snapshotNodes() {
		_, _ = digest.WriteString(n.ID.String())
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(n.Label)
		_, _ = digest.Write([]byte{0})
	}

	edges := g.snapshotEdges()
	binary.LittleEndian.PutUint64(sep[:], uint64(len(edges)))
	_, _ = digest.Write(sep[:])

	for _, e := range edges {
		_, _ = digest.WriteString(e.A.String())
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(e.B.String())
		_, _ = digest.Write([]byte{0})
	}
	return digest.Sum64()
}

func (g *SocialGraph) snapshotNodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]Node, 0, len(g.labels))
	for id, label := range g.labels {
		nodes = append(nodes, Node{ID: id, Label: label})
	}
	slices.SortFunc(nodes, func(x, y Node) int { return x.ID.Compare(y.ID) })
	return nodes
}

func (g *SocialGraph) snapshotEdges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]Edge, 0, g.edges)
	for a, neighbors := range g.adjacency {
		for b := range neighbors {
			// Each undirected edge is stored twice; keep the normalized half.
			if a.Compare(b) < 0 {
				edges = append(edges, Edge{A: a, B: b})
			}
		}
	}
	slices.SortFunc(edges, func(x, y Edge) int {
		if c := x.A.Compare(y.A); c != 0 {
			return c
		}
		return x.B.Compare(y.B)
	})
	return edges
}
