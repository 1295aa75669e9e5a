// Package graph builds the technology prerequisite graph.
//
// Nodes live in an arena and refer to each other by NodeID, so the graph may
// hold any shape (including cycles from malformed mods) without shared
// ownership. A prerequisite that names no known technology becomes a
// dangling node: it has a name but no data.
package graph

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"stellaris-techtree/internal/technology"
)

// ErrNodeNotFound is returned when a lookup names no node.
var ErrNodeNotFound = errors.New("node not found")

// NodeID addresses a node inside its Tree.
type NodeID int

// Node is one technology, or one referenced-but-undefined technology.
type Node struct {
	ID   NodeID
	Name string
	// Data is nil for dangling nodes.
	Data *technology.Technology
	// Predecessors are the prerequisites of this node.
	Predecessors []NodeID
	// Successors are the nodes unlocked by this node.
	Successors []NodeID
}

// Dangling reports whether the node has no technology behind it.
func (n *Node) Dangling() bool { return n.Data == nil }

// Tree is the prerequisite graph. StartTech and Dangling list the
// distinguished entry points, sorted by name.
type Tree struct {
	nodes     []Node
	index     map[string]NodeID
	StartTech []NodeID
	Dangling  []NodeID
}

// Build creates one node per technology and links every prerequisite.
// Technologies are processed in id order so the resulting graph does not
// depend on map iteration order.
func Build(techs map[string]*technology.Technology) *Tree {
	t := &Tree{
		nodes: make([]Node, 0, len(techs)),
		index: make(map[string]NodeID, len(techs)),
	}

	ids := make([]string, 0, len(techs))
	for id := range techs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		t.add(id, techs[id])
	}
	// Only technology nodes carry prerequisites; dangling nodes appended
	// while linking have none, which ends the walk.
	for _, id := range ids {
		t.link(t.index[id])
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		if n.Dangling() {
			t.Dangling = append(t.Dangling, n.ID)
		} else if n.Data.StartTech {
			t.StartTech = append(t.StartTech, n.ID)
		}
	}
	t.sortByName(t.Dangling)
	t.sortByName(t.StartTech)
	return t
}

func (t *Tree) add(name string, data *technology.Technology) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{ID: id, Name: name, Data: data})
	t.index[name] = id
	return id
}

func (t *Tree) link(id NodeID) {
	data := t.nodes[id].Data
	if data == nil {
		return
	}
	for _, prereq := range data.Prerequisites {
		prev, ok := t.index[prereq]
		if !ok {
			prev = t.add(prereq, nil)
			t.link(prev)
		}
		if slices.Contains(t.nodes[id].Predecessors, prev) {
			continue
		}
		t.nodes[prev].Successors = append(t.nodes[prev].Successors, id)
		t.nodes[id].Predecessors = append(t.nodes[id].Predecessors, prev)
	}
}

func (t *Tree) sortByName(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool {
		return t.nodes[ids[i]].Name < t.nodes[ids[j]].Name
	})
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Lookup returns the node named name.
func (t *Tree) Lookup(name string) (*Node, bool) {
	id, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.nodes[id], true
}

// MustLookup is Lookup returning ErrNodeNotFound.
func (t *Tree) MustLookup(name string) (*Node, error) {
	n, ok := t.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, name)
	}
	return n, nil
}

// Nodes returns every node sorted by name.
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, len(t.nodes))
	for i := range t.nodes {
		nodes[i] = &t.nodes[i]
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes
}

// Names resolves ids to node names.
func (t *Tree) Names(ids []NodeID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = t.nodes[id].Name
	}
	return names
}

// Roots returns the nodes without predecessors, sorted by name.
func (t *Tree) Roots() []NodeID {
	var roots []NodeID
	for i := range t.nodes {
		if len(t.nodes[i].Predecessors) == 0 {
			roots = append(roots, t.nodes[i].ID)
		}
	}
	t.sortByName(roots)
	return roots
}
