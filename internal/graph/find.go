package graph

import "stellaris-techtree/internal/technology"

// Find walks successors depth-first from root and returns the first node
// accepted by match. Each node is visited once, so cycles terminate.
func (t *Tree) Find(root NodeID, match func(*Node) bool) (*Node, bool) {
	visited := make(map[NodeID]bool)
	stack := []NodeID{root}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		n := &t.nodes[id]
		if match(n) {
			return n, true
		}
		// Push in reverse so the first successor is explored first.
		for i := len(n.Successors) - 1; i >= 0; i-- {
			if next := n.Successors[i]; !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return nil, false
}

// FindTechnology finds the node holding tech (compared by id) reachable
// from root.
func (t *Tree) FindTechnology(root NodeID, tech *technology.Technology) (*Node, bool) {
	return t.Find(root, func(n *Node) bool {
		return n.Data != nil && n.Data.Equal(tech)
	})
}

// FindByID finds the node named id reachable from root.
func (t *Tree) FindByID(root NodeID, id string) (*Node, bool) {
	return t.Find(root, func(n *Node) bool { return n.Name == id })
}

// Ancestors returns every transitive prerequisite of the named node in
// breadth-first order, nearest first.
func (t *Tree) Ancestors(name string) ([]NodeID, error) {
	start, err := t.MustLookup(name)
	if err != nil {
		return nil, err
	}

	visited := map[NodeID]bool{start.ID: true}
	queue := append([]NodeID(nil), start.Predecessors...)
	var out []NodeID

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		out = append(out, id)
		queue = append(queue, t.nodes[id].Predecessors...)
	}
	return out, nil
}
