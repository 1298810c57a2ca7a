package workflow

import (
	"errors"
	"fmt"
)

// Structural graph errors. Handed back untranslated by the editing
// operations and by Validate; never forwarded to a store.
var (
	ErrRootAlreadyExists      = errors.New("workflow: graph already has a root node")
	ErrUnknownSource          = errors.New("workflow: source node not found")
	ErrUnknownEndpoint        = errors.New("workflow: endpoint node not found")
	ErrSelfLoop               = errors.New("workflow: edge connects a node to itself")
	ErrDanglingEdge           = errors.New("workflow: edge references a missing node")
	ErrInvalidRootReplacement = errors.New("workflow: root node must remain a trigger")
	ErrCycleDetected          = errors.New("workflow: cycle detected, graph is not acyclic")
	ErrUnknownVariant         = errors.New("workflow: unknown node variant")
	ErrNoNodes                = errors.New("workflow: graph has no nodes")
	ErrNoRoot                 = errors.New("workflow: graph has no root node")
	ErrDetachedNode           = errors.New("workflow: node has no incoming edge but is not the root")
	ErrRootNotTrigger         = errors.New("workflow: root node must be a trigger")
	ErrMisplacedTrigger       = errors.New("workflow: only the root node may be a trigger")
	ErrDuplicateNodeID        = errors.New("workflow: duplicate node id")
	ErrDuplicateEdgeID        = errors.New("workflow: duplicate edge id")
	ErrNoActions              = errors.New("workflow: graph needs at least one action")
)

// Validate checks the graph's structural invariants and reports the first
// violation, always in the same order: root shape, trigger placement, edge
// resolution, id uniqueness, acyclicity. Deterministic ordering keeps error
// reporting stable for the editor.
func Validate(g Graph) error {
	if len(g.Nodes) == 0 {
		return ErrNoNodes
	}

	incoming := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		incoming[n.ID] = 0
	}
	for _, e := range g.Edges {
		if _, ok := incoming[e.Target]; ok {
			incoming[e.Target]++
		}
	}

	var root *Node
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if incoming[n.ID] != 0 {
			continue
		}
		if root != nil {
			return fmt.Errorf("%w: %s", ErrDetachedNode, n.ID)
		}
		root = n
	}
	if root == nil {
		return ErrNoRoot
	}
	if root.Data.Kind != KindTrigger {
		return fmt.Errorf("%w: root %s is %s", ErrRootNotTrigger, root.ID, root.Data.Kind)
	}

	for _, n := range g.Nodes {
		desc, ok := Lookup(n.Type)
		if !ok {
			return fmt.Errorf("%w: node %s has variant %q", ErrUnknownVariant, n.ID, n.Type)
		}
		if n.Data.Kind != desc.Kind {
			return fmt.Errorf("workflow: node %s declares kind %s, variant %q is %s",
				n.ID, n.Data.Kind, n.Type, desc.Kind)
		}
		if n.ID != root.ID && n.Data.Kind == KindTrigger {
			return fmt.Errorf("%w: %s", ErrMisplacedTrigger, n.ID)
		}
	}

	for _, e := range g.Edges {
		if _, _, err := g.ResolveEndpoints(e); err != nil {
			return err
		}
	}

	seenNodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seenNodes[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		seenNodes[n.ID] = true
	}
	seenEdges := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if seenEdges[e.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateEdgeID, e.ID)
		}
		seenEdges[e.ID] = true
	}

	return validateAcyclic(g.Nodes, g.Edges)
}

// ResolveEndpoints looks up both endpoints of an edge within the graph.
// A missing endpoint fails with ErrDanglingEdge naming the absent id.
func (g Graph) ResolveEndpoints(e Edge) (Node, Node, error) {
	src, ok := g.NodeByID(e.Source)
	if !ok {
		return Node{}, Node{}, fmt.Errorf("%w: edge %s source %s", ErrDanglingEdge, e.ID, e.Source)
	}
	tgt, ok := g.NodeByID(e.Target)
	if !ok {
		return Node{}, Node{}, fmt.Errorf("%w: edge %s target %s", ErrDanglingEdge, e.ID, e.Target)
	}
	return src, tgt, nil
}

// validateAcyclic checks that the edges don't form a cycle using DFS.
func validateAcyclic(nodes []Node, edges []Edge) error {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int)
	for _, n := range nodes {
		state[n.ID] = unvisited
	}
	// Also include nodes referenced only in edges.
	for _, e := range edges {
		if _, ok := state[e.Source]; !ok {
			state[e.Source] = unvisited
		}
		if _, ok := state[e.Target]; !ok {
			state[e.Target] = unvisited
		}
	}

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		state[id] = visited
		return false
	}

	for id, s := range state {
		if s == unvisited {
			if dfs(id) {
				return ErrCycleDetected
			}
		}
	}

	return nil
}
