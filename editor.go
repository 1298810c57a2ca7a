package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// Editing operations for one in-memory graph during a session.
//
// Every operation is a pure function of the receiver: it either returns a
// fully consistent new graph or the receiver unchanged alongside an error.
// Nothing here touches storage; callers hold the current graph value
// themselves and thread it through each call.

// SetRoot places the first node of an empty graph. The variant must be a
// trigger: the root is always the chain's unique starting point.
func (g Graph) SetRoot(v Variant, md Metadata, pos Position) (Graph, error) {
	if len(g.Nodes) != 0 {
		return g, ErrRootAlreadyExists
	}
	desc, ok := Lookup(v)
	if !ok {
		return g, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	if desc.Kind != KindTrigger {
		return g, fmt.Errorf("%w: %q is an action", ErrRootNotTrigger, v)
	}

	out := g.clone()
	out.Nodes = append(out.Nodes, Node{
		ID:       uuid.NewString(),
		Type:     v,
		Data:     NodeData{Kind: KindTrigger, Metadata: md},
		Position: pos,
	})
	return out, nil
}

// AppendNode creates a new action node and the edge connecting it to
// sourceID in one step, so an edge can never appear before both of its
// endpoints exist.
func (g Graph) AppendNode(sourceID string, v Variant, md Metadata, pos Position) (Graph, error) {
	if _, ok := g.NodeByID(sourceID); !ok {
		return g, fmt.Errorf("%w: %s", ErrUnknownSource, sourceID)
	}
	desc, ok := Lookup(v)
	if !ok {
		return g, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	if desc.Kind != KindAction {
		return g, fmt.Errorf("%w: %q", ErrMisplacedTrigger, v)
	}

	out := g.clone()
	node := Node{
		ID:       uuid.NewString(),
		Type:     v,
		Data:     NodeData{Kind: KindAction, Metadata: md},
		Position: pos,
	}
	out.Nodes = append(out.Nodes, node)
	out.Edges = append(out.Edges, Edge{
		ID:     uuid.NewString(),
		Source: sourceID,
		Target: node.ID,
	})
	return out, nil
}

// Connect draws an edge between two existing nodes. Self loops are
// rejected, and so is any connection that would close a cycle: a workflow
// chain only ever runs forward from its trigger.
func (g Graph) Connect(sourceID, targetID string) (Graph, error) {
	if _, ok := g.NodeByID(sourceID); !ok {
		return g, fmt.Errorf("%w: %s", ErrUnknownEndpoint, sourceID)
	}
	if _, ok := g.NodeByID(targetID); !ok {
		return g, fmt.Errorf("%w: %s", ErrUnknownEndpoint, targetID)
	}
	if sourceID == targetID {
		return g, fmt.Errorf("%w: %s", ErrSelfLoop, sourceID)
	}

	edge := Edge{ID: uuid.NewString(), Source: sourceID, Target: targetID}
	if err := validateAcyclic(g.Nodes, append(append([]Edge{}, g.Edges...), edge)); err != nil {
		return g, err
	}

	out := g.clone()
	out.Edges = append(out.Edges, edge)
	return out, nil
}

// ReplaceNode swaps a node's variant and metadata, issuing it a fresh id.
// Every edge naming the old id as source or target is re-pointed at the new
// id in the same step; edge count never changes. Replacing the root with an
// action is illegal, as is turning a non-root node into a trigger.
func (g Graph) ReplaceNode(nodeID string, v Variant, md Metadata) (Graph, error) {
	old, ok := g.NodeByID(nodeID)
	if !ok {
		return g, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	desc, ok := Lookup(v)
	if !ok {
		return g, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}

	isRoot := true
	for _, e := range g.Edges {
		if e.Target == nodeID {
			isRoot = false
			break
		}
	}
	if isRoot && desc.Kind != KindTrigger {
		return g, fmt.Errorf("%w: %s", ErrInvalidRootReplacement, nodeID)
	}
	if !isRoot && desc.Kind == KindTrigger {
		return g, fmt.Errorf("%w: %s", ErrMisplacedTrigger, nodeID)
	}

	newID := uuid.NewString()
	out := g.clone()
	for i := range out.Nodes {
		if out.Nodes[i].ID != nodeID {
			continue
		}
		out.Nodes[i] = Node{
			ID:       newID,
			Type:     v,
			Data:     NodeData{Kind: desc.Kind, Metadata: md},
			Position: old.Position,
			// Credentials are bound to the old node's identity; the
			// replacement starts without any.
		}
	}
	for i := range out.Edges {
		if out.Edges[i].Source == nodeID {
			out.Edges[i].Source = newID
		}
		if out.Edges[i].Target == nodeID {
			out.Edges[i].Target = newID
		}
	}
	return out, nil
}

// RemoveNode deletes a node and every edge naming it as an endpoint, so no
// edge is ever left dangling.
func (g Graph) RemoveNode(nodeID string) (Graph, error) {
	if _, ok := g.NodeByID(nodeID); !ok {
		return g, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}

	out := g.clone()
	nodes := out.Nodes[:0]
	for _, n := range out.Nodes {
		if n.ID != nodeID {
			nodes = append(nodes, n)
		}
	}
	out.Nodes = nodes

	edges := out.Edges[:0]
	for _, e := range out.Edges {
		if e.Source != nodeID && e.Target != nodeID {
			edges = append(edges, e)
		}
	}
	out.Edges = edges
	return out, nil
}

// RemoveEdge deletes a single edge.
func (g Graph) RemoveEdge(edgeID string) (Graph, error) {
	if _, ok := g.EdgeByID(edgeID); !ok {
		return g, fmt.Errorf("%w: %s", ErrEdgeNotFound, edgeID)
	}

	out := g.clone()
	edges := out.Edges[:0]
	for _, e := range out.Edges {
		if e.ID != edgeID {
			edges = append(edges, e)
		}
	}
	out.Edges = edges
	return out, nil
}

// Publishable is the gate between the editor and the store: it runs the
// full structural validation and additionally requires at least one action,
// since a lone trigger does nothing when fired. The underlying error is
// returned untranslated.
func (g Graph) Publishable() error {
	if err := Validate(g); err != nil {
		return err
	}
	if len(g.Edges) == 0 {
		return ErrNoActions
	}
	return nil
}
