package workflow

import (
	"encoding/json"
	"fmt"
)

// Kind says which semantic role a node plays. A node is exactly one of the
// two, never both.
type Kind string

const (
	KindTrigger Kind = "TRIGGER"
	KindAction  Kind = "ACTION"
)

// Variant identifies a node's concrete type within the closed catalog set.
type Variant string

const (
	VariantTimeTrigger  Variant = "time-trigger"
	VariantPriceTrigger Variant = "price-trigger"
	VariantHyperliquid  Variant = "hyperliquid"
	VariantBackpack     Variant = "backpack"
	VariantLighter      Variant = "lighter"
)

// Position is the node's editor coordinate. Presentational only, nothing
// validates it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData pairs a node's kind with its variant-specific metadata.
type NodeData struct {
	Kind     Kind     `json:"kind"`
	Metadata Metadata `json:"metadata"`
}

// Node is a vertex of a workflow graph.
type Node struct {
	ID          string          `json:"id"`
	Type        Variant         `json:"type"`
	Data        NodeData        `json:"data"`
	Position    Position        `json:"position"`
	Credentials json.RawMessage `json:"credentials"`
}

// nodeWire mirrors Node with raw metadata so UnmarshalJSON can route the
// payload through the catalog decoder.
type nodeWire struct {
	ID   string  `json:"id"`
	Type Variant `json:"type"`
	Data struct {
		Kind     Kind            `json:"kind"`
		Metadata json.RawMessage `json:"metadata"`
	} `json:"data"`
	Position    Position        `json:"position"`
	Credentials json.RawMessage `json:"credentials"`
}

// UnmarshalJSON decodes the metadata payload according to the node's variant.
// The declared kind must agree with the catalog entry for the variant.
func (n *Node) UnmarshalJSON(b []byte) error {
	var w nodeWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	desc, ok := Lookup(w.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariant, w.Type)
	}
	if w.Data.Kind != desc.Kind {
		return fmt.Errorf("workflow: node %s declares kind %s, variant %q is %s",
			w.ID, w.Data.Kind, w.Type, desc.Kind)
	}

	md, err := DecodeMetadata(w.Type, w.Data.Metadata)
	if err != nil {
		return err
	}

	n.ID = w.ID
	n.Type = w.Type
	n.Data = NodeData{Kind: desc.Kind, Metadata: md}
	n.Position = w.Position
	n.Credentials = w.Credentials
	return nil
}

// Edge is a directed connection between two nodes of the same graph.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is one workflow: a trigger root plus the actions reachable from it.
// ID is empty until the store assigns one on first create. OwnerID is
// derived from the caller's token and never serialized.
type Graph struct {
	ID      string `json:"id,omitempty"`
	OwnerID string `json:"-"`
	Title   string `json:"title"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

// NodeByID returns the node with the given id, or false if no such node.
func (g Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// EdgeByID returns the edge with the given id, or false if no such edge.
func (g Graph) EdgeByID(id string) (Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// clone copies the graph deeply enough that mutating the copy's node and
// edge slices never touches the receiver's.
func (g Graph) clone() Graph {
	out := g
	out.Nodes = make([]Node, len(g.Nodes))
	copy(out.Nodes, g.Nodes)
	out.Edges = make([]Edge, len(g.Edges))
	copy(out.Edges, g.Edges)
	return out
}
