package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSession builds the canonical two-node graph: a 90s time trigger wired
// to a 1 BTC long on hyperliquid.
func newSession(t *testing.T) (g Graph, rootID, actionID string) {
	t.Helper()

	g, err := Graph{Title: "Alpha"}.SetRoot(VariantTimeTrigger, TimerMetadata{Time: 90}, Position{})
	require.NoError(t, err)
	rootID = g.Nodes[0].ID

	g, err = g.AppendNode(rootID, VariantHyperliquid,
		TradeMetadata{Type: SideLong, Qty: 1, Symbol: AssetBTC}, Position{X: 100})
	require.NoError(t, err)
	actionID = g.Nodes[1].ID

	return g, rootID, actionID
}

func TestSetRoot(t *testing.T) {
	g, err := Graph{}.SetRoot(VariantPriceTrigger, PriceMetadata{Asset: AssetETH, Price: 2500}, Position{X: 10, Y: 20})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, KindTrigger, g.Nodes[0].Data.Kind)
	assert.Equal(t, Position{X: 10, Y: 20}, g.Nodes[0].Position)
	assert.NotEmpty(t, g.Nodes[0].ID)

	_, err = g.SetRoot(VariantTimeTrigger, TimerMetadata{Time: 60}, Position{})
	assert.ErrorIs(t, err, ErrRootAlreadyExists)

	_, err = Graph{}.SetRoot(VariantHyperliquid, TradeMetadata{Type: SideLong, Qty: 1, Symbol: AssetBTC}, Position{})
	assert.ErrorIs(t, err, ErrRootNotTrigger)

	_, err = Graph{}.SetRoot(Variant("bogus"), nil, Position{})
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestAppendNode(t *testing.T) {
	g, rootID, _ := newSession(t)

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, rootID, g.Edges[0].Source)
	assert.Equal(t, g.Nodes[1].ID, g.Edges[0].Target)

	_, err := g.AppendNode("ghost", VariantBackpack,
		TradeMetadata{Type: SideShort, Qty: 1, Symbol: AssetETH}, Position{})
	assert.ErrorIs(t, err, ErrUnknownSource)

	// Triggers only ever enter a graph through SetRoot.
	_, err = g.AppendNode(rootID, VariantTimeTrigger, TimerMetadata{Time: 30}, Position{})
	assert.ErrorIs(t, err, ErrMisplacedTrigger)
}

// Every AppendNode result must resolve all of its edges; the operation can
// never introduce a dangling edge.
func TestAppendNodeNeverDangles(t *testing.T) {
	g, _, actionID := newSession(t)

	for i := 0; i < 5; i++ {
		var err error
		g, err = g.AppendNode(actionID, VariantLighter,
			TradeMetadata{Type: SideLong, Qty: 0.5, Symbol: AssetSOL}, Position{})
		require.NoError(t, err)
		actionID = g.Nodes[len(g.Nodes)-1].ID

		for _, e := range g.Edges {
			_, _, err := g.ResolveEndpoints(e)
			require.NoError(t, err)
		}
	}
}

func TestOperationsLeaveReceiverUnchanged(t *testing.T) {
	g, rootID, actionID := newSession(t)
	before := len(g.Nodes)

	// Failed operation: graph untouched.
	_, err := g.AppendNode("ghost", VariantBackpack,
		TradeMetadata{Type: SideShort, Qty: 1, Symbol: AssetETH}, Position{})
	require.Error(t, err)
	assert.Len(t, g.Nodes, before)

	// Successful operation: receiver still untouched, result is a new value.
	out, err := g.RemoveNode(actionID)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, before)
	assert.Len(t, out.Nodes, before-1)
	_, ok := g.NodeByID(rootID)
	assert.True(t, ok)
}

func TestConnect(t *testing.T) {
	g, rootID, actionID := newSession(t)
	g, err := g.AppendNode(rootID, VariantBackpack,
		TradeMetadata{Type: SideShort, Qty: 2, Symbol: AssetETH}, Position{Y: 100})
	require.NoError(t, err)
	secondID := g.Nodes[2].ID

	out, err := g.Connect(actionID, secondID)
	require.NoError(t, err)
	assert.Len(t, out.Edges, 3)

	_, err = g.Connect("ghost", actionID)
	assert.ErrorIs(t, err, ErrUnknownEndpoint)

	_, err = g.Connect(actionID, "ghost")
	assert.ErrorIs(t, err, ErrUnknownEndpoint)

	_, err = g.Connect(actionID, actionID)
	assert.ErrorIs(t, err, ErrSelfLoop)

	// Closing the chain back on itself is rejected.
	_, err = out.Connect(secondID, actionID)
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestReplaceNode(t *testing.T) {
	g, _, actionID := newSession(t)

	out, err := g.ReplaceNode(actionID, VariantBackpack,
		TradeMetadata{Type: SideShort, Qty: 2, Symbol: AssetETH})
	require.NoError(t, err)

	// Edge cardinality is preserved and no edge references the old id.
	require.Len(t, out.Edges, len(g.Edges))
	newID := out.Nodes[1].ID
	assert.NotEqual(t, actionID, newID)
	for _, e := range out.Edges {
		assert.NotEqual(t, actionID, e.Source)
		assert.NotEqual(t, actionID, e.Target)
	}
	assert.Equal(t, newID, out.Edges[0].Target)

	// Variant, metadata, and position carry per the replacement rules.
	assert.Equal(t, VariantBackpack, out.Nodes[1].Type)
	assert.Equal(t, TradeMetadata{Type: SideShort, Qty: 2, Symbol: AssetETH}, out.Nodes[1].Data.Metadata)
	assert.Equal(t, g.Nodes[1].Position, out.Nodes[1].Position)
	assert.Nil(t, out.Nodes[1].Credentials)

	require.NoError(t, Validate(out))
}

func TestReplaceRoot(t *testing.T) {
	g, rootID, _ := newSession(t)

	// Root may swap to another trigger variant; outgoing edges re-point.
	out, err := g.ReplaceNode(rootID, VariantPriceTrigger, PriceMetadata{Asset: AssetBTC, Price: 100000})
	require.NoError(t, err)
	assert.Equal(t, out.Nodes[0].ID, out.Edges[0].Source)
	assert.NotEqual(t, rootID, out.Nodes[0].ID)
	require.NoError(t, Validate(out))

	// Root may never become an action.
	_, err = g.ReplaceNode(rootID, VariantLighter, TradeMetadata{Type: SideLong, Qty: 1, Symbol: AssetSOL})
	assert.ErrorIs(t, err, ErrInvalidRootReplacement)
}

func TestReplaceNonRootWithTrigger(t *testing.T) {
	g, _, actionID := newSession(t)

	_, err := g.ReplaceNode(actionID, VariantTimeTrigger, TimerMetadata{Time: 30})
	assert.ErrorIs(t, err, ErrMisplacedTrigger)

	_, err = g.ReplaceNode("ghost", VariantBackpack, TradeMetadata{Type: SideLong, Qty: 1, Symbol: AssetBTC})
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRemoveNodeCascades(t *testing.T) {
	g, rootID, actionID := newSession(t)
	g, err := g.AppendNode(actionID, VariantLighter,
		TradeMetadata{Type: SideLong, Qty: 1, Symbol: AssetSOL}, Position{})
	require.NoError(t, err)

	// Removing the middle node takes both of its edges with it.
	out, err := g.RemoveNode(actionID)
	require.NoError(t, err)
	assert.Len(t, out.Nodes, 2)
	assert.Empty(t, out.Edges)
	_, ok := out.NodeByID(rootID)
	assert.True(t, ok)

	_, err = g.RemoveNode("ghost")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRemoveEdge(t *testing.T) {
	g, _, _ := newSession(t)

	out, err := g.RemoveEdge(g.Edges[0].ID)
	require.NoError(t, err)
	assert.Empty(t, out.Edges)

	_, err = g.RemoveEdge("ghost")
	assert.ErrorIs(t, err, ErrEdgeNotFound)
}

func TestPublishable(t *testing.T) {
	g, err := Graph{Title: "Solo"}.SetRoot(VariantTimeTrigger, TimerMetadata{Time: 60}, Position{})
	require.NoError(t, err)

	// A lone trigger validates but can't be published.
	require.NoError(t, Validate(g))
	assert.ErrorIs(t, g.Publishable(), ErrNoActions)

	full, _, _ := newSession(t)
	assert.NoError(t, full.Publishable())

	// Structural errors surface untranslated.
	broken := full
	broken.Edges = append(append([]Edge{}, full.Edges...), Edge{ID: "x", Source: full.Nodes[1].ID, Target: "ghost"})
	assert.ErrorIs(t, broken.Publishable(), ErrDanglingEdge)
}
