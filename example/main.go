package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	workflow "github.com/singhadityakumar1711/turbo-graph-trade"
	"github.com/singhadityakumar1711/turbo-graph-trade/memory"
)

func main() {
	ctx := context.Background()

	// Wire up the in-memory implementation behind the Store interface.
	var store workflow.Store = memory.New()

	owner, err := store.CreateUser(ctx, "demo", "not-a-real-hash")
	if err != nil {
		log.Fatalf("create user: %v", err)
	}

	// ── Build a graph the way an editing session would ────────────────
	g := workflow.Graph{Title: "DCA into BTC"}

	g, err = g.SetRoot(workflow.VariantTimeTrigger,
		workflow.TimerMetadata{Time: 90}, workflow.Position{})
	if err != nil {
		log.Fatalf("set root: %v", err)
	}
	rootID := g.Nodes[0].ID

	g, err = g.AppendNode(rootID, workflow.VariantHyperliquid,
		workflow.TradeMetadata{Type: workflow.SideLong, Qty: 1, Symbol: workflow.AssetBTC},
		workflow.Position{X: 100})
	if err != nil {
		log.Fatalf("append node: %v", err)
	}
	fmt.Println("graph built:")
	printJSON(g)

	// ── Swap the action for a different venue ─────────────────────────
	actionID := g.Nodes[1].ID
	g, err = g.ReplaceNode(actionID, workflow.VariantBackpack,
		workflow.TradeMetadata{Type: workflow.SideShort, Qty: 2, Symbol: workflow.AssetETH})
	if err != nil {
		log.Fatalf("replace node: %v", err)
	}
	fmt.Printf("\naction replaced: %s -> %s\n", actionID, g.Edges[0].Target)

	// ── Publish ───────────────────────────────────────────────────────
	if err := g.Publishable(); err != nil {
		log.Fatalf("validate: %v", err)
	}

	id, err := store.CreateWorkflow(ctx, owner.ID, &g)
	if err != nil {
		log.Fatalf("create workflow: %v", err)
	}
	fmt.Printf("\npublished workflow: %s\n", id)

	// A second publish under the same title is rejected by the store.
	if _, err := store.CreateWorkflow(ctx, owner.ID, &g); err != nil {
		fmt.Printf("republish rejected: %v\n", err)
	}

	// ── Hydrate and list ──────────────────────────────────────────────
	stored, err := store.GetWorkflow(ctx, owner.ID, id)
	if err != nil {
		log.Fatalf("get workflow: %v", err)
	}
	fmt.Println("\nworkflow retrieved:")
	printJSON(stored)

	all, err := store.ListWorkflows(ctx, owner.ID)
	if err != nil {
		log.Fatalf("list workflows: %v", err)
	}
	fmt.Printf("\nworkflows owned (%d)\n", len(all))
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
