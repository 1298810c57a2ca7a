package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	workflow "github.com/singhadityakumar1711/turbo-graph-trade"
)

// CreateWorkflow stores a new workflow under ownerID and returns the
// assigned id. The (owner_id, title) constraint turns a duplicate title
// into workflow.ErrDuplicateTitle atomically with the insert.
func (s *PGStore) CreateWorkflow(ctx context.Context, ownerID string, g *workflow.Graph) (string, error) {
	nodes, edges, err := marshalGraph(g)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.Exec(ctx,
		`INSERT INTO workflows (id, owner_id, title, nodes, edges) VALUES ($1, $2, $3, $4, $5)`,
		id, ownerID, g.Title, nodes, edges,
	)
	if err != nil {
		if isUniqueViolation(err, "workflows_owner_title_key") {
			return "", workflow.ErrDuplicateTitle
		}
		return "", fmt.Errorf("workflow: insert workflow: %w", err)
	}

	return id, nil
}

// UpdateWorkflow replaces the stored title, nodes, and edges wholesale.
// The WHERE clause scopes the write to the owner, so an id owned by
// someone else reports workflow.ErrWorkflowNotFound exactly like a
// nonexistent id.
func (s *PGStore) UpdateWorkflow(ctx context.Context, ownerID, workflowID string, g *workflow.Graph) error {
	nodes, edges, err := marshalGraph(g)
	if err != nil {
		return err
	}

	ct, err := s.db.Exec(ctx,
		`UPDATE workflows SET title = $1, nodes = $2, edges = $3, updated_at = NOW()
		 WHERE id = $4 AND owner_id = $5`,
		g.Title, nodes, edges, workflowID, ownerID,
	)
	if err != nil {
		if isUniqueViolation(err, "workflows_owner_title_key") {
			return workflow.ErrDuplicateTitle
		}
		return fmt.Errorf("workflow: update workflow: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return workflow.ErrWorkflowNotFound
	}
	return nil
}

// GetWorkflow fetches one workflow scoped to ownerID.
func (s *PGStore) GetWorkflow(ctx context.Context, ownerID, workflowID string) (*workflow.Graph, error) {
	var (
		g            workflow.Graph
		nodes, edges []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, title, nodes, edges FROM workflows WHERE id = $1 AND owner_id = $2`,
		workflowID, ownerID,
	).Scan(&g.ID, &g.OwnerID, &g.Title, &nodes, &edges)

	if err != nil {
		if isNoRows(err) {
			return nil, workflow.ErrWorkflowNotFound
		}
		return nil, fmt.Errorf("workflow: get workflow: %w", err)
	}

	if err := unmarshalGraph(&g, nodes, edges); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListWorkflows returns every workflow owned by ownerID, ordered by
// creation time. Returns an empty slice (not nil) if none found.
func (s *PGStore) ListWorkflows(ctx context.Context, ownerID string) ([]workflow.Graph, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, owner_id, title, nodes, edges FROM workflows WHERE owner_id = $1 ORDER BY created_at`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("workflow: list workflows: %w", err)
	}
	defer rows.Close()

	graphs := []workflow.Graph{}
	for rows.Next() {
		var (
			g            workflow.Graph
			nodes, edges []byte
		)
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Title, &nodes, &edges); err != nil {
			return nil, fmt.Errorf("workflow: scan workflow: %w", err)
		}
		if err := unmarshalGraph(&g, nodes, edges); err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow: rows workflows: %w", err)
	}

	return graphs, nil
}

func marshalGraph(g *workflow.Graph) (nodes, edges []byte, err error) {
	nodes, err = json.Marshal(g.Nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("workflow: marshal nodes: %w", err)
	}
	edges, err = json.Marshal(g.Edges)
	if err != nil {
		return nil, nil, fmt.Errorf("workflow: marshal edges: %w", err)
	}
	return nodes, edges, nil
}

func unmarshalGraph(g *workflow.Graph, nodes, edges []byte) error {
	if err := json.Unmarshal(nodes, &g.Nodes); err != nil {
		return fmt.Errorf("workflow: unmarshal nodes: %w", err)
	}
	if err := json.Unmarshal(edges, &g.Edges); err != nil {
		return fmt.Errorf("workflow: unmarshal edges: %w", err)
	}
	return nil
}
