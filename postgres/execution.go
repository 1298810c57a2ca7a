package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	workflow "github.com/singhadityakumar1711/turbo-graph-trade"
)

// RecordExecution stores one run record for a workflow.
// If exec.ID is empty, a UUID is auto-generated.
func (s *PGStore) RecordExecution(ctx context.Context, exec *workflow.Execution) (string, error) {
	if exec.ID == "" {
		exec.ID = uuid.NewString()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO executions (id, workflow_id, status, start_time, end_time) VALUES ($1, $2, $3, $4, $5)`,
		exec.ID, exec.WorkflowID, exec.Status, exec.StartTime, exec.EndTime,
	)
	if err != nil {
		return "", fmt.Errorf("workflow: insert execution: %w", err)
	}

	return exec.ID, nil
}

// ListExecutions returns the run log for a workflow, newest first. The
// workflow must belong to ownerID; otherwise workflow.ErrWorkflowNotFound,
// same as for an id that doesn't exist.
func (s *PGStore) ListExecutions(ctx context.Context, ownerID, workflowID string) ([]workflow.Execution, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM workflows WHERE id = $1 AND owner_id = $2)`,
		workflowID, ownerID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("workflow: check workflow: %w", err)
	}
	if !exists {
		return nil, workflow.ErrWorkflowNotFound
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, workflow_id, status, start_time, end_time FROM executions
		 WHERE workflow_id = $1 ORDER BY start_time DESC`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("workflow: list executions: %w", err)
	}
	defer rows.Close()

	execs := []workflow.Execution{}
	for rows.Next() {
		var e workflow.Execution
		if err := rows.Scan(&e.ID, &e.WorkflowID, &e.Status, &e.StartTime, &e.EndTime); err != nil {
			return nil, fmt.Errorf("workflow: scan execution: %w", err)
		}
		execs = append(execs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow: rows executions: %w", err)
	}

	return execs, nil
}
