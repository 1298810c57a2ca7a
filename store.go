package workflow

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNodeNotFound     = errors.New("workflow: node not found")
	ErrEdgeNotFound     = errors.New("workflow: edge not found")
	ErrWorkflowNotFound = errors.New("workflow: workflow not found")
	ErrDuplicateTitle   = errors.New("workflow: a workflow with this title already exists for the owner")
	ErrUsernameTaken    = errors.New("workflow: username already exists")
	ErrUserNotFound     = errors.New("workflow: user not found")
)

// User is an account workflows are scoped to. PasswordHash never leaves
// the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExecutionStatus is the lifecycle state of one workflow run.
type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "RUNNING"
	ExecutionSucceeded ExecutionStatus = "SUCCEEDED"
	ExecutionFailed    ExecutionStatus = "FAILED"
)

// Execution is the record an executor writes for one run of a workflow.
// The executor itself lives outside this module; the store only keeps its
// results.
type Execution struct {
	ID         string          `json:"id"`
	WorkflowID string          `json:"workflow_id"`
	Status     ExecutionStatus `json:"status"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    *time.Time      `json:"end_time,omitempty"`
}

// Store defines the contract for persisting users, workflows, and
// execution records.
//
// Every workflow read and write is scoped to an owner id; a lookup under
// the wrong owner reports ErrWorkflowNotFound, indistinguishable from a
// nonexistent id. Per-owner title uniqueness is the store's job: the
// duplicate check and the insert must be atomic (a storage-level unique
// constraint, not a read-then-write), because the service in front of this
// interface is stateless and may be replicated.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// Workflows
	CreateWorkflow(ctx context.Context, ownerID string, g *Graph) (string, error)
	UpdateWorkflow(ctx context.Context, ownerID, workflowID string, g *Graph) error
	GetWorkflow(ctx context.Context, ownerID, workflowID string) (*Graph, error)
	ListWorkflows(ctx context.Context, ownerID string) ([]Graph, error)

	// Executions
	RecordExecution(ctx context.Context, exec *Execution) (string, error)
	ListExecutions(ctx context.Context, ownerID, workflowID string) ([]Execution, error)
}
