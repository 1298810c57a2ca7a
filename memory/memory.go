// Package memory provides an in-memory workflow.Store for tests and local
// development. Per-owner title uniqueness is enforced under the store's
// lock, mirroring the unique constraint the postgres store relies on.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	workflow "github.com/singhadityakumar1711/turbo-graph-trade"
)

// Store implements workflow.Store with maps guarded by one RWMutex.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*workflow.User // userID -> user
	usernameIdx map[string]string         // username -> userID
	workflows   map[string]*record        // workflowID -> record
	titleIdx    map[string]string         // ownerID + "\x00" + title -> workflowID
	executions  map[string][]workflow.Execution
}

type record struct {
	ownerID string
	graph   workflow.Graph
}

var _ workflow.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.users = make(map[string]*workflow.User)
	s.usernameIdx = make(map[string]string)
	s.workflows = make(map[string]*record)
	s.titleIdx = make(map[string]string)
	s.executions = make(map[string][]workflow.Execution)
}

func titleKey(ownerID, title string) string {
	return ownerID + "\x00" + title
}

// CreateSchema is a no-op for the in-memory store.
func (s *Store) CreateSchema(ctx context.Context) error { return nil }

// DropSchema discards all stored data.
func (s *Store) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// CreateUser registers a new account with a unique username.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*workflow.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernameIdx[username]; exists {
		return nil, workflow.ErrUsernameTaken
	}

	u := &workflow.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	s.usernameIdx[username] = u.ID

	out := *u
	return &out, nil
}

// GetUserByUsername fetches an account by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*workflow.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernameIdx[username]
	if !ok {
		return nil, workflow.ErrUserNotFound
	}
	out := *s.users[id]
	return &out, nil
}

// CreateWorkflow stores a new workflow and returns the assigned id. The
// title index check and the insert happen under one lock, the in-memory
// equivalent of the postgres unique constraint.
func (s *Store) CreateWorkflow(ctx context.Context, ownerID string, g *workflow.Graph) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := titleKey(ownerID, g.Title)
	if _, exists := s.titleIdx[key]; exists {
		return "", workflow.ErrDuplicateTitle
	}

	id := uuid.NewString()
	stored := cloneGraph(g)
	stored.ID = id
	stored.OwnerID = ownerID
	s.workflows[id] = &record{ownerID: ownerID, graph: stored}
	s.titleIdx[key] = id
	return id, nil
}

// UpdateWorkflow replaces the stored title, nodes, and edges wholesale.
// An id owned by someone else reports workflow.ErrWorkflowNotFound.
func (s *Store) UpdateWorkflow(ctx context.Context, ownerID, workflowID string, g *workflow.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.workflows[workflowID]
	if !ok || rec.ownerID != ownerID {
		return workflow.ErrWorkflowNotFound
	}

	key := titleKey(ownerID, g.Title)
	if other, exists := s.titleIdx[key]; exists && other != workflowID {
		return workflow.ErrDuplicateTitle
	}

	delete(s.titleIdx, titleKey(ownerID, rec.graph.Title))
	stored := cloneGraph(g)
	stored.ID = workflowID
	stored.OwnerID = ownerID
	rec.graph = stored
	s.titleIdx[key] = workflowID
	return nil
}

// GetWorkflow fetches one workflow scoped to ownerID.
func (s *Store) GetWorkflow(ctx context.Context, ownerID, workflowID string) (*workflow.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.workflows[workflowID]
	if !ok || rec.ownerID != ownerID {
		return nil, workflow.ErrWorkflowNotFound
	}
	out := cloneGraph(&rec.graph)
	return &out, nil
}

// ListWorkflows returns every workflow owned by ownerID.
func (s *Store) ListWorkflows(ctx context.Context, ownerID string) ([]workflow.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graphs := []workflow.Graph{}
	for _, rec := range s.workflows {
		if rec.ownerID == ownerID {
			graphs = append(graphs, cloneGraph(&rec.graph))
		}
	}
	return graphs, nil
}

// RecordExecution stores one run record for a workflow.
func (s *Store) RecordExecution(ctx context.Context, exec *workflow.Execution) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exec.ID == "" {
		exec.ID = uuid.NewString()
	}
	s.executions[exec.WorkflowID] = append(s.executions[exec.WorkflowID], *exec)
	return exec.ID, nil
}

// ListExecutions returns the run log for a workflow owned by ownerID.
func (s *Store) ListExecutions(ctx context.Context, ownerID, workflowID string) ([]workflow.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.workflows[workflowID]
	if !ok || rec.ownerID != ownerID {
		return nil, workflow.ErrWorkflowNotFound
	}

	execs := make([]workflow.Execution, len(s.executions[workflowID]))
	copy(execs, s.executions[workflowID])
	return execs, nil
}

func cloneGraph(g *workflow.Graph) workflow.Graph {
	out := *g
	out.Nodes = make([]workflow.Node, len(g.Nodes))
	copy(out.Nodes, g.Nodes)
	out.Edges = make([]workflow.Edge, len(g.Edges))
	copy(out.Edges, g.Edges)
	return out
}
