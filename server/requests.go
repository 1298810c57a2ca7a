package main

import (
	workflow "github.com/singhadityakumar1711/turbo-graph-trade"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type signinRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createWorkflowRequest struct {
	Title string          `json:"title" validate:"required"`
	Nodes []workflow.Node `json:"nodes" validate:"required,min=1"`
	Edges []workflow.Edge `json:"edges"`
}

// updateWorkflowRequest carries both titles because the client edits a
// hydrated copy: prevTitle is what it loaded, newTitle what it saved. The
// store's unique constraint makes the rename check atomic either way, so
// prevTitle is informational.
type updateWorkflowRequest struct {
	PrevTitle string          `json:"prevTitle" validate:"required"`
	NewTitle  string          `json:"newTitle" validate:"required"`
	Nodes     []workflow.Node `json:"nodes" validate:"required,min=1"`
	Edges     []workflow.Edge `json:"edges"`
}
