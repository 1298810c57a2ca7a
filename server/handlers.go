package main

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	workflow "github.com/singhadityakumar1711/turbo-graph-trade"
	"github.com/singhadityakumar1711/turbo-graph-trade/auth"
)

type api struct {
	store    workflow.Store
	auth     *auth.Manager
	validate *validator.Validate
	log      *slog.Logger
}

func newAPI(store workflow.Store, am *auth.Manager, log *slog.Logger) *api {
	return &api{
		store:    store,
		auth:     am,
		validate: validator.New(),
		log:      log,
	}
}

// router builds the fiber app with all routes registered.
func (a *api) router() *fiber.App {
	app := fiber.New()

	app.Post("/signup", a.signup)
	app.Post("/signin", a.signin)

	protected := app.Group("", a.requireAuth)
	protected.Post("/workflow", a.createWorkflow)
	protected.Put("/workflow/:workflowId", a.updateWorkflow)
	protected.Get("/workflow/executions/:workflowId", a.listExecutions)
	protected.Get("/workflow/:workflowId", a.getWorkflow)
	protected.Get("/workflows", a.listWorkflows)
	protected.Get("/nodes", a.listCatalog)

	return app
}

// bind decodes and validates a JSON request body.
func (a *api) bind(c fiber.Ctx, v any) error {
	if err := c.Bind().JSON(v); err != nil {
		return err
	}
	return a.validate.Struct(v)
}

// ── Accounts ──────────────────────────────────────────────────────────

func (a *api) signup(c fiber.Ctx) error {
	var req signupRequest
	if err := a.bind(c, &req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid input"})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := a.store.CreateUser(c.Context(), req.Username, hash)
	if errors.Is(err, workflow.ErrUsernameTaken) {
		return c.Status(409).JSON(fiber.Map{"error": "username already exists"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	a.log.Info("user created", "user", user.ID)
	return c.Status(201).JSON(fiber.Map{"id": user.ID})
}

func (a *api) signin(c fiber.Ctx) error {
	var req signinRequest
	if err := a.bind(c, &req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid input"})
	}

	// Unknown username and wrong password answer identically.
	user, err := a.store.GetUserByUsername(c.Context(), req.Username)
	if errors.Is(err, workflow.ErrUserNotFound) {
		return c.Status(401).JSON(fiber.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(401).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token, err := a.auth.IssueToken(user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"token": token})
}

// ── Workflows ─────────────────────────────────────────────────────────

func (a *api) createWorkflow(c fiber.Ctx) error {
	ownerID := ownerFrom(c)

	var req createWorkflowRequest
	if err := a.bind(c, &req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid input"})
	}

	g := workflow.Graph{Title: req.Title, Nodes: req.Nodes, Edges: req.Edges}
	id, err := a.store.CreateWorkflow(c.Context(), ownerID, &g)
	if errors.Is(err, workflow.ErrDuplicateTitle) {
		return c.Status(409).JSON(fiber.Map{"error": "a workflow with this title already exists"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	a.log.Info("workflow created", "workflow", id, "owner", ownerID)
	return c.Status(201).JSON(fiber.Map{"id": id})
}

func (a *api) updateWorkflow(c fiber.Ctx) error {
	ownerID := ownerFrom(c)

	var req updateWorkflowRequest
	if err := a.bind(c, &req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid input"})
	}

	id := c.Params("workflowId")
	g := workflow.Graph{Title: req.NewTitle, Nodes: req.Nodes, Edges: req.Edges}
	err := a.store.UpdateWorkflow(c.Context(), ownerID, id, &g)
	if errors.Is(err, workflow.ErrWorkflowNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "workflow not found"})
	}
	if errors.Is(err, workflow.ErrDuplicateTitle) {
		return c.Status(409).JSON(fiber.Map{"error": "a workflow with this title already exists"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	a.log.Info("workflow updated", "workflow", id, "owner", ownerID)
	return c.JSON(fiber.Map{"id": id})
}

func (a *api) getWorkflow(c fiber.Ctx) error {
	g, err := a.store.GetWorkflow(c.Context(), ownerFrom(c), c.Params("workflowId"))
	if errors.Is(err, workflow.ErrWorkflowNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "workflow not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(g)
}

func (a *api) listWorkflows(c fiber.Ctx) error {
	graphs, err := a.store.ListWorkflows(c.Context(), ownerFrom(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(graphs)
}

// ── Executions and catalog ────────────────────────────────────────────

func (a *api) listExecutions(c fiber.Ctx) error {
	execs, err := a.store.ListExecutions(c.Context(), ownerFrom(c), c.Params("workflowId"))
	if errors.Is(err, workflow.ErrWorkflowNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "workflow not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(execs)
}

func (a *api) listCatalog(c fiber.Ctx) error {
	return c.JSON(workflow.Descriptors())
}
