package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singhadityakumar1711/turbo-graph-trade/auth"
	"github.com/singhadityakumar1711/turbo-graph-trade/memory"
)

const testSecret = "test-secret-key-must-be-at-least-32-characters-long"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	manager, err := auth.NewManager(testSecret, time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newAPI(memory.New(), manager, logger).router()
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

// signupAndSignin registers a fresh account and returns its bearer token.
func signupAndSignin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": "hunter2hunter2"}
	status, _ := doJSON(t, app, "POST", "/signup", "", creds)
	require.Equal(t, 201, status)

	status, body := doJSON(t, app, "POST", "/signin", "", creds)
	require.Equal(t, 200, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func alphaPayload() map[string]any {
	return map[string]any{
		"title": "Alpha",
		"nodes": []map[string]any{
			{
				"id":   "n1",
				"type": "time-trigger",
				"data": map[string]any{
					"kind":     "TRIGGER",
					"metadata": map[string]any{"time": 90},
				},
				"position":    map[string]any{"x": 0, "y": 0},
				"credentials": nil,
			},
			{
				"id":   "n2",
				"type": "hyperliquid",
				"data": map[string]any{
					"kind":     "ACTION",
					"metadata": map[string]any{"type": "LONG", "qty": 1, "symbol": "BTC"},
				},
				"position":    map[string]any{"x": 100, "y": 0},
				"credentials": nil,
			},
		},
		"edges": []map[string]any{
			{"id": "e1", "source": "n1", "target": "n2"},
		},
	}
}

func TestSignup(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/signup",
		"", map[string]string{"username": "alice", "password": "hunter2hunter2"})
	assert.Equal(t, 201, status)
	assert.NotEmpty(t, body["id"])

	// Duplicate username conflicts.
	status, _ = doJSON(t, app, "POST", "/signup",
		"", map[string]string{"username": "alice", "password": "hunter2hunter2"})
	assert.Equal(t, 409, status)

	// Weak password rejected before it reaches the store.
	status, _ = doJSON(t, app, "POST", "/signup",
		"", map[string]string{"username": "bob", "password": "short"})
	assert.Equal(t, 400, status)
}

func TestSigninFailsUniformly(t *testing.T) {
	app := newTestApp(t)
	signupAndSignin(t, app, "alice")

	status, _ := doJSON(t, app, "POST", "/signin",
		"", map[string]string{"username": "alice", "password": "wrong-password"})
	assert.Equal(t, 401, status)

	status, _ = doJSON(t, app, "POST", "/signin",
		"", map[string]string{"username": "nobody", "password": "hunter2hunter2"})
	assert.Equal(t, 401, status)
}

func TestWorkflowRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	for _, route := range []struct{ method, path string }{
		{"POST", "/workflow"},
		{"PUT", "/workflow/some-id"},
		{"GET", "/workflow/some-id"},
		{"GET", "/workflows"},
		{"GET", "/workflow/executions/some-id"},
		{"GET", "/nodes"},
	} {
		status, _ := doJSON(t, app, route.method, route.path, "", nil)
		assert.Equal(t, 401, status, "%s %s", route.method, route.path)

		status, _ = doJSON(t, app, route.method, route.path, "garbage-token", nil)
		assert.Equal(t, 401, status, "%s %s with bad token", route.method, route.path)
	}
}

func TestCreateWorkflow(t *testing.T) {
	app := newTestApp(t)
	token := signupAndSignin(t, app, "alice")

	status, body := doJSON(t, app, "POST", "/workflow", token, alphaPayload())
	require.Equal(t, 201, status)
	assert.NotEmpty(t, body["id"])

	// Same owner, same title.
	status, _ = doJSON(t, app, "POST", "/workflow", token, alphaPayload())
	assert.Equal(t, 409, status)

	// Malformed node payloads never reach the store.
	bad := alphaPayload()
	bad["nodes"].([]map[string]any)[0]["type"] = "bogus-variant"
	status, _ = doJSON(t, app, "POST", "/workflow", token, bad)
	assert.Equal(t, 400, status)

	status, _ = doJSON(t, app, "POST", "/workflow", token, map[string]any{"title": ""})
	assert.Equal(t, 400, status)
}

func TestGetWorkflowOwnership(t *testing.T) {
	app := newTestApp(t)
	alice := signupAndSignin(t, app, "alice")
	mallory := signupAndSignin(t, app, "mallory")

	status, body := doJSON(t, app, "POST", "/workflow", alice, alphaPayload())
	require.Equal(t, 201, status)
	id := body["id"].(string)

	status, body = doJSON(t, app, "GET", "/workflow/"+id, alice, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "Alpha", body["title"])

	// Someone else's workflow answers exactly like a missing one.
	foreign, _ := doJSON(t, app, "GET", "/workflow/"+id, mallory, nil)
	missing, _ := doJSON(t, app, "GET", "/workflow/no-such-id", mallory, nil)
	assert.Equal(t, 404, foreign)
	assert.Equal(t, 404, missing)
}

func TestUpdateWorkflow(t *testing.T) {
	app := newTestApp(t)
	token := signupAndSignin(t, app, "alice")

	status, body := doJSON(t, app, "POST", "/workflow", token, alphaPayload())
	require.Equal(t, 201, status)
	id := body["id"].(string)

	// Republish with the title unchanged: the record is excluded from its
	// own duplicate check.
	update := alphaPayload()
	update["prevTitle"] = "Alpha"
	update["newTitle"] = "Alpha"
	delete(update, "title")
	status, _ = doJSON(t, app, "PUT", "/workflow/"+id, token, update)
	assert.Equal(t, 200, status)

	// Renaming onto another workflow's title conflicts.
	beta := alphaPayload()
	beta["title"] = "Beta"
	status, _ = doJSON(t, app, "POST", "/workflow", token, beta)
	require.Equal(t, 201, status)

	update["newTitle"] = "Beta"
	status, _ = doJSON(t, app, "PUT", "/workflow/"+id, token, update)
	assert.Equal(t, 409, status)

	// Unknown id is a 404.
	update["newTitle"] = "Gamma"
	status, _ = doJSON(t, app, "PUT", "/workflow/no-such-id", token, update)
	assert.Equal(t, 404, status)
}

func TestListWorkflows(t *testing.T) {
	app := newTestApp(t)
	token := signupAndSignin(t, app, "alice")

	status, _ := doJSON(t, app, "POST", "/workflow", token, alphaPayload())
	require.Equal(t, 201, status)

	req, err := http.NewRequest("GET", "/workflows", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)
	var graphs []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&graphs))
	require.Len(t, graphs, 1)
	assert.Equal(t, "Alpha", graphs[0]["title"])
}

func TestListCatalog(t *testing.T) {
	app := newTestApp(t)
	token := signupAndSignin(t, app, "alice")

	req, err := http.NewRequest("GET", "/nodes", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)
	var entries []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	assert.Len(t, entries, 5)
}

func TestListExecutions(t *testing.T) {
	app := newTestApp(t)
	token := signupAndSignin(t, app, "alice")

	status, body := doJSON(t, app, "POST", "/workflow", token, alphaPayload())
	require.Equal(t, 201, status)
	id := body["id"].(string)

	req, err := http.NewRequest("GET", "/workflow/executions/"+id, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)
	var execs []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&execs))
	assert.Empty(t, execs)

	// Execution logs follow the same non-disclosure rule as workflows.
	status, _ = doJSON(t, app, "GET", "/workflow/executions/no-such-id", token, nil)
	assert.Equal(t, 404, status)
}
