package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"agencydesk/internal/models"
	"agencydesk/internal/storage/sqlite"
)

// testServer wraps a Server with a real HTTP listener and a direct handle
// on the store for fixture setup.
type testServer struct {
	t      *testing.T
	store  *sqlite.Store
	base   string
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	srv := New(store, logger, Options{SessionTTL: time.Hour})
	httpSrv := httptest.NewServer(srv.Engine())

	t.Cleanup(func() {
		httpSrv.Close()
		_ = store.Close()
	})

	return &testServer{
		t:      t,
		store:  store,
		base:   httpSrv.URL,
		client: &http.Client{},
	}
}

// do sends a request, attaching the bearer token and JSON body when given.
// The caller owns the response body unless it goes through decodeJSON or
// wantStatus.
func (ts *testServer) do(method, path, token string, body any) *http.Response {
	ts.t.Helper()

	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			ts.t.Fatalf("encode request body: %v", err)
		}
		reader = &buf
	}

	req, err := http.NewRequest(method, ts.base+path, reader)
	if err != nil {
		ts.t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.client.Do(req)
	if err != nil {
		ts.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// decodeJSON fails the test on a >=400 status and decodes the body into T.
func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// wantStatus checks the status code and closes the body.
func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, want, body)
	}
}

// newAdmin provisions an admin account directly in the store and logs it in.
func (ts *testServer) newAdmin() (models.User, string) {
	ts.t.Helper()
	return ts.newUser("Agency Boss", "boss@agency.test", models.RoleAdmin)
}

// newClient provisions a client account and logs it in.
func (ts *testServer) newClient(name, email string) (models.User, string) {
	ts.t.Helper()
	return ts.newUser(name, email, models.RoleClient)
}

func (ts *testServer) newUser(name, email string, role models.Role) (models.User, string) {
	ts.t.Helper()

	user, err := ts.store.CreateUser(context.Background(), name, email, "test-password", role)
	if err != nil {
		ts.t.Fatalf("create user: %v", err)
	}
	sess, err := ts.store.CreateSession(context.Background(), user.ID, time.Hour)
	if err != nil {
		ts.t.Fatalf("create session: %v", err)
	}
	return user, sess.Token
}

// newProject creates a project for the client through the API.
func (ts *testServer) newProject(adminToken, clientID, name string) models.Project {
	ts.t.Helper()

	resp := ts.do("POST", "/api/projects", adminToken, map[string]any{
		"name":     name,
		"category": "web",
		"deadline": time.Now().Add(14 * 24 * time.Hour).Format(time.RFC3339),
		"clientId": clientID,
	})
	out := decodeJSON[struct {
		Project models.Project `json:"project"`
	}](ts.t, resp)
	return out.Project
}

// newTask creates a task on the project through the API.
func (ts *testServer) newTask(token, projectID, title string) models.Task {
	ts.t.Helper()

	resp := ts.do("POST", "/api/projects/"+projectID+"/tasks", token, map[string]any{"title": title})
	out := decodeJSON[struct {
		Task models.Task `json:"task"`
	}](ts.t, resp)
	return out.Task
}

// newQuotation records a payment on the project through the API.
func (ts *testServer) newQuotation(adminToken, projectID string, amount float64) models.Payment {
	ts.t.Helper()

	resp := ts.do("POST", "/api/projects/"+projectID+"/payments", adminToken, map[string]any{
		"amount":       amount,
		"quotationUrl": "https://files.test/quote.pdf",
	})
	out := decodeJSON[struct {
		Payment models.Payment `json:"payment"`
	}](ts.t, resp)
	return out.Payment
}
