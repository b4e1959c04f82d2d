package server

import (
	"net/http"
	"testing"
	"time"

	"agencydesk/internal/models"
)

func TestProjectVisibility(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.newAdmin()
	alice, aliceToken := ts.newClient("Alice", "alice@client.test")
	_, bobToken := ts.newClient("Bob", "bob@client.test")

	project := ts.newProject(adminToken, alice.ID, "Alice Site")

	// Admin sees all projects, each client only their own.
	list := decodeJSON[struct {
		Projects []models.Project `json:"projects"`
	}](t, ts.do("GET", "/api/projects", adminToken, nil))
	if len(list.Projects) != 1 {
		t.Fatalf("admin sees %d projects, want 1", len(list.Projects))
	}

	list = decodeJSON[struct {
		Projects []models.Project `json:"projects"`
	}](t, ts.do("GET", "/api/projects", aliceToken, nil))
	if len(list.Projects) != 1 || list.Projects[0].ID != project.ID {
		t.Fatalf("alice project list wrong: %+v", list.Projects)
	}

	list = decodeJSON[struct {
		Projects []models.Project `json:"projects"`
	}](t, ts.do("GET", "/api/projects", bobToken, nil))
	if len(list.Projects) != 0 {
		t.Fatalf("bob sees %d projects, want 0", len(list.Projects))
	}

	// A foreign project reads as missing, not forbidden.
	wantStatus(t, ts.do("GET", "/api/projects/"+project.ID, bobToken, nil), http.StatusNotFound)
	wantStatus(t, ts.do("GET", "/api/projects/"+project.ID, aliceToken, nil), http.StatusOK)
}

func TestProjectCreationIsAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	alice, aliceToken := ts.newClient("Alice", "alice@client.test")

	resp := ts.do("POST", "/api/projects", aliceToken, map[string]any{
		"name":     "Sneaky",
		"category": "web",
		"deadline": time.Now().Format(time.RFC3339),
		"clientId": alice.ID,
	})
	wantStatus(t, resp, http.StatusForbidden)
}

func TestCreateProjectValidation(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.newAdmin()
	alice, _ := ts.newClient("Alice", "alice@client.test")

	deadline := time.Now().Format(time.RFC3339)
	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"blank name", map[string]any{"name": " ", "category": "web", "deadline": deadline, "clientId": alice.ID}, http.StatusBadRequest},
		{"bad category", map[string]any{"name": "X", "category": "video", "deadline": deadline, "clientId": alice.ID}, http.StatusBadRequest},
		{"bad deadline", map[string]any{"name": "X", "category": "web", "deadline": "tomorrow", "clientId": alice.ID}, http.StatusBadRequest},
		{"missing client", map[string]any{"name": "X", "category": "web", "deadline": deadline, "clientId": ""}, http.StatusBadRequest},
		{"unknown client", map[string]any{"name": "X", "category": "web", "deadline": deadline, "clientId": "missing"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wantStatus(t, ts.do("POST", "/api/projects", adminToken, tc.body), tc.want)
		})
	}
}

func TestMarkProjectFinished(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.newAdmin()
	alice, aliceToken := ts.newClient("Alice", "alice@client.test")
	project := ts.newProject(adminToken, alice.ID, "Alice Site")

	// Clients cannot finish projects.
	resp := ts.do("PUT", "/api/projects/"+project.ID, aliceToken, map[string]any{"status": "finished"})
	wantStatus(t, resp, http.StatusForbidden)

	// Only the finished status is accepted.
	resp = ts.do("PUT", "/api/projects/"+project.ID, adminToken, map[string]any{"status": "ongoing"})
	wantStatus(t, resp, http.StatusBadRequest)

	resp = ts.do("PUT", "/api/projects/"+project.ID, adminToken, map[string]any{"status": "finished"})
	updated := decodeJSON[struct {
		Project models.Project `json:"project"`
	}](t, resp)
	if updated.Project.Status != models.ProjectFinished {
		t.Errorf("status = %q, want finished", updated.Project.Status)
	}
}

func TestProjectSummary(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.newAdmin()
	alice, aliceToken := ts.newClient("Alice", "alice@client.test")
	project := ts.newProject(adminToken, alice.ID, "Alice Site")

	task := ts.newTask(adminToken, project.ID, "Wireframes")
	resp := ts.do("PUT", "/api/tasks/"+task.ID, adminToken, map[string]any{"stage": "review"})
	wantStatus(t, resp, http.StatusOK)

	payment := ts.newQuotation(adminToken, project.ID, 1000)
	resp = ts.do("POST", "/api/payments/"+payment.ID+"/receipts", adminToken, map[string]any{"amountPaid": 400.0})
	wantStatus(t, resp, http.StatusCreated)

	summary := decodeJSON[struct {
		Summary struct {
			Stage         models.Stage         `json:"stage"`
			Current       int                  `json:"current"`
			Total         int                  `json:"total"`
			Percent       float64              `json:"percent"`
			PaymentStatus models.PaymentStatus `json:"paymentStatus"`
			Totals        struct {
				TotalAmount float64 `json:"totalAmount"`
				TotalPaid   float64 `json:"totalPaid"`
				Remaining   float64 `json:"remaining"`
			} `json:"totals"`
			Deadline struct {
				Bucket string `json:"bucket"`
				Days   int    `json:"days"`
			} `json:"deadline"`
		} `json:"summary"`
	}](t, ts.do("GET", "/api/projects/"+project.ID+"/summary", aliceToken, nil))

	s := summary.Summary
	if s.Stage != models.StageReview {
		t.Errorf("stage = %q, want review", s.Stage)
	}
	if s.Current != 3 || s.Total != 4 || s.Percent != 75 {
		t.Errorf("progress = %d/%d (%v), want 3/4 (75)", s.Current, s.Total, s.Percent)
	}
	if s.PaymentStatus != models.PaymentPartial {
		t.Errorf("payment status = %q, want partial", s.PaymentStatus)
	}
	if s.Totals.TotalAmount != 1000 || s.Totals.TotalPaid != 400 || s.Totals.Remaining != 600 {
		t.Errorf("totals wrong: %+v", s.Totals)
	}
	if s.Deadline.Bucket != "days-left" || s.Deadline.Days != 14 {
		t.Errorf("deadline = %s/%d, want days-left/14", s.Deadline.Bucket, s.Deadline.Days)
	}
}
