package integration

import (
	"net/http"
	"testing"
)

func TestDocumentCreateAndList(t *testing.T) {
	token := registerAndLogin(t, "org-docs")

	resp := doJSON(t, http.MethodPost, "/api/v1/documents", map[string]string{
		"title":    "Quarterly Plan (Draft)",
		"filename": "plan v2.pdf",
	}, authHeaders(token, "org-docs"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	var doc struct {
		ID       string `json:"id"`
		Slug     string `json:"slug"`
		Filename string `json:"filename"`
	}
	decodeJSON(t, resp, &doc)
	if doc.Slug != "quarterly-plan-draft" {
		t.Errorf("slug = %q, want quarterly-plan-draft", doc.Slug)
	}
	if doc.Filename != "planv2.pdf" {
		t.Errorf("filename = %q, want planv2.pdf", doc.Filename)
	}

	resp = doJSON(t, http.MethodGet, "/api/v1/documents", nil, authHeaders(token, "org-docs"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var docs []struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &docs)

	found := false
	for _, d := range docs {
		if d.ID == doc.ID {
			found = true
		}
	}
	if !found {
		t.Error("created document missing from list")
	}
}

func TestReportGenerationFlow(t *testing.T) {
	token := registerAndLogin(t, "org-reports")

	resp := doJSON(t, http.MethodPost, "/api/v1/reports/generate", map[string]string{
		"type":   "usage",
		"period": "2026-08",
	}, authHeaders(token, "org-reports"))
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}

	var accepted struct {
		ReportID string `json:"report_id"`
		Status   string `json:"status"`
	}
	decodeJSON(t, resp, &accepted)
	if accepted.Status != "processing" {
		t.Errorf("status = %q, want processing", accepted.Status)
	}

	resp = doJSON(t, http.MethodGet, "/api/v1/reports/"+accepted.ReportID, nil, authHeaders(token, "org-reports"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var report struct {
		Status string `json:"status"`
	}
	decodeJSON(t, resp, &report)
	if report.Status != "completed" {
		t.Errorf("status = %q, want completed", report.Status)
	}
}

func TestDashboard(t *testing.T) {
	token := registerAndLogin(t, "org-dashboard")

	resp := doJSON(t, http.MethodGet, "/api/v1/dashboard", nil, authHeaders(token, "org-dashboard"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status = %d", resp.StatusCode)
	}

	var dash struct {
		OrganizationID string `json:"organization_id"`
		TeamMembers    []any  `json:"team_members"`
	}
	decodeJSON(t, resp, &dash)
	if dash.OrganizationID != "org-dashboard" {
		t.Errorf("organization = %q, want org-dashboard", dash.OrganizationID)
	}
	if len(dash.TeamMembers) == 0 {
		t.Error("dashboard has no team members")
	}
}
