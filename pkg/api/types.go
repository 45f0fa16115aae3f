package api

import "time"

// Document is a tenant-scoped document resource.
type Document struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Filename       string    `json:"filename,omitempty"`
	OrganizationID string    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DocumentCreate is the payload for creating a document. Filename, when
// present, names an attachment and is canonicalized before storage.
type DocumentCreate struct {
	Title    string `json:"title"`
	Filename string `json:"filename,omitempty"`
}

// TeamMember is a member of the organization as shown on the dashboard.
type TeamMember struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id"`
}

// Dashboard aggregates recent activity for one organization.
type Dashboard struct {
	OrganizationID  string       `json:"organization_id"`
	RecentDocuments []Document   `json:"recent_documents"`
	TeamMembers     []TeamMember `json:"team_members"`
}

// Report is a generated report resource.
type Report struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	Type           string         `json:"type"`
	Period         string         `json:"period"`
	Status         string         `json:"status"`
	Data           map[string]any `json:"data,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Report statuses.
const (
	ReportStatusProcessing = "processing"
	ReportStatusCompleted  = "completed"
)

// ReportRequest is the payload for generating a report.
type ReportRequest struct {
	Type   string `json:"type"`
	Period string `json:"period"`
}

// ReportAccepted is the 202 response for a report generation request.
type ReportAccepted struct {
	ReportID string `json:"report_id"`
	Status   string `json:"status"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

// LoginRequest is the payload for exchanging credentials for a bearer token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the response to a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
