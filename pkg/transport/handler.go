package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vibebiz/perimeter/pkg/account"
	"github.com/vibebiz/perimeter/pkg/api"
	"github.com/vibebiz/perimeter/pkg/auth"
	"github.com/vibebiz/perimeter/pkg/observability"
	"github.com/vibebiz/perimeter/pkg/sanitize"
	"github.com/vibebiz/perimeter/pkg/storage"
)

// BypassEndpoints lists the paths that are reachable without passing the
// gate: health and metrics probes, plus the account endpoints that exist
// to establish a credential in the first place. Logout still reads the
// Authorization header itself so revocation works for expired sessions.
var BypassEndpoints = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/logout",
}

// maxBodySize bounds request bodies for all API endpoints.
const maxBodySize = 1 << 20 // 1 MB

// dashboardRecentLimit is the number of recent documents shown on the
// dashboard.
const dashboardRecentLimit = 5

// Adapter serves the tenant-scoped API over HTTP. Every business handler
// reads the tenant from the AuthorizedContext injected by the gate; the
// asserted tenant header is never consulted past the middleware.
type Adapter struct {
	store    storage.Store
	accounts *account.Service
	gate     *auth.Gate
	logger   *slog.Logger
	mux      *http.ServeMux
}

// NewAdapter creates an HTTP adapter over the given store, account
// service, and gate.
func NewAdapter(store storage.Store, accounts *account.Service, gate *auth.Gate, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		store:    store,
		accounts: accounts,
		gate:     gate,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	a.mux.HandleFunc("GET /healthz", a.handleHealth)
	a.mux.HandleFunc("GET /readyz", a.handleHealth)
	a.mux.HandleFunc("POST /api/v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("POST /api/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("POST /api/v1/auth/logout", a.handleLogout)
	a.mux.HandleFunc("GET /api/v1/documents", a.handleListDocuments)
	a.mux.HandleFunc("POST /api/v1/documents", a.handleCreateDocument)
	a.mux.HandleFunc("GET /api/v1/dashboard", a.handleDashboard)
	a.mux.HandleFunc("POST /api/v1/reports/generate", a.handleGenerateReport)
	a.mux.HandleFunc("GET /api/v1/reports/{id}", a.handleGetReport)

	return a
}

// Handler returns the http.Handler for this adapter with the full
// middleware stack applied: request ID, panic recovery, request logging,
// metrics, and the authorization gate, outermost first. Extra markers
// extend the redaction set used for gate rejection logs.
func (a *Adapter) Handler(extraMarkers ...string) http.Handler {
	var h http.Handler = a.mux
	h = auth.Middleware(a.gate, BypassEndpoints, extraMarkers...)(h)
	h = observability.MetricsMiddleware(h)
	h = Logging(a.logger)(h)
	h = Recovery(a.logger)(h)
	h = RequestID()(h)
	return h
}

func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields
// and oversized payloads.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) *api.APIError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return api.NewInvalidRequestError("invalid request body: " + err.Error())
	}
	return nil
}

// writeAuthFailure renders a gate-style failure from a handler that does
// its own credential handling (login, logout).
func writeAuthFailure(w http.ResponseWriter, f *auth.Failure) {
	writeJSON(w, auth.HTTPStatus(f.Kind), map[string]string{
		"error":   string(f.Kind),
		"message": f.Message,
	})
}

func (a *Adapter) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if req.Email == "" || req.Password == "" || req.OrganizationID == "" {
		WriteAPIError(w, api.NewInvalidRequestError("email, password, and organization_id are required"))
		return
	}

	u, err := a.accounts.Register(r.Context(), req.Email, req.Password, req.OrganizationID, req.Role)
	switch {
	case errors.Is(err, account.ErrInvalidRole):
		WriteAPIError(w, api.NewInvalidRequestError("role must be one of owner, admin, member, billing"))
		return
	case errors.Is(err, account.ErrEmailTaken):
		WriteAPIError(w, api.NewInvalidRequestError("email already registered"))
		return
	case err != nil:
		a.logger.Error("registration failed", "error", err)
		WriteAPIError(w, api.NewServerError("registration failed"))
		return
	}

	writeJSON(w, http.StatusCreated, api.TeamMember{
		ID:             u.ID,
		Email:          u.Email,
		Role:           u.Role,
		OrganizationID: u.TenantID,
	})
}

func (a *Adapter) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteAPIError(w, api.NewInvalidRequestError("email and password are required"))
		return
	}

	session, err := a.accounts.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		writeAuthFailure(w, auth.NewFailure(auth.KindUnauthenticated, "invalid email or password"))
		return
	case err != nil:
		a.logger.Error("login failed", "error", err)
		WriteAPIError(w, api.NewServerError("login failed"))
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (a *Adapter) handleLogout(w http.ResponseWriter, r *http.Request) {
	bearer, err := auth.ExtractBearer(r.Header.Get("Authorization"))
	if err != nil {
		failure, _ := auth.AsFailure(err)
		writeAuthFailure(w, failure)
		return
	}

	if err := a.accounts.Logout(r.Context(), bearer); err != nil {
		a.logger.Error("logout failed", "error", err)
		WriteAPIError(w, api.NewServerError("logout failed"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (a *Adapter) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantFromContext(r.Context())

	docs, err := a.store.ListDocuments(r.Context(), tenantID)
	if err != nil {
		a.logger.Error("listing documents failed", "error", err)
		WriteAPIError(w, api.NewServerError("listing documents failed"))
		return
	}
	if docs == nil {
		docs = []api.Document{}
	}

	writeJSON(w, http.StatusOK, docs)
}

func (a *Adapter) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantFromContext(r.Context())

	var req api.DocumentCreate
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	slug := sanitize.Slug(req.Title)
	if slug == "" {
		WriteAPIError(w, api.NewInvalidRequestError("title must contain at least one alphanumeric character"))
		return
	}

	now := time.Now().UTC()
	doc := api.Document{
		ID:             api.NewDocumentID(),
		Title:          req.Title,
		Slug:           slug,
		OrganizationID: tenantID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Filename != "" {
		doc.Filename = sanitize.Filename(req.Filename)
	}

	if err := a.store.CreateDocument(r.Context(), doc); err != nil {
		a.logger.Error("creating document failed", "error", err)
		WriteAPIError(w, api.NewServerError("creating document failed"))
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (a *Adapter) handleDashboard(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantFromContext(r.Context())

	docs, err := a.store.ListDocuments(r.Context(), tenantID)
	if err != nil {
		a.logger.Error("loading dashboard documents failed", "error", err)
		WriteAPIError(w, api.NewServerError("loading dashboard failed"))
		return
	}
	if len(docs) > dashboardRecentLimit {
		docs = docs[:dashboardRecentLimit]
	}
	if docs == nil {
		docs = []api.Document{}
	}

	users, err := a.store.ListUsers(r.Context(), tenantID)
	if err != nil {
		a.logger.Error("loading dashboard members failed", "error", err)
		WriteAPIError(w, api.NewServerError("loading dashboard failed"))
		return
	}

	members := make([]api.TeamMember, 0, len(users))
	for _, u := range users {
		members = append(members, api.TeamMember{
			ID:             u.ID,
			Email:          u.Email,
			Role:           u.Role,
			OrganizationID: u.TenantID,
		})
	}

	writeJSON(w, http.StatusOK, api.Dashboard{
		OrganizationID:  tenantID,
		RecentDocuments: docs,
		TeamMembers:     members,
	})
}

func (a *Adapter) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantFromContext(r.Context())

	var req api.ReportRequest
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if req.Type == "" {
		WriteAPIError(w, api.NewInvalidRequestError("report type is required"))
		return
	}

	report := api.Report{
		ID:             api.NewReportID(),
		OrganizationID: tenantID,
		Type:           req.Type,
		Period:         req.Period,
		Status:         api.ReportStatusProcessing,
		CreatedAt:      time.Now().UTC(),
	}

	if err := a.store.CreateReport(r.Context(), report); err != nil {
		a.logger.Error("creating report failed", "error", err)
		WriteAPIError(w, api.NewServerError("creating report failed"))
		return
	}

	writeJSON(w, http.StatusAccepted, api.ReportAccepted{
		ReportID: report.ID,
		Status:   report.Status,
	})
}

func (a *Adapter) handleGetReport(w http.ResponseWriter, r *http.Request) {
	tenantID := auth.TenantFromContext(r.Context())
	id := r.PathValue("id")

	report, err := a.store.GetReport(r.Context(), tenantID, id)
	if errors.Is(err, storage.ErrNotFound) {
		WriteAPIError(w, api.NewNotFoundError("report not found"))
		return
	}
	if err != nil {
		a.logger.Error("loading report failed", "error", err)
		WriteAPIError(w, api.NewServerError("loading report failed"))
		return
	}

	if report.Status == api.ReportStatusProcessing {
		report, err = a.completeReport(r, report)
		if err != nil {
			a.logger.Error("completing report failed", "error", err)
			WriteAPIError(w, api.NewServerError("completing report failed"))
			return
		}
	}

	writeJSON(w, http.StatusOK, report)
}

// completeReport fills in report data from the tenant's current resources
// and marks it completed.
func (a *Adapter) completeReport(r *http.Request, report api.Report) (api.Report, error) {
	docs, err := a.store.ListDocuments(r.Context(), report.OrganizationID)
	if err != nil {
		return api.Report{}, err
	}
	users, err := a.store.ListUsers(r.Context(), report.OrganizationID)
	if err != nil {
		return api.Report{}, err
	}

	report.Status = api.ReportStatusCompleted
	report.Data = map[string]any{
		"document_count": len(docs),
		"member_count":   len(users),
		"period":         report.Period,
	}

	if err := a.store.UpdateReport(r.Context(), report); err != nil {
		return api.Report{}, err
	}
	return report, nil
}
