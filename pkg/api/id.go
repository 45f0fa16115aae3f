package api

import "github.com/google/uuid"

// NewDocumentID returns a fresh document identifier of the form doc-<uuid>.
func NewDocumentID() string {
	return "doc-" + uuid.NewString()
}

// NewReportID returns a fresh report identifier of the form report-<uuid>.
func NewReportID() string {
	return "report-" + uuid.NewString()
}

// NewUserID returns a fresh user identifier of the form user-<uuid>.
func NewUserID() string {
	return "user-" + uuid.NewString()
}
