// Package api defines the wire-level types of the perimeter service:
// domain resources (documents, dashboards, reports), request payloads, and
// the structured error shape every failure is rendered as.
package api
