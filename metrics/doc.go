// Package metrics records authentication and store metrics for workspaced and
// serves them over HTTP on /metrics, next to a /healthz endpoint.
package metrics
