// Package api provides the HTTP server and handlers for the admin billing endpoints.
//
// # Overview
//
// The server exposes two admin operations on top of billing.Service:
//
//	GET    /admin/subscriptions?last_record=<id>   list one merged page
//	DELETE /admin/subscriptions/{id}?refund=<bool> cancel a subscription
//
// plus health probes (/healthz, /readyz) and Prometheus metrics (/metrics).
//
// # Error Mapping
//
// Service errors map onto HTTP status codes:
//
//	billing.ErrUnavailable   -> 503
//	billing.ErrNotFound      -> 404
//	payments.ProviderError   -> 422 (provider message passed through)
//	anything else            -> 500
//
// # Related Packages
//
//   - pkg/billing: The billing service behind the handlers
//   - pkg/httputil: Response helpers and middleware
package api
