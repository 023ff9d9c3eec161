// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// This package offers helper functions for JSON error responses, parameter
// parsing, and common HTTP middleware patterns.
//
// # Response Helpers
//
// JSON responses:
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteSuccess(w, page)
//
// Error responses:
//
//	httputil.WriteError(w, http.StatusBadRequest, err)
//	httputil.WriteNotFoundError(w, "subscription not found")
//	httputil.WriteServiceUnavailable(w, "billing is not configured")
//
// # Request Parsing
//
// Path parameters:
//
//	id, ok := httputil.ParsePathStringOrError(w, r, "id")
//
// Query parameters:
//
//	lastRecord := httputil.ParseQueryString(r, "last_record", "")
//	refund, err := httputil.ParseQueryBool(r, "refund", false)
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//	)
//
// # Related Packages
//
//   - pkg/api: HTTP handlers for the admin billing endpoints
package httputil
