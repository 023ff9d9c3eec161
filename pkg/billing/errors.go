package billing

import "errors"

var (
	// ErrUnavailable means the billing integration has no provider
	// credentials configured. Distinct from an empty listing: callers
	// must be able to tell "nothing set up" from "no subscriptions".
	ErrUnavailable = errors.New("billing integration is not configured")

	// ErrNotFound means an identifier did not resolve to a subscription
	// record.
	ErrNotFound = errors.New("subscription not found")
)
