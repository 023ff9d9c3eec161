package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/forumkit/patron-billing/pkg/payments"
)

// PageLimit is the maximum number of remote entries per unified page, and
// the page size requested from the provider.
const PageLimit = 10

// InternalIDPrefix namespaces internal subscription IDs so they cannot
// collide with provider IDs in the unified result set.
const InternalIDPrefix = "internal_"

// Internal subscription statuses. A cancelled record is terminal: it is
// never billed again and never re-grants group access.
const (
	StatusSucceeded = "succeeded"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// InternalSubscription is a locally recorded subscription the provider
// knows nothing about (manual or offline payments). Records are
// soft-cancelled, never deleted.
type InternalSubscription struct {
	ID        int64     `json:"id"`
	ProductID string    `json:"product_id"`
	Status    string    `json:"status"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	NextDue   time.Time `json:"next_due"`
}

// ExternalID is the record's ID as exposed in the unified result set.
func (s *InternalSubscription) ExternalID() string {
	return fmt.Sprintf("%s%d", InternalIDPrefix, s.ID)
}

// Customer is a local shadow record mapping a provider subscription back
// to a platform user, kept only so group access can be revoked after the
// provider deletes the subscription.
type Customer struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
}

// Summary is one entry of a unified page. Remote and internal entries
// share the shape; Type is "internal" on internal entries and empty on
// remote ones.
type Summary struct {
	ID               string            `json:"id"`
	Type             string            `json:"type,omitempty"`
	Status           string            `json:"status"`
	Created          int64             `json:"created"`
	CurrentPeriodEnd int64             `json:"current_period_end,omitempty"`
	CustomerID       string            `json:"customer,omitempty"`
	Plan             *payments.Plan    `json:"plan,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Page is one unified page of subscription summaries. HasMore reflects
// only the remote source: internal entries are always appended in full.
type Page struct {
	HasMore    bool       `json:"has_more"`
	Data       []*Summary `json:"data"`
	Length     int        `json:"length"`
	LastRecord string     `json:"last_record,omitempty"`
}

// CancellationSummary describes a subscription the Canceller just
// cancelled.
type CancellationSummary struct {
	ID               string            `json:"id"`
	Status           string            `json:"status"`
	Plan             *payments.Plan    `json:"plan,omitempty"`
	Product          *payments.Product `json:"product,omitempty"`
	CurrentPeriodEnd int64             `json:"current_period_end,omitempty"`
	Created          int64             `json:"created,omitempty"`
}

// parseInternalID recovers the local numeric ID from a prefixed
// identifier. ok is false when the identifier does not carry the prefix.
func parseInternalID(id string) (int64, bool, error) {
	if !strings.HasPrefix(id, InternalIDPrefix) {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, InternalIDPrefix), 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("malformed internal subscription id %q: %w", id, ErrNotFound)
	}
	return n, true, nil
}

// presentedStatus maps stored internal statuses to client-facing ones.
func presentedStatus(status string) string {
	if status == StatusSucceeded {
		return StatusActive
	}
	return status
}
