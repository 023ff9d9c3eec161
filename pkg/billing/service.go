package billing

import (
	"context"

	"github.com/forumkit/patron-billing/pkg/groups"
	"github.com/forumkit/patron-billing/pkg/observability"
	"github.com/forumkit/patron-billing/pkg/payments"
	"github.com/forumkit/patron-billing/pkg/users"
)

// AllowListStore holds the set of provider subscription IDs that belong to
// this installation. The provider account may host unrelated
// subscriptions; only allow-listed IDs ever surface.
type AllowListStore interface {
	All(ctx context.Context) ([]string, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
}

// InternalStore holds locally recorded subscriptions.
type InternalStore interface {
	All(ctx context.Context) ([]*InternalSubscription, error)
	Get(ctx context.Context, id int64) (*InternalSubscription, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// CustomerStore holds shadow customer records. FindByProductAndCustomer
// returns (nil, nil) when no record matches.
type CustomerStore interface {
	FindByProductAndCustomer(ctx context.Context, productID, customerID string) (*Customer, error)
	Delete(ctx context.Context, id int64) error
}

// Service is the billing operation surface exposed to transports.
type Service interface {
	// ListSubscriptions returns one unified page starting after
	// lastRecord (empty for the first page). Returns ErrUnavailable when
	// the integration is unconfigured.
	ListSubscriptions(ctx context.Context, lastRecord string) (*Page, error)

	// CancelSubscription cancels the subscription with the given
	// identifier, remote or internal-prefixed, optionally refunding the
	// most recent payment first.
	CancelSubscription(ctx context.Context, id string, refund bool) (*CancellationSummary, error)
}

// Stores bundles the local persistence collaborators of AdminService.
type Stores struct {
	AllowList AllowListStore
	Internal  InternalStore
	Customers CustomerStore
	Users     users.Service
	Groups    groups.Service
}

// AdminService implements Service. A nil provider marks the integration
// as unconfigured.
type AdminService struct {
	provider  payments.Provider
	allowList AllowListStore
	internal  InternalStore
	customers CustomerStore
	users     users.Service
	groups    groups.Service
	logger    *observability.Logger
	metrics   *observability.Metrics
}

// NewAdminService creates a new AdminService. provider may be nil when no
// credentials are configured; metrics may be nil to disable recording.
func NewAdminService(provider payments.Provider, stores Stores, logger *observability.Logger, metrics *observability.Metrics) *AdminService {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &AdminService{
		provider:  provider,
		allowList: stores.AllowList,
		internal:  stores.Internal,
		customers: stores.Customers,
		users:     stores.Users,
		groups:    stores.Groups,
		logger:    logger,
		metrics:   metrics,
	}
}

// Configured reports whether a provider is wired in.
func (s *AdminService) Configured() bool {
	return s.provider != nil
}
