package payments

import "context"

// Subscription is a provider-owned subscription. Only the fields this
// service reads are carried; unknown provider fields are dropped at the
// SDK boundary rather than passed through untyped.
type Subscription struct {
	ID               string `json:"id"`
	CustomerID       string `json:"customer"`
	Status           string `json:"status"`
	Created          int64  `json:"created"`
	CurrentPeriodEnd int64  `json:"current_period_end,omitempty"`
	LatestInvoiceID  string `json:"latest_invoice,omitempty"`
	Plan             *Plan  `json:"plan,omitempty"`
}

// Plan is the price/plan a subscription bills against. ProductID is always
// set; Product detail is attached only where a caller resolved it.
type Plan struct {
	ID         string            `json:"id"`
	Nickname   string            `json:"nickname,omitempty"`
	UnitAmount int64             `json:"unit_amount,omitempty"`
	Currency   string            `json:"currency,omitempty"`
	ProductID  string            `json:"-"`
	Product    *Product          `json:"product,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Product describes what a plan sells.
type Product struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Invoice carries the single link the refund chain needs.
type Invoice struct {
	ID              string `json:"id"`
	PaymentIntentID string `json:"payment_intent,omitempty"`
}

// Refund is the result of refunding a payment intent.
type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// SubscriptionPage is one page of a forward-paginated subscription listing.
type SubscriptionPage struct {
	Data    []*Subscription
	HasMore bool
}

// Provider is the remote subscription store. Cancellation and refunds
// mutate provider state; everything else is read-only.
type Provider interface {
	// ListSubscriptions fetches one page of subscriptions starting after
	// the given cursor (subscription ID). An empty cursor starts from the
	// beginning. Plan data rides along on each entry; product detail does
	// not and must be resolved separately.
	ListSubscriptions(ctx context.Context, cursor string, limit int64) (*SubscriptionPage, error)

	// GetSubscription retrieves a single subscription by ID.
	GetSubscription(ctx context.Context, id string) (*Subscription, error)

	// CancelSubscription cancels the subscription immediately and returns
	// its final state.
	CancelSubscription(ctx context.Context, id string) (*Subscription, error)

	// GetPlan retrieves a price/plan by ID.
	GetPlan(ctx context.Context, id string) (*Plan, error)

	// GetProduct retrieves a product by ID.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// GetInvoice retrieves an invoice by ID.
	GetInvoice(ctx context.Context, id string) (*Invoice, error)

	// RefundPayment refunds the payment intent in full.
	RefundPayment(ctx context.Context, paymentIntentID string) (*Refund, error)
}
