package payments

import (
	"context"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// StripeConfig holds Stripe credentials. The key is injected here rather
// than set on the SDK's package-level global so two providers with
// different keys can coexist in one process.
type StripeConfig struct {
	// SecretKey is a Stripe secret key (sk_test_... or sk_live_...).
	SecretKey string
}

// Validate checks the configuration.
func (c StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe secret key is required")
	}
	return nil
}

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a Stripe-backed provider.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stripe configuration: %w", err)
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeProvider{api: api}, nil
}

// ListSubscriptions fetches a single page of subscriptions. Auto-pagination
// is disabled: callers drive the cursor themselves.
func (p *StripeProvider) ListSubscriptions(ctx context.Context, cursor string, limit int64) (*SubscriptionPage, error) {
	params := &stripe.SubscriptionListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)
	params.Single = true
	if cursor != "" {
		params.StartingAfter = stripe.String(cursor)
	}
	params.AddExpand("data.items.data.price")

	iter := p.api.Subscriptions.List(params)
	page := &SubscriptionPage{}
	for iter.Next() {
		page.Data = append(page.Data, subscriptionFromStripe(iter.Subscription()))
	}
	if err := iter.Err(); err != nil {
		return nil, translateErr(err)
	}
	if list := iter.SubscriptionList(); list != nil {
		page.HasMore = list.HasMore
	}
	return page, nil
}

// GetSubscription retrieves a subscription by ID.
func (p *StripeProvider) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	s, err := p.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, translateErr(err)
	}
	return subscriptionFromStripe(s), nil
}

// CancelSubscription cancels a subscription immediately.
func (p *StripeProvider) CancelSubscription(ctx context.Context, id string) (*Subscription, error) {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	s, err := p.api.Subscriptions.Cancel(id, params)
	if err != nil {
		return nil, translateErr(err)
	}
	return subscriptionFromStripe(s), nil
}

// GetPlan retrieves a price by ID.
func (p *StripeProvider) GetPlan(ctx context.Context, id string) (*Plan, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx
	price, err := p.api.Prices.Get(id, params)
	if err != nil {
		return nil, translateErr(err)
	}
	return planFromPrice(price), nil
}

// GetProduct retrieves a product by ID.
func (p *StripeProvider) GetProduct(ctx context.Context, id string) (*Product, error) {
	params := &stripe.ProductParams{}
	params.Context = ctx
	prod, err := p.api.Products.Get(id, params)
	if err != nil {
		return nil, translateErr(err)
	}
	return productFromStripe(prod), nil
}

// GetInvoice retrieves an invoice by ID.
func (p *StripeProvider) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	params := &stripe.InvoiceParams{}
	params.Context = ctx
	inv, err := p.api.Invoices.Get(id, params)
	if err != nil {
		return nil, translateErr(err)
	}
	out := &Invoice{ID: inv.ID}
	if inv.PaymentIntent != nil {
		out.PaymentIntentID = inv.PaymentIntent.ID
	}
	return out, nil
}

// RefundPayment refunds a payment intent in full.
func (p *StripeProvider) RefundPayment(ctx context.Context, paymentIntentID string) (*Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx
	r, err := p.api.Refunds.New(params)
	if err != nil {
		return nil, translateErr(err)
	}
	return &Refund{ID: r.ID, Status: string(r.Status)}, nil
}

func subscriptionFromStripe(s *stripe.Subscription) *Subscription {
	out := &Subscription{
		ID:               s.ID,
		Status:           string(s.Status),
		Created:          s.Created,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.LatestInvoice != nil {
		out.LatestInvoiceID = s.LatestInvoice.ID
	}
	if s.Items != nil && len(s.Items.Data) > 0 {
		out.Plan = planFromPrice(s.Items.Data[0].Price)
	}
	return out
}

func planFromPrice(price *stripe.Price) *Plan {
	if price == nil {
		return nil
	}
	pl := &Plan{
		ID:         price.ID,
		Nickname:   price.Nickname,
		UnitAmount: price.UnitAmount,
		Currency:   string(price.Currency),
		Metadata:   price.Metadata,
	}
	if price.Product != nil {
		pl.ProductID = price.Product.ID
		// Product detail is only populated when the product was expanded;
		// an unexpanded reference carries just the ID.
		if price.Product.Name != "" {
			pl.Product = productFromStripe(price.Product)
		}
	}
	return pl
}

func productFromStripe(prod *stripe.Product) *Product {
	return &Product{
		ID:       prod.ID,
		Name:     prod.Name,
		Metadata: prod.Metadata,
	}
}

func translateErr(err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) && sErr.Type == stripe.ErrorTypeInvalidRequest {
		return &ProviderError{Code: string(sErr.Code), Message: sErr.Msg}
	}
	return err
}
