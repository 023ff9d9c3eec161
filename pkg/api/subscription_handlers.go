package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/forumkit/patron-billing/pkg/billing"
	"github.com/forumkit/patron-billing/pkg/httputil"
	"github.com/forumkit/patron-billing/pkg/observability"
	"github.com/forumkit/patron-billing/pkg/payments"
)

// SubscriptionHandlers handles admin subscription HTTP requests
type SubscriptionHandlers struct {
	billingService billing.Service
	logger         *observability.Logger
}

// NewSubscriptionHandlers creates a new SubscriptionHandlers
func NewSubscriptionHandlers(billingService billing.Service, logger *observability.Logger) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		billingService: billingService,
		logger:         logger,
	}
}

// RegisterRoutes registers subscription routes
func (h *SubscriptionHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/admin/subscriptions", h.ListSubscriptions).Methods("GET")
	router.HandleFunc("/admin/subscriptions/{id}", h.CancelSubscription).Methods("DELETE")
}

// ListSubscriptions returns one page of subscriptions, merged from the
// payment provider and the internal records
func (h *SubscriptionHandlers) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	lastRecord := httputil.ParseQueryString(r, "last_record", "")

	page, err := h.billingService.ListSubscriptions(r.Context(), lastRecord)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, page)
}

// CancelSubscription cancels the subscription with the given ID,
// optionally refunding its latest payment
func (h *SubscriptionHandlers) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	refund, err := httputil.ParseQueryBool(r, "refund", false)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	summary, err := h.billingService.CancelSubscription(r.Context(), id, refund)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, summary)
}

// writeServiceError maps billing errors to HTTP status codes
func (h *SubscriptionHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var provErr *payments.ProviderError

	switch {
	case errors.Is(err, billing.ErrUnavailable):
		httputil.WriteServiceUnavailable(w, err.Error())
	case errors.Is(err, billing.ErrNotFound):
		httputil.WriteNotFoundError(w, err.Error())
	case errors.As(err, &provErr):
		httputil.WriteUnprocessableEntity(w, provErr.Message)
	default:
		h.logger.WithError(err).
			WithField("path", r.URL.Path).
			Error("subscription request failed")
		httputil.WriteInternalError(w, err)
	}
}
