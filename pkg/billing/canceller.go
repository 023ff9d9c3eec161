package billing

import (
	"context"
	"fmt"

	"github.com/forumkit/patron-billing/pkg/payments"
)

// CancelSubscription cancels the subscription behind the given identifier.
// Internal-prefixed identifiers soft-cancel the local record; everything
// else is treated as a provider subscription ID. The two branches are
// mutually exclusive. The steps of either branch are not transactional:
// a failure partway through leaves earlier steps in place.
func (s *AdminService) CancelSubscription(ctx context.Context, id string, refund bool) (*CancellationSummary, error) {
	if s.provider == nil {
		return nil, ErrUnavailable
	}

	internalID, isInternal, err := parseInternalID(id)
	if err != nil {
		return nil, err
	}
	if isInternal {
		return s.cancelInternal(ctx, internalID)
	}
	return s.cancelRemote(ctx, id, refund)
}

func (s *AdminService) cancelInternal(ctx context.Context, internalID int64) (*CancellationSummary, error) {
	rec, err := s.internal.Get(ctx, internalID)
	if err != nil {
		return nil, err
	}

	plan, err := s.provider.GetPlan(ctx, rec.ProductID)
	if err != nil {
		return nil, err
	}
	product, err := s.provider.GetProduct(ctx, plan.ProductID)
	if err != nil {
		return nil, err
	}

	// Soft-cancel only: the record stays around as billing history.
	// Cancelling an already-cancelled record is a no-op rewrite.
	if err := s.internal.UpdateStatus(ctx, rec.ID, StatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel internal subscription %d: %w", rec.ID, err)
	}

	if err := s.revokeGroup(ctx, plan, rec.UserID); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CancellationsTotal.WithLabelValues("internal").Inc()
	}
	s.logger.WithField("subscription_id", rec.ExternalID()).Info("cancelled internal subscription")

	return &CancellationSummary{
		ID:               rec.ExternalID(),
		Status:           StatusCancelled,
		Plan:             plan,
		Product:          product,
		CurrentPeriodEnd: rec.NextDue.Unix(),
		Created:          rec.CreatedAt.Unix(),
	}, nil
}

func (s *AdminService) cancelRemote(ctx context.Context, id string, refund bool) (*CancellationSummary, error) {
	if refund {
		if err := s.refundLatestPayment(ctx, id); err != nil {
			return nil, err
		}
	}

	sub, err := s.provider.CancelSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	productID := ""
	if sub.Plan != nil {
		productID = sub.Plan.ProductID
	}
	cust, err := s.customers.FindByProductAndCustomer(ctx, productID, sub.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up shadow customer: %w", err)
	}

	if err := s.allowList.DeleteByExternalID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete allow-list entry: %w", err)
	}

	// Without a shadow customer there is no way back to a platform user,
	// so group revocation is only possible when one was recorded.
	if cust != nil {
		user, err := s.users.Get(ctx, cust.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve shadow customer user: %w", err)
		}
		if err := s.customers.Delete(ctx, cust.ID); err != nil {
			return nil, fmt.Errorf("failed to delete shadow customer: %w", err)
		}
		if err := s.revokeGroup(ctx, sub.Plan, user.ID); err != nil {
			return nil, err
		}
	}

	if s.metrics != nil {
		s.metrics.CancellationsTotal.WithLabelValues("remote").Inc()
	}
	s.logger.WithField("subscription_id", id).Info("cancelled remote subscription")

	return &CancellationSummary{
		ID:               sub.ID,
		Status:           sub.Status,
		Plan:             sub.Plan,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		Created:          sub.Created,
	}, nil
}

// refundLatestPayment refunds the payment behind the subscription's most
// recent invoice. Only that one payment is ever refunded. A missing link
// anywhere in the subscription -> invoice -> payment intent chain skips
// the refund without failing the cancellation; losing a refund is less
// harmful than blocking it.
func (s *AdminService) refundLatestPayment(ctx context.Context, id string) error {
	sub, err := s.provider.GetSubscription(ctx, id)
	if err != nil {
		return err
	}
	if sub.LatestInvoiceID == "" {
		s.countRefund("skipped")
		s.logger.WithField("subscription_id", id).Info("subscription has no invoice; skipping refund")
		return nil
	}

	inv, err := s.provider.GetInvoice(ctx, sub.LatestInvoiceID)
	if err != nil {
		return err
	}
	if inv.PaymentIntentID == "" {
		s.countRefund("skipped")
		s.logger.WithField("invoice_id", inv.ID).Info("invoice has no payment intent; skipping refund")
		return nil
	}

	refund, err := s.provider.RefundPayment(ctx, inv.PaymentIntentID)
	if err != nil {
		return err
	}
	s.countRefund("issued")
	s.logger.WithFields(map[string]interface{}{
		"subscription_id": id,
		"refund_id":       refund.ID,
	}).Info("refunded latest subscription payment")
	return nil
}

func (s *AdminService) revokeGroup(ctx context.Context, plan *payments.Plan, userID int64) error {
	if plan == nil {
		return nil
	}
	name := plan.Metadata["group_name"]
	if name == "" {
		return nil
	}

	group, err := s.groups.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to find group %q: %w", name, err)
	}
	if group == nil {
		s.logger.WithField("group_name", name).Warn("plan names a group that does not exist; skipping revocation")
		return nil
	}

	if err := s.groups.RemoveMember(ctx, group.ID, userID); err != nil {
		return fmt.Errorf("failed to remove user %d from group %q: %w", userID, name, err)
	}
	return nil
}

func (s *AdminService) countRefund(outcome string) {
	if s.metrics != nil {
		s.metrics.RefundsTotal.WithLabelValues(outcome).Inc()
	}
}
