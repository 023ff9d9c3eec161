package billing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/forumkit/patron-billing/pkg/payments"
)

// ListSubscriptions produces one unified page of subscriptions: provider
// entries filtered through the allow-list, followed by every internal
// subscription. lastRecord is the remote cursor from the previous page,
// empty for the first page.
func (s *AdminService) ListSubscriptions(ctx context.Context, lastRecord string) (*Page, error) {
	if s.provider == nil {
		return nil, ErrUnavailable
	}

	page := &Page{Data: []*Summary{}, LastRecord: lastRecord}

	ids, err := s.allowList.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription allow-list: %w", err)
	}

	// An empty allow-list means no remote entry could ever pass the
	// filter, so skip remote paging entirely.
	if len(ids) > 0 {
		if err := s.collectRemote(ctx, page, ids); err != nil {
			return nil, err
		}
	}

	if err := s.appendInternal(ctx, page); err != nil {
		return nil, err
	}

	page.Length = len(page.Data)
	return page, nil
}

func (s *AdminService) collectRemote(ctx context.Context, page *Page, ids []string) error {
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}

	cursor := page.LastRecord
	for len(page.Data) < PageLimit {
		remote, err := s.fetchRemotePage(ctx, cursor)
		if err != nil {
			return err
		}

		// The provider cannot filter server-side by an arbitrary ID set,
		// so a sparse allow-list can leave whole pages without a match.
		// Keep advancing the cursor until a page matches or the remote
		// source reports exhaustion.
		matches := filterAllowed(remote.Data, allowed)
		for len(matches) == 0 && remote.HasMore && len(remote.Data) > 0 {
			cursor = remote.Data[len(remote.Data)-1].ID
			remote, err = s.fetchRemotePage(ctx, cursor)
			if err != nil {
				return err
			}
			matches = filterAllowed(remote.Data, allowed)
		}

		// An empty page cannot advance the cursor, so treat it as
		// exhaustion regardless of what has_more claims.
		if len(remote.Data) == 0 {
			page.HasMore = false
			break
		}

		for _, sub := range matches {
			sum, err := s.remoteSummary(ctx, sub)
			if err != nil {
				return err
			}
			page.Data = append(page.Data, sum)
		}

		if len(remote.Data) > 0 {
			page.LastRecord = remote.Data[len(remote.Data)-1].ID
			cursor = page.LastRecord
		}
		page.HasMore = remote.HasMore
		if !remote.HasMore {
			break
		}
	}

	if s.metrics != nil {
		s.metrics.SubscriptionsListed.WithLabelValues("remote").Add(float64(len(page.Data)))
	}
	return nil
}

func (s *AdminService) fetchRemotePage(ctx context.Context, cursor string) (*payments.SubscriptionPage, error) {
	remote, err := s.provider.ListSubscriptions(ctx, cursor, PageLimit)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RemotePagesFetched.Inc()
	}
	return remote, nil
}

func filterAllowed(data []*payments.Subscription, allowed map[string]struct{}) []*payments.Subscription {
	var matches []*payments.Subscription
	for _, sub := range data {
		if _, ok := allowed[sub.ID]; ok {
			matches = append(matches, sub)
		}
	}
	return matches
}

func (s *AdminService) remoteSummary(ctx context.Context, sub *payments.Subscription) (*Summary, error) {
	plan := sub.Plan
	if plan != nil && plan.Product == nil && plan.ProductID != "" {
		product, err := s.provider.GetProduct(ctx, plan.ProductID)
		if err != nil {
			return nil, err
		}
		plan.Product = product
	}
	return &Summary{
		ID:               sub.ID,
		Status:           sub.Status,
		Created:          sub.Created,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		CustomerID:       sub.CustomerID,
		Plan:             plan,
	}, nil
}

// appendInternal appends every internal subscription to the page. The
// internal store is expected to stay small, so refetching it for each page
// request is the accepted cost of keeping remote pagination simple.
func (s *AdminService) appendInternal(ctx context.Context, page *Page) error {
	records, err := s.internal.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load internal subscriptions: %w", err)
	}
	for _, rec := range records {
		sum, err := s.internalSummary(ctx, rec)
		if err != nil {
			return err
		}
		page.Data = append(page.Data, sum)
	}
	if s.metrics != nil {
		s.metrics.SubscriptionsListed.WithLabelValues("internal").Add(float64(len(records)))
	}
	return nil
}

func (s *AdminService) internalSummary(ctx context.Context, rec *InternalSubscription) (*Summary, error) {
	plan, err := s.provider.GetPlan(ctx, rec.ProductID)
	if err != nil {
		return nil, err
	}
	product, err := s.provider.GetProduct(ctx, plan.ProductID)
	if err != nil {
		return nil, err
	}
	plan.Product = product

	user, err := s.users.Get(ctx, rec.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve internal subscription owner: %w", err)
	}

	metadata := map[string]string{
		"user_id":  strconv.FormatInt(user.ID, 10),
		"username": user.Username,
	}
	// Plan metadata wins on key collisions.
	for k, v := range plan.Metadata {
		metadata[k] = v
	}

	return &Summary{
		ID:       rec.ExternalID(),
		Type:     "internal",
		Status:   presentedStatus(rec.Status),
		Created:  rec.CreatedAt.Unix(),
		Plan:     plan,
		Metadata: metadata,
	}, nil
}
