// Package billing bridges the platform's user/group model with the remote
// subscription provider.
//
// # Overview
//
// Two operations make up the admin surface:
//
//   - ListSubscriptions merges provider subscriptions, filtered by a local
//     allow-list of externally known IDs, with locally recorded internal
//     subscriptions into one forward-paginated page.
//   - CancelSubscription cancels either kind: provider subscriptions are
//     deleted remotely with an optional refund and their local shadow
//     records cleaned up; internal subscriptions are soft-cancelled. Both
//     paths revoke the group membership the plan granted.
//
// # Usage Example
//
//	svc := billing.NewAdminService(provider, stores, logger, metrics)
//	page, err := svc.ListSubscriptions(ctx, "")        // first page
//	page, err = svc.ListSubscriptions(ctx, page.LastRecord)
//	summary, err := svc.CancelSubscription(ctx, "sub_123", true)
//
// Neither operation is transactional across the provider and the local
// stores: a failure mid-cancellation leaves the steps already taken in
// place, and no rollback is attempted.
//
// # Related Packages
//
//   - pkg/payments: typed provider client
//   - pkg/groups, pkg/users: platform collaborators
package billing
