package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresAllowListStore persists the set of provider subscription IDs
// created through this site, one row per subscription.
type PostgresAllowListStore struct {
	db *sql.DB
}

// NewPostgresAllowListStore creates a new PostgreSQL-backed allow-list store
func NewPostgresAllowListStore(db *sql.DB) *PostgresAllowListStore {
	return &PostgresAllowListStore{db: db}
}

// All returns every allow-listed external subscription ID in insertion order.
func (s *PostgresAllowListStore) All(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT external_id FROM stripe_subscriptions ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query allow-listed subscriptions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan allow-listed subscription: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allow-listed subscriptions: %w", err)
	}
	return ids, nil
}

// DeleteByExternalID removes the allow-list row for the given external ID.
// Deleting an ID that was never allow-listed is a no-op.
func (s *PostgresAllowListStore) DeleteByExternalID(ctx context.Context, externalID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM stripe_subscriptions WHERE external_id = $1", externalID)
	if err != nil {
		return fmt.Errorf("failed to delete allow-listed subscription %s: %w", externalID, err)
	}
	return nil
}

// PostgresInternalStore persists subscriptions managed entirely by the
// platform, outside the payment provider.
type PostgresInternalStore struct {
	db *sql.DB
}

// NewPostgresInternalStore creates a new PostgreSQL-backed internal subscription store
func NewPostgresInternalStore(db *sql.DB) *PostgresInternalStore {
	return &PostgresInternalStore{db: db}
}

// All returns every internal subscription in insertion order.
func (s *PostgresInternalStore) All(ctx context.Context) ([]*InternalSubscription, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, product_id, status, user_id, created_at, next_due FROM internal_subscriptions ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query internal subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*InternalSubscription
	for rows.Next() {
		sub, err := scanInternalSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate internal subscriptions: %w", err)
	}
	return subs, nil
}

// Get returns the internal subscription with the given numeric ID.
// A missing row yields ErrNotFound.
func (s *PostgresInternalStore) Get(ctx context.Context, id int64) (*InternalSubscription, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, product_id, status, user_id, created_at, next_due FROM internal_subscriptions WHERE id = $1", id)

	sub := &InternalSubscription{}
	err := row.Scan(&sub.ID, &sub.ProductID, &sub.Status, &sub.UserID, &sub.CreatedAt, &sub.NextDue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("internal subscription %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get internal subscription %d: %w", id, err)
	}
	return sub, nil
}

// UpdateStatus sets the status of the internal subscription with the given ID.
func (s *PostgresInternalStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE internal_subscriptions SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update internal subscription %d: %w", id, err)
	}
	return nil
}

func scanInternalSubscription(rows *sql.Rows) (*InternalSubscription, error) {
	sub := &InternalSubscription{}
	if err := rows.Scan(&sub.ID, &sub.ProductID, &sub.Status, &sub.UserID, &sub.CreatedAt, &sub.NextDue); err != nil {
		return nil, fmt.Errorf("failed to scan internal subscription: %w", err)
	}
	return sub, nil
}

// PostgresCustomerStore persists the shadow customer records that map
// provider customers back to platform users, keyed by product.
type PostgresCustomerStore struct {
	db *sql.DB
}

// NewPostgresCustomerStore creates a new PostgreSQL-backed customer store
func NewPostgresCustomerStore(db *sql.DB) *PostgresCustomerStore {
	return &PostgresCustomerStore{db: db}
}

// FindByProductAndCustomer returns the shadow record for the given product
// and provider customer, or nil when none exists.
func (s *PostgresCustomerStore) FindByProductAndCustomer(ctx context.Context, productID, customerID string) (*Customer, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, customer_id, product_id FROM stripe_customers WHERE product_id = $1 AND customer_id = $2",
		productID, customerID)

	cust := &Customer{}
	err := row.Scan(&cust.ID, &cust.UserID, &cust.CustomerID, &cust.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer for product %s: %w", productID, err)
	}
	return cust, nil
}

// Delete removes the shadow customer record with the given ID.
func (s *PostgresCustomerStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM stripe_customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	return nil
}
