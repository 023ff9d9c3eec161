package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func TestAllowListStoreAll(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	store := NewPostgresAllowListStore(db)

	t.Run("returns all ids in order", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"external_id"}).
			AddRow("sub_a").
			AddRow("sub_b")
		mock.ExpectQuery(`SELECT external_id FROM stripe_subscriptions ORDER BY id ASC`).
			WillReturnRows(rows)

		ids, err := store.All(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"sub_a", "sub_b"}, ids)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table", func(t *testing.T) {
		mock.ExpectQuery(`SELECT external_id FROM stripe_subscriptions ORDER BY id ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"external_id"}))

		ids, err := store.All(context.Background())
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT external_id FROM stripe_subscriptions`).
			WillReturnError(errors.New("connection refused"))

		_, err := store.All(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query allow-listed subscriptions")
	})
}

func TestAllowListStoreDelete(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	store := NewPostgresAllowListStore(db)

	t.Run("deletes by external id", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM stripe_subscriptions WHERE external_id = \$1`).
			WithArgs("sub_a").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.DeleteByExternalID(context.Background(), "sub_a")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM stripe_subscriptions WHERE external_id = \$1`).
			WithArgs("sub_missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.DeleteByExternalID(context.Background(), "sub_missing")
		require.NoError(t, err)
	})
}

func TestInternalStoreAll(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	store := NewPostgresInternalStore(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "product_id", "status", "user_id", "created_at", "next_due"}).
		AddRow(1, "prod_a", StatusActive, 42, now, now.AddDate(0, 1, 0)).
		AddRow(2, "prod_b", StatusCancelled, 43, now, now)
	mock.ExpectQuery(`SELECT id, product_id, status, user_id, created_at, next_due FROM internal_subscriptions ORDER BY id ASC`).
		WillReturnRows(rows)

	subs, err := store.All(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, int64(1), subs[0].ID)
	assert.Equal(t, "prod_a", subs[0].ProductID)
	assert.Equal(t, int64(42), subs[0].UserID)
	assert.Equal(t, StatusCancelled, subs[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInternalStoreGet(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	store := NewPostgresInternalStore(db)

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "product_id", "status", "user_id", "created_at", "next_due"}).
			AddRow(4, "prod_a", StatusActive, 42, now, now)
		mock.ExpectQuery(`SELECT id, product_id, status, user_id, created_at, next_due FROM internal_subscriptions WHERE id = \$1`).
			WithArgs(int64(4)).
			WillReturnRows(rows)

		sub, err := store.Get(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, int64(4), sub.ID)
		assert.Equal(t, "internal_4", sub.ExternalID())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, product_id, status, user_id, created_at, next_due FROM internal_subscriptions WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := store.Get(context.Background(), 99)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrapped no-rows still maps to not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, product_id, status, user_id, created_at, next_due FROM internal_subscriptions WHERE id = \$1`).
			WithArgs(int64(100)).
			WillReturnError(fmt.Errorf("scan: %w", sql.ErrNoRows))

		_, err := store.Get(context.Background(), 100)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInternalStoreUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	store := NewPostgresInternalStore(db)

	mock.ExpectExec(`UPDATE internal_subscriptions SET status = \$1 WHERE id = \$2`).
		WithArgs(StatusCancelled, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateStatus(context.Background(), 4, StatusCancelled)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerStoreFind(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	store := NewPostgresCustomerStore(db)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "customer_id", "product_id"}).
			AddRow(11, 42, "cus_1", "prod_1")
		mock.ExpectQuery(`SELECT id, user_id, customer_id, product_id FROM stripe_customers WHERE product_id = \$1 AND customer_id = \$2`).
			WithArgs("prod_1", "cus_1").
			WillReturnRows(rows)

		cust, err := store.FindByProductAndCustomer(context.Background(), "prod_1", "cus_1")
		require.NoError(t, err)
		require.NotNil(t, cust)
		assert.Equal(t, int64(11), cust.ID)
		assert.Equal(t, int64(42), cust.UserID)
	})

	t.Run("absent returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, user_id, customer_id, product_id FROM stripe_customers WHERE product_id = \$1 AND customer_id = \$2`).
			WithArgs("prod_1", "cus_missing").
			WillReturnError(sql.ErrNoRows)

		cust, err := store.FindByProductAndCustomer(context.Background(), "prod_1", "cus_missing")
		require.NoError(t, err)
		assert.Nil(t, cust)
	})
}

func TestCustomerStoreDelete(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	store := NewPostgresCustomerStore(db)

	mock.ExpectExec(`DELETE FROM stripe_customers WHERE id = \$1`).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Delete(context.Background(), 11)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
