package order

import (
	"context"
	"testing"
	"time"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func orderRow(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "order_number", "user_id", "address_id", "total_cents", "delivery_fee_cents",
		"payment_method", "payment_status", "order_status", "notes", "created_at", "updated_at",
	}).AddRow(
		"order-1", "ORD-000001", "user-1", "addr-1", int64(2400), int64(400),
		"cod", "pending", "pending", (*string)(nil), now, now,
	)
}

func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs("ORD-000001", "user-1", "addr-1", int64(2400), int64(400), "cod", "").
		WillReturnRows(orderRow(now))

	repo := NewPostgres(mock)
	o, err := repo.Create(context.Background(), CreateOrderInput{
		OrderNumber:      "ORD-000001",
		UserID:           "user-1",
		AddressID:        "addr-1",
		TotalCents:       2400,
		DeliveryFeeCents: 400,
		PaymentMethod:    "cod",
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", o.ID)
	assert.Equal(t, "ORD-000001", o.OrderNumber)
	assert.Equal(t, domain.PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, domain.OrderStatusPending, o.OrderStatus)
	assert.Empty(t, o.Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs("ORD-000001", "user-1", "addr-1", int64(2400), int64(400), "cod", "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"})

	repo := NewPostgres(mock)
	_, err = repo.Create(context.Background(), CreateOrderInput{
		OrderNumber:      "ORD-000001",
		UserID:           "user-1",
		AddressID:        "addr-1",
		TotalCents:       2400,
		DeliveryFeeCents: 400,
		PaymentMethod:    "cod",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLines(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(
		pgx.Identifier{"order_lines"},
		[]string{"order_id", "product_id", "quantity", "unit_price_cents", "size", "color"},
	).WillReturnResult(2)

	repo := NewPostgres(mock)
	err = repo.CreateLines(context.Background(), "order-1", []LineInput{
		{ProductID: "P1", Quantity: 2, UnitPriceCents: 1000, Size: "M", Color: "black"},
		{ProductID: "P2", Quantity: 1, UnitPriceCents: 1299},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLinesShortWrite(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(
		pgx.Identifier{"order_lines"},
		[]string{"order_id", "product_id", "quantity", "unit_price_cents", "size", "color"},
	).WillReturnResult(1)

	repo := NewPostgres(mock)
	err = repo.CreateLines(context.Background(), "order-1", []LineInput{
		{ProductID: "P1", Quantity: 2, UnitPriceCents: 1000},
		{ProductID: "P2", Quantity: 1, UnitPriceCents: 1299},
	})
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLastOrderNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT order_number`).
		WillReturnRows(pgxmock.NewRows([]string{"order_number"}).AddRow("ORD-000458"))

	repo := NewPostgres(mock)
	number, err := repo.LastOrderNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-000458", number)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLastOrderNumberEmptyStore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT order_number`).WillReturnError(pgx.ErrNoRows)

	repo := NewPostgres(mock)
	_, err = repo.LastOrderNumber(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestByUserNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM orders`).WithArgs("user-1").WillReturnError(pgx.ErrNoRows)

	repo := NewPostgres(mock)
	_, err = repo.LatestByUser(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDLoadsLines(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM orders`).WithArgs("user-1", "order-1").WillReturnRows(orderRow(now))
	mock.ExpectQuery(`FROM order_lines`).WithArgs("order-1").WillReturnRows(
		pgxmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price_cents", "size", "color"}).
			AddRow("line-1", "order-1", "P1", 2, int64(1000), "M", "black"),
	)

	repo := NewPostgres(mock)
	o, err := repo.GetByID(context.Background(), "user-1", "order-1")
	require.NoError(t, err)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "P1", o.Lines[0].ProductID)
	assert.Equal(t, int64(1000), o.Lines[0].UnitPriceCents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "order_number", "user_id", "address_id", "total_cents", "delivery_fee_cents",
		"payment_method", "payment_status", "order_status", "notes", "created_at", "updated_at",
	}).AddRow(
		"order-1", "ORD-000001", "user-1", "addr-1", int64(2400), int64(400),
		"cod", "pending", "confirmed", strPtr("call first"), now, now,
	)
	mock.ExpectQuery(`UPDATE orders`).
		WithArgs("order-1", strPtr("confirmed"), (*string)(nil)).
		WillReturnRows(rows)

	repo := NewPostgres(mock)
	o, err := repo.UpdateStatus(context.Background(), "order-1", StatusUpdate{OrderStatus: strPtr("confirmed")})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", o.OrderStatus)
	assert.Equal(t, "call first", o.Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE orders`).
		WithArgs("missing", strPtr("confirmed"), (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgres(mock)
	_, err = repo.UpdateStatus(context.Background(), "missing", StatusUpdate{OrderStatus: strPtr("confirmed")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
