package order

import (
	"context"
	"os"
	"testing"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the repository against a real database. Set TEST_DB_DSN to a
// disposable Postgres instance to enable it.
func TestOrderRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, migrate.Apply(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE users, tokens, addresses, carts, cart_lines, orders, order_lines CASCADE`)
	require.NoError(t, err)

	var userID string
	require.NoError(t, pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash) VALUES ('it@example.com', 'x') RETURNING id::text
`).Scan(&userID))

	var addressID string
	require.NoError(t, pool.QueryRow(ctx, `
INSERT INTO addresses (user_id, full_name, phone, street, city, province)
VALUES ($1, 'IT User', '0551234567', '1 Test St', 'Algiers', '16')
RETURNING id::text
`, userID).Scan(&addressID))

	repo := NewPostgres(pool)

	_, err = repo.LastOrderNumber(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created, err := repo.Create(ctx, CreateOrderInput{
		OrderNumber:      "ORD-000001",
		UserID:           userID,
		AddressID:        addressID,
		TotalCents:       2400,
		DeliveryFeeCents: 400,
		PaymentMethod:    domain.PaymentMethodCOD,
		Notes:            "ring twice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.OrderStatusPending, created.OrderStatus)
	assert.Equal(t, domain.PaymentStatusPending, created.PaymentStatus)

	// The unique constraint turns a number race into a typed conflict.
	_, err = repo.Create(ctx, CreateOrderInput{
		OrderNumber:   "ORD-000001",
		UserID:        userID,
		AddressID:     addressID,
		TotalCents:    100,
		PaymentMethod: domain.PaymentMethodCOD,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	require.NoError(t, repo.CreateLines(ctx, created.ID, []LineInput{
		{ProductID: "P1", Quantity: 2, UnitPriceCents: 1000, Size: "M"},
		{ProductID: "P2", Quantity: 1, UnitPriceCents: 1299},
	}))

	number, err := repo.LastOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-000001", number)

	got, err := repo.GetByID(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ring twice", got.Notes)
	require.Len(t, got.Lines, 2)

	latest, err := repo.LatestByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, latest.ID)

	status := domain.OrderStatusConfirmed
	updated, err := repo.UpdateStatus(ctx, created.ID, StatusUpdate{OrderStatus: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, updated.OrderStatus)
}
