package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type userSeed struct {
	Email    string
	Password string
	FullName string
	IsAdmin  bool
}

type lineSeed struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
	Size           string
	Color          string
}

// Apply inserts demo users and a stocked cart for manual testing. It is
// idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	users := []userSeed{
		{Email: "admin@example.com", Password: "Admin1234", FullName: "Back Office", IsAdmin: true},
		{Email: "shopper@example.com", Password: "Shopper1234", FullName: "Demo Shopper"},
	}

	var shopperID string
	for _, u := range users {
		id, err := ensureUser(ctx, pool, u)
		if err != nil {
			return fmt.Errorf("ensure user %s: %w", u.Email, err)
		}
		if !u.IsAdmin {
			shopperID = id
		}
	}

	lines := []lineSeed{
		{ProductID: "tee-classic", Quantity: 2, UnitPriceCents: 1999, Size: "M", Color: "black"},
		{ProductID: "mug-logo", Quantity: 1, UnitPriceCents: 1299},
	}
	if err := ensureCart(ctx, pool, shopperID, lines); err != nil {
		return fmt.Errorf("ensure cart: %w", err)
	}

	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, u userSeed) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	const q = `
INSERT INTO users (email, password_hash, full_name, is_admin)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, u.Email, string(hashed), u.FullName, u.IsAdmin).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureCart(ctx context.Context, pool *pgxpool.Pool, userID string, lines []lineSeed) error {
	var cartID string
	err := pool.QueryRow(ctx, `
SELECT id::text FROM carts WHERE user_id = $1 AND state = 'active' LIMIT 1
`, userID).Scan(&cartID)
	if err == nil {
		return nil // already stocked on a previous run
	}

	if err := pool.QueryRow(ctx, `
INSERT INTO carts (user_id, state) VALUES ($1, 'active') RETURNING id::text
`, userID).Scan(&cartID); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := pool.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity, unit_price_cents, size, color)
VALUES ($1, $2, $3, $4, $5, $6)
`, cartID, l.ProductID, l.Quantity, l.UnitPriceCents, l.Size, l.Color); err != nil {
			return err
		}
	}
	return nil
}
