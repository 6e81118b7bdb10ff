package cart

import (
	"context"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB matches the subset of *pgxpool.Pool this repository uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type AddItemInput struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
	Size           string
	Color          string
}

type Repository interface {
	// GetOrCreateActive returns the user's active cart, creating an empty
	// one if none exists.
	GetOrCreateActive(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, in AddItemInput) error
	ChangeLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	// Clear marks the active cart ordered so the next read starts fresh.
	Clear(ctx context.Context, cartID string) error
}
