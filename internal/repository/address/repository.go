package address

import (
	"context"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB matches the subset of *pgxpool.Pool this repository uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type CreateAddressInput struct {
	UserID     string
	FullName   string
	Phone      string
	Street     string
	City       string
	Province   string
	PostalCode string
	IsDefault  bool
}

type Repository interface {
	Create(ctx context.Context, in CreateAddressInput) (*domain.Address, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Address, error)
	LatestByUser(ctx context.Context, userID string) (*domain.Address, error)
}
