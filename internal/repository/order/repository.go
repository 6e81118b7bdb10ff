package order

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
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

type CreateOrderInput struct {
	OrderNumber      string
	UserID           string
	AddressID        string
	TotalCents       int64
	DeliveryFeeCents int64
	PaymentMethod    string
	Notes            string
}

type LineInput struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
	Size           string
	Color          string
}

type StatusUpdate struct {
	OrderStatus   *string
	PaymentStatus *string
}

type Repository interface {
	// Create persists the order header with pending statuses. A duplicate
	// order number surfaces as domain.ErrAlreadyExists.
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	// CreateLines writes all lines for an order as one batched insert.
	CreateLines(ctx context.Context, orderID string, lines []LineInput) error
	// LastOrderNumber returns the number of the most recently created order,
	// or domain.ErrNotFound when no order exists yet.
	LastOrderNumber(ctx context.Context) (string, error)
	// LatestByUser returns the most recently created order for a user.
	LatestByUser(ctx context.Context, userID string) (*domain.Order, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, in StatusUpdate) (*domain.Order, error)
}
