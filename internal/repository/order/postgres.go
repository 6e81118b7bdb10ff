package order

import (
	"context"
	"errors"
	"fmt"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type postgresRepo struct {
	db DB
}

func NewPostgres(db DB) Repository {
	return &postgresRepo{db: db}
}

const orderColumns = `id::text, order_number, user_id::text, address_id::text, total_cents, delivery_fee_cents, payment_method, payment_status, order_status, notes, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	const q = `
INSERT INTO orders (order_number, user_id, address_id, total_cents, delivery_fee_cents, payment_method, payment_status, order_status, notes)
VALUES ($1, $2, $3, $4, $5, $6, 'pending', 'pending', $7)
RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRow(ctx, q,
		in.OrderNumber, in.UserID, in.AddressID, in.TotalCents, in.DeliveryFeeCents, in.PaymentMethod, in.Notes))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) CreateLines(ctx context.Context, orderID string, lines []LineInput) error {
	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []any{orderID, line.ProductID, line.Quantity, line.UnitPriceCents, line.Size, line.Color})
	}

	copied, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"order_lines"},
		[]string{"order_id", "product_id", "quantity", "unit_price_cents", "size", "color"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy order lines: %w", err)
	}
	if copied != int64(len(lines)) {
		return fmt.Errorf("copy order lines: wrote %d of %d", copied, len(lines))
	}
	return nil
}

func (r *postgresRepo) LastOrderNumber(ctx context.Context) (string, error) {
	const q = `
SELECT order_number
FROM orders
ORDER BY created_at DESC, order_number DESC
LIMIT 1
`
	var number string
	if err := r.db.QueryRow(ctx, q).Scan(&number); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return number, nil
}

func (r *postgresRepo) LatestByUser(ctx context.Context, userID string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.fetchOne(ctx, q, userID)
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1 AND id = $2
`
	o, err := r.fetchOne(ctx, q, userID, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.fetchMany(ctx, q, userID)
}

func (r *postgresRepo) List(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`
	return r.fetchMany(ctx, q, limit, offset)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, in StatusUpdate) (*domain.Order, error) {
	const q = `
UPDATE orders
SET order_status = COALESCE($2, order_status),
    payment_status = COALESCE($3, payment_status),
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRow(ctx, q, id, in.OrderStatus, in.PaymentStatus))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, args ...any) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) fetchMany(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) loadLines(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT id::text, order_id::text, product_id, quantity, unit_price_cents, size, color
FROM order_lines
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := r.db.Query(ctx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.Size,
			&line.Color,
		); err != nil {
			return err
		}
		o.Lines = append(o.Lines, line)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var notes *string
	if err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.AddressID,
		&o.TotalCents,
		&o.DeliveryFeeCents,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.OrderStatus,
		&notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if notes != nil {
		o.Notes = *notes
	}
	return &o, nil
}
