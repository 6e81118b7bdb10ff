package cart

import (
	"context"
	"errors"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
)

type postgresRepo struct {
	db DB
}

func NewPostgres(db DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetOrCreateActive(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT id::text, user_id::text, state, created_at
FROM carts
WHERE user_id = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`
	cart, err := r.fetchCart(ctx, q, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	const insert = `
INSERT INTO carts (user_id, state)
VALUES ($1, 'active')
RETURNING id::text, user_id::text, state, created_at
`
	var created domain.Cart
	if err := r.db.QueryRow(ctx, insert, userID).Scan(
		&created.ID,
		&created.UserID,
		&created.State,
		&created.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID string, in AddItemInput) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lineID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_lines
WHERE cart_id = $1 AND product_id = $2 AND size = $3 AND color = $4
`, cartID, in.ProductID, in.Size, in.Color).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE id = $2
`, existingQty+in.Quantity, lineID); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity, unit_price_cents, size, color)
VALUES ($1, $2, $3, $4, $5, $6)
`, cartID, in.ProductID, in.Quantity, in.UnitPriceCents, in.Size, in.Color); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) ChangeLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error {
	if quantity <= 0 {
		cmd, err := r.db.Exec(ctx, `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`, lineID, cartID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	}

	cmd, err := r.db.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE id = $2 AND cart_id = $3
`, quantity, lineID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	cmd, err := r.db.Exec(ctx, `
UPDATE carts
SET state = 'ordered'
WHERE id = $1 AND state = 'active'
`, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...any) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.State,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, cart_id::text, product_id, quantity, unit_price_cents, size, color, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.db.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.Size,
			&line.Color,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}
