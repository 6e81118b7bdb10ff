package address

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

const addressColumns = `id::text, user_id::text, full_name, phone, street, city, province, postal_code, is_default, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateAddressInput) (*domain.Address, error) {
	const q = `
INSERT INTO addresses (user_id, full_name, phone, street, city, province, postal_code, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + addressColumns
	return r.scanOne(r.db.QueryRow(ctx, q,
		in.UserID, in.FullName, in.Phone, in.Street, in.City, in.Province, in.PostalCode, in.IsDefault))
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, id string) (*domain.Address, error) {
	const q = `
SELECT ` + addressColumns + `
FROM addresses
WHERE user_id = $1 AND id = $2
`
	return r.scanOne(r.db.QueryRow(ctx, q, userID, id))
}

// LatestByUser returns the most recently created address for a user. The
// resolver uses it to recover an id when a create was acknowledged without
// one.
func (r *postgresRepo) LatestByUser(ctx context.Context, userID string) (*domain.Address, error) {
	const q = `
SELECT ` + addressColumns + `
FROM addresses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.scanOne(r.db.QueryRow(ctx, q, userID))
}

func (r *postgresRepo) scanOne(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	var postal *string
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FullName,
		&a.Phone,
		&a.Street,
		&a.City,
		&a.Province,
		&postal,
		&a.IsDefault,
		&a.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if postal != nil {
		a.PostalCode = *postal
	}
	return &a, nil
}
