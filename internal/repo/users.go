package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Users struct{ pool *pgxpool.Pool }

func NewUsers(p *pgxpool.Pool) *Users { return &Users{pool: p} }

// Upsert registers a user on first sighting and refreshes display metadata
// afterwards. joined_at and verified are never touched by a re-upsert.
func (r *Users) Upsert(ctx context.Context, id int64, firstName, username *string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users(id, first_name, username)
		VALUES($1,$2,$3)
		ON CONFLICT (id) DO UPDATE
		SET first_name=EXCLUDED.first_name,
			username=EXCLUDED.username
	`, id, firstName, username)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", id, err)
	}
	return nil
}

func (r *Users) IsVerified(ctx context.Context, id int64) (bool, error) {
	var v bool
	err := r.pool.QueryRow(ctx, `SELECT verified FROM users WHERE id=$1`, id).Scan(&v)
	if err != nil {
		return false, fmt.Errorf("read verified for %d: %w", id, err)
	}
	return v, nil
}

func (r *Users) SetVerified(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET verified=TRUE WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("set verified for %d: %w", id, err)
	}
	return nil
}

func (r *Users) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

// ListIDsExcept returns every registered user id except the given one.
// Used as the broadcast target list.
func (r *Users) ListIDsExcept(ctx context.Context, except int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users WHERE id <> $1`, except)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if e := rows.Scan(&id); e != nil {
			return nil, e
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
