package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/domain"
)

type Listings struct{ pool *pgxpool.Pool }

func NewListings(p *pgxpool.Pool) *Listings { return &Listings{pool: p} }

// Insert stores a completed listing and returns its id. Drafts never reach
// this call with missing fields; the schema CHECKs back that up.
func (r *Listings) Insert(ctx context.Context, l domain.Listing) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO listings(user_id, username, kind, group_name, member_count, established, price, contact)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, l.UserID, l.Username, l.Kind, l.GroupName, l.MemberCount, l.Established, l.Price, l.Contact).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert listing: %w", err)
	}
	return id, nil
}

// MarkDeletedIfActive soft-deletes a listing only while it is still ACTIVE.
// Returns whether a row actually changed, so a repeat delete reports false
// instead of erroring.
func (r *Listings) MarkDeletedIfActive(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE listings
		SET status=$1
		WHERE id=$2 AND status=$3
	`, domain.StatusDeleted, id, domain.StatusActive)
	if err != nil {
		return false, fmt.Errorf("delete listing %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Listings) ListActive(ctx context.Context, limit int) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, username, kind, group_name, member_count, established, price, contact, status, created_at
		FROM listings
		WHERE status=$1
		ORDER BY id
		LIMIT $2
	`, domain.StatusActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if e := rows.Scan(&l.ID, &l.UserID, &l.Username, &l.Kind, &l.GroupName,
			&l.MemberCount, &l.Established, &l.Price, &l.Contact, &l.Status, &l.CreatedAt); e != nil {
			return nil, e
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Listings) CountByStatus(ctx context.Context, status domain.ListingStatus) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM listings WHERE status=$1`, status).Scan(&n)
	return n, err
}

func (r *Listings) CountActiveByKind(ctx context.Context, kind domain.Kind) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM listings WHERE status=$1 AND kind=$2`,
		domain.StatusActive, kind).Scan(&n)
	return n, err
}
