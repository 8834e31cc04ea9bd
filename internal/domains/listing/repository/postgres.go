package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"directory-backend/internal/domains/listing/model"
	"directory-backend/pkg/database"
)

type postgresListingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresListingRepository creates the pgx-backed repository.
func NewPostgresListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &postgresListingRepository{pool: pool}
}

const listingColumns = `
	id, owner_id, name, slug, category, description,
	address, city, phone, email, website,
	images, cover_url, status, visible,
	created_at, updated_at, deleted_at`

func scanListing(row pgx.Row) (*model.Listing, error) {
	var l model.Listing
	err := row.Scan(
		&l.ID, &l.OwnerID, &l.Name, &l.Slug, &l.Category, &l.Description,
		&l.Address, &l.City, &l.Phone, &l.Email, &l.Website,
		pq.Array(&l.Images), &l.CoverURL, &l.Status, &l.Visible,
		&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}
	return &l, nil
}

func (r *postgresListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	query := `
		INSERT INTO listings (
			id, owner_id, name, slug, category, description,
			address, city, phone, email, website,
			images, cover_url, status, visible,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17
		)`

	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		listing.ID, listing.OwnerID, listing.Name, listing.Slug, listing.Category, listing.Description,
		listing.Address, listing.City, listing.Phone, listing.Email, listing.Website,
		pq.Array(listing.Images), listing.CoverURL, listing.Status, listing.Visible,
		listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugExists
		}
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Update writes the complete row, images array included, in a single
// statement.
func (r *postgresListingRepository) Update(ctx context.Context, listing *model.Listing) error {
	query := `
		UPDATE listings SET
			name = $2, slug = $3, category = $4, description = $5,
			address = $6, city = $7, phone = $8, email = $9, website = $10,
			images = $11, cover_url = $12, updated_at = $13
		WHERE id = $1 AND deleted_at IS NULL`

	listing.UpdatedAt = time.Now()

	tag, err := r.pool.Exec(ctx, query,
		listing.ID,
		listing.Name, listing.Slug, listing.Category, listing.Description,
		listing.Address, listing.City, listing.Phone, listing.Email, listing.Website,
		pq.Array(listing.Images), listing.CoverURL, listing.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugExists
		}
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrListingNotFound
	}
	return nil
}

func (r *postgresListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	query := `SELECT` + listingColumns + ` FROM listings WHERE id = $1 AND deleted_at IS NULL`
	return scanListing(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresListingRepository) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	query := `SELECT` + listingColumns + ` FROM listings WHERE slug = $1 AND deleted_at IS NULL`
	return scanListing(r.pool.QueryRow(ctx, query, slug))
}

func (r *postgresListingRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Listing, int64, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argPos := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.OwnerID != "" {
		addCondition("owner_id = $%d", filter.OwnerID)
	}
	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if filter.City != "" {
		addCondition("city = $%d", filter.City)
	}
	if filter.Status != "" {
		addCondition("status = $%d", filter.Status)
	}
	if filter.Search != "" {
		addCondition("name ILIKE $%d", "%"+filter.Search+"%")
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM listings WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	query := fmt.Sprintf(`SELECT%s FROM listings WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		listingColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, err
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate listings: %w", err)
	}

	return listings, total, nil
}

func (r *postgresListingRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM listings WHERE slug = $1)`
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *postgresListingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ListingStatus) error {
	query := `
		UPDATE listings
		SET status = $2, visible = ($2 = 'approved'), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update listing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrListingNotFound
	}
	return nil
}

// TransferOwnership reads and reassigns the owner in one transaction
// so concurrent transfers cannot interleave.
func (r *postgresListingRepository) TransferOwnership(ctx context.Context, id, newOwnerID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var currentOwner uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT owner_id FROM listings WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
			id,
		).Scan(&currentOwner)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrListingNotFound
			}
			return fmt.Errorf("failed to lock listing: %w", err)
		}
		if currentOwner == newOwnerID {
			return model.ErrOwnerUnchanged
		}

		_, err = tx.Exec(ctx,
			`UPDATE listings SET owner_id = $2, updated_at = NOW() WHERE id = $1`,
			id, newOwnerID,
		)
		if err != nil {
			return fmt.Errorf("failed to transfer listing ownership: %w", err)
		}
		return nil
	})
}

func (r *postgresListingRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE listings SET deleted_at = NOW(), visible = FALSE
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrListingNotFound
	}
	return nil
}

// ListTrashedBefore returns soft-deleted listings older than the
// cutoff, for the nightly purge.
func (r *postgresListingRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]model.Listing, error) {
	query := `SELECT` + listingColumns + ` FROM listings WHERE deleted_at IS NOT NULL AND deleted_at < $1`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed listings: %w", err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

func (r *postgresListingRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to purge listing: %w", err)
	}
	return nil
}
