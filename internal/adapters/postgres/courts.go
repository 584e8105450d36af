package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tucancha/court-booking/internal/domain"
)

// AddCourts inserts a batch of courts for one venue inside the caller's
// transaction. Inserts stay sequential; a tx carries one connection.
func (r *Repository) AddCourts(ctx context.Context, tx pgx.Tx, venueID uuid.UUID, courts []domain.Court) error {
	for _, court := range courts {
		_, err := tx.Exec(ctx, `
			INSERT INTO courts (id, venue_id, name, type, price_per_hour, is_active, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, court.ID, venueID, court.Name, court.Type, court.PricePerHour, court.IsActive, court.ImageURL)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) GetCourt(ctx context.Context, id uuid.UUID) (*domain.Court, error) {
	var c domain.Court
	err := r.pool.QueryRow(ctx, `
		SELECT id, venue_id, name, type, price_per_hour, is_active, image_url
		FROM courts WHERE id = $1
	`, id).Scan(&c.ID, &c.VenueID, &c.Name, &c.Type, &c.PricePerHour, &c.IsActive, &c.ImageURL)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) UpdateCourt(ctx context.Context, c domain.Court) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE courts SET name = $2, type = $3, price_per_hour = $4, is_active = $5, image_url = $6
		WHERE id = $1
	`, c.ID, c.Name, c.Type, c.PricePerHour, c.IsActive, c.ImageURL)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCourt(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM courts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
