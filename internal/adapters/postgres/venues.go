package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tucancha/court-booking/internal/domain"
)

const venueColumns = `
	id, owner_id, name, address, latitude, longitude, image_url,
	opening_hours, amenities, contact_info, is_active, created_at`

func scanVenue(row pgx.Row) (domain.Venue, error) {
	var v domain.Venue
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Address, &v.Latitude, &v.Longitude,
		&v.ImageURL, &v.OpeningHours, &v.Amenities, &v.ContactInfo, &v.IsActive, &v.CreatedAt)
	return v, err
}

// ListActiveVenues is the player-facing listing: active venues only,
// alphabetical, with their courts attached.
func (r *Repository) ListActiveVenues(ctx context.Context) ([]domain.Venue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+venueColumns+`
		FROM venues WHERE is_active ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectVenues(ctx, rows)
}

// ListOwnerVenues returns every venue the owner has, newest first,
// active or not.
func (r *Repository) ListOwnerVenues(ctx context.Context, ownerID uuid.UUID) ([]domain.Venue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+venueColumns+`
		FROM venues WHERE owner_id = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectVenues(ctx, rows)
}

func (r *Repository) collectVenues(ctx context.Context, rows pgx.Rows) ([]domain.Venue, error) {
	var venues []domain.Venue
	var ids []uuid.UUID
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return venues, nil
	}

	courtRows, err := r.pool.Query(ctx, `
		SELECT id, venue_id, name, type, price_per_hour, is_active, image_url
		FROM courts WHERE venue_id = ANY($1) ORDER BY name
	`, ids)
	if err != nil {
		return nil, err
	}
	defer courtRows.Close()

	byVenue := make(map[uuid.UUID][]domain.Court)
	for courtRows.Next() {
		var c domain.Court
		if err := courtRows.Scan(&c.ID, &c.VenueID, &c.Name, &c.Type, &c.PricePerHour, &c.IsActive, &c.ImageURL); err != nil {
			return nil, err
		}
		byVenue[c.VenueID] = append(byVenue[c.VenueID], c)
	}
	if err := courtRows.Err(); err != nil {
		return nil, err
	}
	for i := range venues {
		venues[i].Courts = byVenue[venues[i].ID]
	}
	return venues, nil
}

func (r *Repository) GetVenue(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	v, err := scanVenue(r.pool.QueryRow(ctx, `
		SELECT `+venueColumns+`
		FROM venues WHERE id = $1
	`, id))
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, venue_id, name, type, price_per_hour, is_active, image_url
		FROM courts WHERE venue_id = $1 ORDER BY name
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.Court
		if err := rows.Scan(&c.ID, &c.VenueID, &c.Name, &c.Type, &c.PricePerHour, &c.IsActive, &c.ImageURL); err != nil {
			return nil, err
		}
		v.Courts = append(v.Courts, c)
	}
	return &v, rows.Err()
}

func (r *Repository) CreateVenue(ctx context.Context, tx pgx.Tx, v domain.Venue) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO venues (id, owner_id, name, address, latitude, longitude, image_url,
			opening_hours, amenities, contact_info, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true)
	`, v.ID, v.OwnerID, v.Name, v.Address, v.Latitude, v.Longitude, v.ImageURL,
		v.OpeningHours, v.Amenities, v.ContactInfo)
	return err
}

func (r *Repository) UpdateVenue(ctx context.Context, v domain.Venue) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE venues SET name = $2, address = $3, latitude = $4, longitude = $5,
			image_url = $6, opening_hours = $7, amenities = $8, contact_info = $9,
			is_active = $10
		WHERE id = $1
	`, v.ID, v.Name, v.Address, v.Latitude, v.Longitude, v.ImageURL,
		v.OpeningHours, v.Amenities, v.ContactInfo, v.IsActive)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteVenue(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
