package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tucancha/court-booking/internal/domain"
)

func (r *Repository) ListDisabledSlots(ctx context.Context, venueID uuid.UUID, date string) ([]domain.DisabledSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, venue_id, court_id, date, time_slot, created_by, reason, created_at
		FROM disabled_slots WHERE venue_id = $1 AND date = $2
	`, venueID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.DisabledSlot
	for rows.Next() {
		var s domain.DisabledSlot
		err := rows.Scan(&s.ID, &s.VenueID, &s.CourtID, &s.Date, &s.TimeSlot, &s.CreatedBy, &s.Reason, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// FindDisabledSlot looks up the block row for one court hour, the existence
// check the toggler runs before deciding to insert or delete.
func (r *Repository) FindDisabledSlot(ctx context.Context, venueID, courtID uuid.UUID, date, timeSlot string) (*domain.DisabledSlot, error) {
	var s domain.DisabledSlot
	err := r.pool.QueryRow(ctx, `
		SELECT id, venue_id, court_id, date, time_slot, created_by, reason, created_at
		FROM disabled_slots
		WHERE venue_id = $1 AND court_id = $2 AND date = $3 AND time_slot = $4
	`, venueID, courtID, date, timeSlot).Scan(&s.ID, &s.VenueID, &s.CourtID, &s.Date, &s.TimeSlot, &s.CreatedBy, &s.Reason, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) GetDisabledSlot(ctx context.Context, id uuid.UUID) (*domain.DisabledSlot, error) {
	var s domain.DisabledSlot
	err := r.pool.QueryRow(ctx, `
		SELECT id, venue_id, court_id, date, time_slot, created_by, reason, created_at
		FROM disabled_slots WHERE id = $1
	`, id).Scan(&s.ID, &s.VenueID, &s.CourtID, &s.Date, &s.TimeSlot, &s.CreatedBy, &s.Reason, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) CreateDisabledSlot(ctx context.Context, s domain.DisabledSlot) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO disabled_slots (id, venue_id, court_id, date, time_slot, created_by, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.VenueID, s.CourtID, s.Date, s.TimeSlot, s.CreatedBy, s.Reason)
	return err
}

// DeleteDisabledSlot is a no-op when the row is already gone; a second
// delete of the same block must not fail.
func (r *Repository) DeleteDisabledSlot(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM disabled_slots WHERE id = $1`, id)
	return err
}
