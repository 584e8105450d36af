package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tucancha/court-booking/internal/domain"
)

const bookingSelect = `
	SELECT b.id, b.venue_id, b.court_id, b.player_id, b.date, b.start_time,
		b.price, b.status, b.created_at,
		v.name, c.name, c.type, p.full_name, p.email, p.phone
	FROM bookings b
	JOIN venues v ON v.id = b.venue_id
	JOIN courts c ON c.id = b.court_id
	JOIN profiles p ON p.id = b.player_id`

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		err := rows.Scan(&b.ID, &b.VenueID, &b.CourtID, &b.PlayerID, &b.Date, &b.StartTime,
			&b.Price, &b.Status, &b.CreatedAt,
			&b.VenueName, &b.CourtName, &b.CourtType, &b.PlayerName, &b.PlayerEmail, &b.PlayerPhone)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListPlayerBookings is the player's own history, newest date first.
func (r *Repository) ListPlayerBookings(ctx context.Context, playerID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, bookingSelect+`
		WHERE b.player_id = $1 ORDER BY b.date DESC, b.start_time
	`, playerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListOwnerBookings covers every booking across the owner's venues. The
// per-role visibility the hosted backend enforced with row policies is
// enforced here by the join.
func (r *Repository) ListOwnerBookings(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, bookingSelect+`
		WHERE v.owner_id = $1 ORDER BY b.date DESC, b.start_time
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *Repository) ListVenueBookings(ctx context.Context, venueID uuid.UUID, date string) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, bookingSelect+`
		WHERE b.venue_id = $1 AND b.date = $2 ORDER BY b.start_time
	`, venueID, date)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// CreateBooking inserts one hour row. The insert carries its own guards so
// the taken-hour checks and the write are one atomic statement: a second
// ACTIVE booking for the same court, date and hour trips the partial unique
// index, an owner-blocked hour fails the disabled_slots predicate, and an
// inactive court or venue fails the activity predicate. All three surface as
// ErrConflict.
func (r *Repository) CreateBooking(ctx context.Context, tx pgx.Tx, b domain.Booking) error {
	result, err := tx.Exec(ctx, `
		INSERT INTO bookings (id, venue_id, court_id, player_id, date, start_time, price, status)
		SELECT $1, $2, $3, $4, $5, $6, $7, 'ACTIVE'
		WHERE NOT EXISTS (
			SELECT 1 FROM disabled_slots d
			WHERE d.court_id = $3 AND d.date = $5 AND d.time_slot = $6
		)
		AND EXISTS (
			SELECT 1 FROM courts c
			JOIN venues v ON v.id = c.venue_id
			WHERE c.id = $3 AND c.is_active AND v.is_active
		)
		ON CONFLICT (court_id, date, start_time) WHERE status = 'ACTIVE' DO NOTHING
	`, b.ID, b.VenueID, b.CourtID, b.PlayerID, b.Date, b.StartTime, b.Price)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// UpdateBookingStatus moves a booking out of ACTIVE. The status predicate
// makes CANCELLED and COMPLETED terminal at the row itself, so two racing
// writers cannot both land; the loser gets ErrConflict.
func (r *Repository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE bookings SET status = $2 WHERE id = $1 AND status = 'ACTIVE'
	`, id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetBooking(ctx, id); err != nil {
			return err
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *Repository) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	rows, err := r.pool.Query(ctx, bookingSelect+` WHERE b.id = $1`, id)
	if err != nil {
		return nil, err
	}
	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domain.ErrNotFound
	}
	return &bookings[0], nil
}

func (r *Repository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListFinishedActive returns ACTIVE bookings whose hour has already passed:
// any earlier date, or today's rows whose start hour is behind the cutoff.
func (r *Repository) ListFinishedActive(ctx context.Context, today, cutoffTime string) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, bookingSelect+`
		WHERE b.status = 'ACTIVE' AND (b.date < $1 OR (b.date = $1 AND b.start_time < $2))
	`, today, cutoffTime)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}
