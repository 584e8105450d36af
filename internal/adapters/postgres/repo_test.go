package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tucancha/court-booking/internal/adapters/postgres"
	"github.com/tucancha/court-booking/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		role TEXT CHECK (role IN ('OWNER', 'PLAYER')),
		full_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS venues (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		image_url TEXT NOT NULL DEFAULT '',
		opening_hours TEXT NOT NULL DEFAULT '',
		amenities TEXT[] NOT NULL DEFAULT '{}',
		contact_info TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS courts (
		id UUID PRIMARY KEY,
		venue_id UUID NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		price_per_hour BIGINT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT true,
		image_url TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		venue_id UUID NOT NULL,
		court_id UUID NOT NULL,
		player_id UUID NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		price BIGINT NOT NULL DEFAULT 0,
		status TEXT CHECK (status IN ('ACTIVE', 'CANCELLED', 'COMPLETED')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE UNIQUE INDEX IF NOT EXISTS bookings_active_slot
		ON bookings (court_id, date, start_time) WHERE status = 'ACTIVE';
	CREATE TABLE IF NOT EXISTS disabled_slots (
		id UUID PRIMARY KEY,
		venue_id UUID NOT NULL,
		court_id UUID NOT NULL,
		date TEXT NOT NULL,
		time_slot TEXT NOT NULL,
		created_by UUID NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (venue_id, court_id, date, time_slot)
	);
	CREATE TABLE IF NOT EXISTS outbox (
		id UUID PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id UUID NOT NULL,
		event_type TEXT NOT NULL,
		payload_json BYTEA,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		published_at TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'NEW',
		dedupe_key TEXT NOT NULL DEFAULT ''
	);
`

func setupPool(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_DB": "cancha"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, "postgres://postgres:postgres@"+host+":"+port.Port()+"/cancha?sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatal(err)
	}
	return pool
}

func seedVenue(t *testing.T, ctx context.Context, repo *postgres.Repository, ownerID uuid.UUID) domain.Venue {
	t.Helper()
	venue := domain.Venue{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         "Club Central",
		Address:      "Avda. Espana 1234",
		OpeningHours: "08:00-23:00",
		Amenities:    []string{"parking", "showers"},
		IsActive:     true,
	}
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateVenue(ctx, tx, venue)
	})
	if err != nil {
		t.Fatal(err)
	}
	return venue
}

func TestRepository_VenueWithCourts(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t, ctx)
	repo := postgres.NewRepository(pool)

	ownerID := uuid.New()
	venue := seedVenue(t, ctx, repo, ownerID)

	courts := []domain.Court{
		{ID: uuid.New(), Name: "Padel 1", Type: "Padel", PricePerHour: 100000, IsActive: true},
		{ID: uuid.New(), Name: "Beach 1", Type: "Beach Tennis", PricePerHour: 80000, IsActive: true},
	}
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.AddCourts(ctx, tx, venue.ID, courts)
	})
	if err != nil {
		t.Fatal(err)
	}

	venues, err := repo.ListOwnerVenues(ctx, ownerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(venues) != 1 {
		t.Fatalf("expected 1 venue, got %d", len(venues))
	}
	if len(venues[0].Courts) != 2 {
		t.Errorf("expected 2 courts, got %d", len(venues[0].Courts))
	}

	// Deactivated venues drop out of the player listing but not the owner's.
	venue.IsActive = false
	if err := repo.UpdateVenue(ctx, venue); err != nil {
		t.Fatal(err)
	}
	active, err := repo.ListActiveVenues(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active venues, got %d", len(active))
	}
	owned, err := repo.ListOwnerVenues(ctx, ownerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(owned) != 1 {
		t.Errorf("expected owner to still see 1 venue, got %d", len(owned))
	}
}

func TestRepository_BookingConflict(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t, ctx)
	repo := postgres.NewRepository(pool)

	ownerID, playerID := uuid.New(), uuid.New()
	if err := repo.EnsureProfile(ctx, domain.Profile{ID: playerID, Role: domain.RolePlayer, FullName: "Juan"}); err != nil {
		t.Fatal(err)
	}
	venue := seedVenue(t, ctx, repo, ownerID)
	court := domain.Court{ID: uuid.New(), Name: "Padel 1", Type: "Padel", PricePerHour: 100000, IsActive: true}
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.AddCourts(ctx, tx, venue.ID, []domain.Court{court})
	})
	if err != nil {
		t.Fatal(err)
	}

	booking := domain.NewBooking(venue.ID, court.ID, playerID, "2026-03-10", "14:00", 100000)
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, booking)
	})
	if err != nil {
		t.Fatal(err)
	}

	dup := domain.NewBooking(venue.ID, court.ID, uuid.New(), "2026-03-10", "14:00", 100000)
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, dup)
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict for double-booked hour, got %v", err)
	}

	// Cancelling frees the hour for someone else.
	if err := repo.UpdateBookingStatus(ctx, booking.ID, domain.BookingCancelled); err != nil {
		t.Fatal(err)
	}
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, dup)
	})
	if err != nil {
		t.Errorf("expected rebooking after cancel to succeed, got %v", err)
	}

	// CANCELLED is terminal. A late completion attempt must not resurrect it.
	err = repo.UpdateBookingStatus(ctx, booking.ID, domain.BookingCompleted)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict completing a cancelled booking, got %v", err)
	}
	got, err := repo.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.BookingCancelled {
		t.Errorf("cancelled booking moved to %s", got.Status)
	}

	err = repo.UpdateBookingStatus(ctx, uuid.New(), domain.BookingCompleted)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found for unknown booking, got %v", err)
	}
}

func TestRepository_BookingRespectsBlocksAndActivity(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t, ctx)
	repo := postgres.NewRepository(pool)

	ownerID, playerID := uuid.New(), uuid.New()
	if err := repo.EnsureProfile(ctx, domain.Profile{ID: playerID, Role: domain.RolePlayer, FullName: "Juan"}); err != nil {
		t.Fatal(err)
	}
	venue := seedVenue(t, ctx, repo, ownerID)
	court := domain.Court{ID: uuid.New(), Name: "Padel 1", Type: "Padel", PricePerHour: 100000, IsActive: true}
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.AddCourts(ctx, tx, venue.ID, []domain.Court{court})
	})
	if err != nil {
		t.Fatal(err)
	}

	// An owner-blocked hour is not bookable, even straight at the database.
	slot := domain.NewDisabledSlot(venue.ID, court.ID, "2026-03-10", "14:00", ownerID, "")
	if err := repo.CreateDisabledSlot(ctx, slot); err != nil {
		t.Fatal(err)
	}
	blocked := domain.NewBooking(venue.ID, court.ID, playerID, "2026-03-10", "14:00", 100000)
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, blocked)
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict booking a blocked hour, got %v", err)
	}

	// Unblocking frees the hour again.
	if err := repo.DeleteDisabledSlot(ctx, slot.ID); err != nil {
		t.Fatal(err)
	}
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, blocked)
	})
	if err != nil {
		t.Fatalf("expected booking after unblock to succeed, got %v", err)
	}

	// Deactivated courts take no bookings.
	court.IsActive = false
	if err := repo.UpdateCourt(ctx, court); err != nil {
		t.Fatal(err)
	}
	inactive := domain.NewBooking(venue.ID, court.ID, playerID, "2026-03-10", "16:00", 100000)
	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.CreateBooking(ctx, tx, inactive)
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict booking an inactive court, got %v", err)
	}
}

func TestRepository_DisabledSlotLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t, ctx)
	repo := postgres.NewRepository(pool)

	venueID, courtID, ownerID := uuid.New(), uuid.New(), uuid.New()

	_, err := repo.FindDisabledSlot(ctx, venueID, courtID, "2026-03-10", "14:00")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	slot := domain.NewDisabledSlot(venueID, courtID, "2026-03-10", "14:00", ownerID, "")
	if err := repo.CreateDisabledSlot(ctx, slot); err != nil {
		t.Fatal(err)
	}
	if slot.Reason != "Manual lock" {
		t.Errorf("expected default reason, got %q", slot.Reason)
	}

	found, err := repo.FindDisabledSlot(ctx, venueID, courtID, "2026-03-10", "14:00")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != slot.ID {
		t.Errorf("expected slot %s, found %s", slot.ID, found.ID)
	}

	if err := repo.DeleteDisabledSlot(ctx, slot.ID); err != nil {
		t.Fatal(err)
	}
	// Second delete of the same row is a no-op, not an error.
	if err := repo.DeleteDisabledSlot(ctx, slot.ID); err != nil {
		t.Errorf("expected repeated delete to be a no-op, got %v", err)
	}
}

func TestRepository_OutboxClaimHoldsLock(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t, ctx)
	repo := postgres.NewRepository(pool)

	bookingID := uuid.New()
	if err := repo.Enqueue(ctx, "booking", bookingID, "booking.created", map[string]string{"id": bookingID.String()}); err != nil {
		t.Fatal(err)
	}

	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		claimed, err := repo.GetUnpublishedOutbox(ctx, tx, 10)
		if err != nil {
			return err
		}
		if len(claimed) != 1 {
			t.Fatalf("expected 1 claimed row, got %d", len(claimed))
		}

		// While the claim is open, a second publisher skips the locked batch.
		err = repo.WithTx(ctx, func(other pgx.Tx) error {
			rows, err := repo.GetUnpublishedOutbox(ctx, other, 10)
			if err != nil {
				return err
			}
			if len(rows) != 0 {
				t.Errorf("expected concurrent claim to skip locked rows, got %d", len(rows))
			}
			return nil
		})
		if err != nil {
			return err
		}

		return repo.MarkPublished(ctx, tx, claimed[0].ID, time.Now())
	})
	if err != nil {
		t.Fatal(err)
	}

	err = repo.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := repo.GetUnpublishedOutbox(ctx, tx, 10)
		if err != nil {
			return err
		}
		if len(rows) != 0 {
			t.Errorf("expected no NEW rows after publish, got %d", len(rows))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRepository_ListFinishedActive(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t, ctx)
	repo := postgres.NewRepository(pool)

	ownerID, playerID := uuid.New(), uuid.New()
	if err := repo.EnsureProfile(ctx, domain.Profile{ID: playerID, Role: domain.RolePlayer}); err != nil {
		t.Fatal(err)
	}
	venue := seedVenue(t, ctx, repo, ownerID)
	court := domain.Court{ID: uuid.New(), Name: "Padel 1", IsActive: true}
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.AddCourts(ctx, tx, venue.ID, []domain.Court{court})
	})
	if err != nil {
		t.Fatal(err)
	}

	past := domain.NewBooking(venue.ID, court.ID, playerID, "2026-03-09", "20:00", 100000)
	earlier := domain.NewBooking(venue.ID, court.ID, playerID, "2026-03-10", "08:00", 100000)
	upcoming := domain.NewBooking(venue.ID, court.ID, playerID, "2026-03-10", "18:00", 100000)
	for _, b := range []domain.Booking{past, earlier, upcoming} {
		err := repo.WithTx(ctx, func(tx pgx.Tx) error {
			return repo.CreateBooking(ctx, tx, b)
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	finished, err := repo.ListFinishedActive(ctx, "2026-03-10", "12:00")
	if err != nil {
		t.Fatal(err)
	}
	if len(finished) != 2 {
		t.Fatalf("expected 2 finished bookings, got %d", len(finished))
	}
	for _, b := range finished {
		if b.ID == upcoming.ID {
			t.Error("upcoming booking should not be finished")
		}
	}
}
