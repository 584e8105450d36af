package domain

import (
	"testing"

	"github.com/google/uuid"
)

func hourRow(venueID, courtID, playerID uuid.UUID, date, start string, price int64, status BookingStatus) Booking {
	return Booking{
		ID:        uuid.New(),
		VenueID:   venueID,
		CourtID:   courtID,
		PlayerID:  playerID,
		Date:      date,
		StartTime: start,
		Price:     price,
		Status:    status,
	}
}

func TestGroupBookings_SingleGroup(t *testing.T) {
	venueID, courtID, playerID := uuid.New(), uuid.New(), uuid.New()

	rows := []Booking{
		hourRow(venueID, courtID, playerID, "2026-03-10", "15:00", 120000, BookingActive),
		hourRow(venueID, courtID, playerID, "2026-03-10", "14:00", 100000, BookingActive),
		hourRow(venueID, courtID, playerID, "2026-03-10", "16:00", 120000, BookingActive),
	}

	groups := GroupBookings(rows)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.Count != 3 {
		t.Errorf("expected count 3, got %d", g.Count)
	}
	if g.Price != 340000 {
		t.Errorf("expected price 340000, got %d", g.Price)
	}
	if g.StartTime != "14:00" {
		t.Errorf("expected start 14:00, got %s", g.StartTime)
	}
	if g.EndTime != "17:00" {
		t.Errorf("expected end 17:00, got %s", g.EndTime)
	}
	if len(g.IDs) != 3 {
		t.Errorf("expected 3 member ids, got %d", len(g.IDs))
	}
}

func TestGroupBookings_KeySplitsGroups(t *testing.T) {
	venueID, courtID, playerID := uuid.New(), uuid.New(), uuid.New()

	rows := []Booking{
		hourRow(venueID, courtID, playerID, "2026-03-10", "14:00", 100000, BookingActive),
		hourRow(venueID, courtID, playerID, "2026-03-10", "15:00", 100000, BookingCancelled),
		hourRow(venueID, courtID, uuid.New(), "2026-03-10", "16:00", 100000, BookingActive),
		hourRow(venueID, courtID, playerID, "2026-03-11", "14:00", 100000, BookingActive),
	}

	groups := GroupBookings(rows)
	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}
}

func TestGroupBookings_Ordering(t *testing.T) {
	venueID, courtID, playerID := uuid.New(), uuid.New(), uuid.New()

	rows := []Booking{
		hourRow(venueID, courtID, playerID, "2026-03-09", "18:00", 100000, BookingActive),
		hourRow(venueID, courtID, playerID, "2026-03-11", "20:00", 100000, BookingActive),
		hourRow(venueID, courtID, playerID, "2026-03-11", "08:00", 100000, BookingCancelled),
	}

	groups := GroupBookings(rows)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Date != "2026-03-11" || groups[0].StartTime != "08:00" {
		t.Errorf("expected newest date with earliest start first, got %s %s", groups[0].Date, groups[0].StartTime)
	}
	if groups[1].Date != "2026-03-11" || groups[1].StartTime != "20:00" {
		t.Errorf("expected 2026-03-11 20:00 second, got %s %s", groups[1].Date, groups[1].StartTime)
	}
	if groups[2].Date != "2026-03-09" {
		t.Errorf("expected oldest date last, got %s", groups[2].Date)
	}
}

func TestSlotEnd(t *testing.T) {
	cases := []struct {
		start string
		want  string
	}{
		{"14:00", "15:00"},
		{"08:00", "09:00"},
		{"23:00", "24:00"},
	}
	for _, c := range cases {
		if got := SlotEnd(c.start); got != c.want {
			t.Errorf("SlotEnd(%s) = %s, want %s", c.start, got, c.want)
		}
	}
}

func TestValidTransition(t *testing.T) {
	if !ValidTransition(BookingActive, BookingCancelled) {
		t.Error("ACTIVE -> CANCELLED should be allowed")
	}
	if !ValidTransition(BookingActive, BookingCompleted) {
		t.Error("ACTIVE -> COMPLETED should be allowed")
	}
	if ValidTransition(BookingCancelled, BookingActive) {
		t.Error("CANCELLED -> ACTIVE should be rejected")
	}
	if ValidTransition(BookingCompleted, BookingCancelled) {
		t.Error("COMPLETED -> CANCELLED should be rejected")
	}
}
