package domain

import (
	"sort"

	"github.com/google/uuid"
)

// BookingGroup is the player-facing view of one visit: every hour row the
// same player booked for the same court, date and status, collapsed into a
// single entry with a combined time range and price.
type BookingGroup struct {
	IDs       []uuid.UUID
	VenueID   uuid.UUID
	CourtID   uuid.UUID
	VenueName string
	CourtName string
	CourtType string
	Status    BookingStatus
	Date      string
	StartTime string
	EndTime   string
	Price     int64
	Count     int
}

type groupKey struct {
	venueID  uuid.UUID
	courtID  uuid.UUID
	date     string
	status   BookingStatus
	playerID uuid.UUID
}

// GroupBookings collapses per-hour booking rows into reservation groups.
// Rows group on exact (venue, court, date, status, player); within a group
// members sort by start time and the end time is the last slot's start hour
// plus one. Groups come back newest date first, earlier start first within
// a date.
func GroupBookings(bookings []Booking) []BookingGroup {
	byKey := make(map[groupKey][]Booking)
	for _, b := range bookings {
		k := groupKey{b.VenueID, b.CourtID, b.Date, b.Status, b.PlayerID}
		byKey[k] = append(byKey[k], b)
	}

	groups := make([]BookingGroup, 0, len(byKey))
	for _, members := range byKey {
		sort.Slice(members, func(i, j int) bool {
			return members[i].StartTime < members[j].StartTime
		})
		first := members[0]
		last := members[len(members)-1]

		g := BookingGroup{
			VenueID:   first.VenueID,
			CourtID:   first.CourtID,
			VenueName: first.VenueName,
			CourtName: first.CourtName,
			CourtType: first.CourtType,
			Status:    first.Status,
			Date:      first.Date,
			StartTime: first.StartTime,
			EndTime:   SlotEnd(last.StartTime),
			Count:     len(members),
		}
		for _, m := range members {
			g.IDs = append(g.IDs, m.ID)
			g.Price += m.Price
		}
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Date != groups[j].Date {
			return groups[i].Date > groups[j].Date
		}
		return groups[i].StartTime < groups[j].StartTime
	})
	return groups
}
