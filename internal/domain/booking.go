package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func NewBooking(venueID, courtID, playerID uuid.UUID, date, startTime string, price int64) Booking {
	return Booking{
		ID:        uuid.New(),
		VenueID:   venueID,
		CourtID:   courtID,
		PlayerID:  playerID,
		Date:      date,
		StartTime: startTime,
		Price:     price,
		Status:    BookingActive,
		CreatedAt: time.Now(),
	}
}

func NewDisabledSlot(venueID, courtID uuid.UUID, date, timeSlot string, createdBy uuid.UUID, reason string) DisabledSlot {
	if reason == "" {
		reason = "Manual lock"
	}
	return DisabledSlot{
		ID:        uuid.New(),
		VenueID:   venueID,
		CourtID:   courtID,
		Date:      date,
		TimeSlot:  timeSlot,
		CreatedBy: createdBy,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
}

// SlotEnd returns the display end of an hour slot: the start hour plus one.
// "23:00" becomes "24:00" on purpose, it never rolls over to the next day.
func SlotEnd(startTime string) string {
	hour, err := strconv.Atoi(strings.SplitN(startTime, ":", 2)[0])
	if err != nil {
		return startTime
	}
	return fmt.Sprintf("%02d:00", hour+1)
}

// ValidTransition reports whether a booking may move from one status to
// another. Only ACTIVE bookings transition; CANCELLED and COMPLETED are
// terminal.
func ValidTransition(from, to BookingStatus) bool {
	if from != BookingActive {
		return false
	}
	return to == BookingCancelled || to == BookingCompleted
}
