package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner  Role = "OWNER"
	RolePlayer Role = "PLAYER"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "ACTIVE"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type Venue struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Address      string
	Latitude     *float64
	Longitude    *float64
	ImageURL     string
	OpeningHours string
	Amenities    []string
	ContactInfo  string
	IsActive     bool
	CreatedAt    time.Time
	Courts       []Court
}

type Court struct {
	ID           uuid.UUID
	VenueID      uuid.UUID
	Name         string
	Type         string
	PricePerHour int64
	IsActive     bool
	ImageURL     string
}

// Booking is a single one-hour reservation row. Contiguous hours booked
// together stay separate rows in storage and are only grouped for display.
type Booking struct {
	ID        uuid.UUID
	VenueID   uuid.UUID
	CourtID   uuid.UUID
	PlayerID  uuid.UUID
	Date      string // YYYY-MM-DD
	StartTime string // HH:00
	Price     int64
	Status    BookingStatus
	CreatedAt time.Time

	// Joined display fields, populated on reads.
	VenueName   string
	CourtName   string
	CourtType   string
	PlayerName  string
	PlayerEmail string
	PlayerPhone string
}

// DisabledSlot blocks one court hour from being booked. The row's existence
// is the whole signal; uniqueness per (venue, court, date, time) is left to
// the database constraint.
type DisabledSlot struct {
	ID        uuid.UUID
	VenueID   uuid.UUID
	CourtID   uuid.UUID
	Date      string
	TimeSlot  string
	CreatedBy uuid.UUID
	Reason    string
	CreatedAt time.Time
}

type Profile struct {
	ID       uuid.UUID
	Role     Role
	FullName string
	Email    string
	Phone    string
}
