package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tucancha/court-booking/internal/domain"
	"github.com/tucancha/court-booking/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        uuid.UUID `bson:"_id"`
	Action    string    `bson:"action"`
	UserID    uuid.UUID `bson:"user_id"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditLogger) LogEvent(ctx context.Context, action string, userID uuid.UUID, data map[string]interface{}) error {
	log := AuditLog{
		ID:        uuid.New(),
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now(),
		Data:      bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, log)
	if err != nil {
		a.logger.Error("failed to insert audit log", err)
		return err
	}
	return nil
}

// SlotToggled satisfies the toggler's Auditor. Errors are already logged and
// never surface; a dead audit store must not block an owner action.
func (a *AuditLogger) SlotToggled(ctx context.Context, slot domain.DisabledSlot, disabled bool) {
	action := "slot.enabled"
	if disabled {
		action = "slot.disabled"
	}
	a.LogEvent(ctx, action, slot.CreatedBy, map[string]interface{}{
		"slot_id":   slot.ID,
		"venue_id":  slot.VenueID,
		"court_id":  slot.CourtID,
		"date":      slot.Date,
		"time_slot": slot.TimeSlot,
		"reason":    slot.Reason,
	})
}

func (a *AuditLogger) LogBooking(ctx context.Context, b domain.Booking) error {
	return a.LogEvent(ctx, "booking.created", b.PlayerID, map[string]interface{}{
		"booking_id": b.ID,
		"venue_id":   b.VenueID,
		"court_id":   b.CourtID,
		"date":       b.Date,
		"start_time": b.StartTime,
		"price":      b.Price,
	})
}

func (a *AuditLogger) LogStatusChange(ctx context.Context, b domain.Booking, actorID uuid.UUID, to domain.BookingStatus) error {
	return a.LogEvent(ctx, "booking."+string(to), actorID, map[string]interface{}{
		"booking_id": b.ID,
		"from":       b.Status,
		"to":         to,
	})
}
