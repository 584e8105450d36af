package availability

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tucancha/court-booking/internal/domain"
	"github.com/tucancha/court-booking/internal/observability"
)

// SlotStore is the slice of the repository the toggler needs.
type SlotStore interface {
	FindDisabledSlot(ctx context.Context, venueID, courtID uuid.UUID, date, timeSlot string) (*domain.DisabledSlot, error)
	GetDisabledSlot(ctx context.Context, id uuid.UUID) (*domain.DisabledSlot, error)
	CreateDisabledSlot(ctx context.Context, s domain.DisabledSlot) error
	DeleteDisabledSlot(ctx context.Context, id uuid.UUID) error
}

// Auditor records the toggle for the audit trail. Best effort.
type Auditor interface {
	SlotToggled(ctx context.Context, slot domain.DisabledSlot, disabled bool)
}

// Events enqueues the slot.disabled / slot.enabled outbox event.
type Events interface {
	Enqueue(ctx context.Context, aggregateType string, aggregateID uuid.UUID, eventType string, payload any) error
}

// Invalidator drops the cached slot listing for the toggled day.
type Invalidator interface {
	InvalidateSlots(ctx context.Context, venueID uuid.UUID, date string)
}

type Toggler struct {
	store  SlotStore
	audit  Auditor
	events Events
	cache  Invalidator
	logger observability.Logger
}

func NewToggler(store SlotStore, audit Auditor, events Events, cache Invalidator, logger observability.Logger) *Toggler {
	return &Toggler{store: store, audit: audit, events: events, cache: cache, logger: logger}
}

// Toggle inverts the blocked state of one court hour and reports whether the
// write landed. The result says nothing about which state the slot ended in;
// callers re-read the slot list to find out. Storage failures come back as a
// plain false.
func (t *Toggler) Toggle(ctx context.Context, venueID, courtID uuid.UUID, date, timeSlot string, actorID uuid.UUID, reason string) bool {
	existing, err := t.store.FindDisabledSlot(ctx, venueID, courtID, date, timeSlot)
	switch {
	case err == nil:
		if err := t.store.DeleteDisabledSlot(ctx, existing.ID); err != nil {
			t.logger.WithError(err).Error("failed to enable slot")
			return false
		}
		t.finish(ctx, *existing, false)
		return true
	case errors.Is(err, domain.ErrNotFound):
		slot := domain.NewDisabledSlot(venueID, courtID, date, timeSlot, actorID, reason)
		if err := t.store.CreateDisabledSlot(ctx, slot); err != nil {
			t.logger.WithError(err).Error("failed to disable slot")
			return false
		}
		t.finish(ctx, slot, true)
		return true
	default:
		t.logger.WithError(err).Error("slot lookup failed")
		return false
	}
}

// Block creates the blocked-hour row outright. Unlike Toggle it reports
// errors to the caller, and an already blocked hour is a conflict rather
// than a flip back.
func (t *Toggler) Block(ctx context.Context, venueID, courtID uuid.UUID, date, timeSlot string, actorID uuid.UUID, reason string) (domain.DisabledSlot, error) {
	_, err := t.store.FindDisabledSlot(ctx, venueID, courtID, date, timeSlot)
	if err == nil {
		return domain.DisabledSlot{}, domain.ErrConflict
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.DisabledSlot{}, err
	}
	slot := domain.NewDisabledSlot(venueID, courtID, date, timeSlot, actorID, reason)
	if err := t.store.CreateDisabledSlot(ctx, slot); err != nil {
		return domain.DisabledSlot{}, err
	}
	t.finish(ctx, slot, true)
	return slot, nil
}

// Unblock removes one blocked hour by id. The venue check stays with the
// caller; the id alone does not prove ownership.
func (t *Toggler) Unblock(ctx context.Context, venueID, slotID uuid.UUID) error {
	slot, err := t.store.GetDisabledSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.VenueID != venueID {
		return domain.ErrNotFound
	}
	if err := t.store.DeleteDisabledSlot(ctx, slot.ID); err != nil {
		return err
	}
	t.finish(ctx, *slot, false)
	return nil
}

func (t *Toggler) finish(ctx context.Context, slot domain.DisabledSlot, disabled bool) {
	result, event := "enabled", "slot.enabled"
	if disabled {
		result, event = "disabled", "slot.disabled"
	}
	observability.SlotToggles.WithLabelValues(result).Inc()
	t.audit.SlotToggled(ctx, slot, disabled)
	t.cache.InvalidateSlots(ctx, slot.VenueID, slot.Date)
	if err := t.events.Enqueue(ctx, "slot", slot.ID, event, slot); err != nil {
		t.logger.WithError(err).Error("failed to enqueue slot event")
	}
}
