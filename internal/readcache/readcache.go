package readcache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tucancha/court-booking/internal/domain"
	"github.com/tucancha/court-booking/internal/observability"
	"golang.org/x/sync/singleflight"
)

// KV is the cache backend, satisfied by the redis adapter.
type KV interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Per-entity freshness windows. Venue data moves slowly, bookings are the
// hottest read, disabled slots sit in between.
const (
	VenueTTL   = 60 * time.Second
	BookingTTL = 10 * time.Second
	SlotTTL    = 30 * time.Second
)

// Store fronts the repository's list reads with a redis layer and collapses
// concurrent loads of the same key into a single repository query.
type Store struct {
	cache  KV
	group  singleflight.Group
	logger observability.Logger
}

func NewStore(cache KV, logger observability.Logger) *Store {
	return &Store{cache: cache, logger: logger}
}

// lookup serves key from redis when fresh and otherwise runs load once,
// deduped across callers. Cache failures are logged and degrade to a direct
// load; a broken redis never breaks a read.
func lookup[T any](ctx context.Context, s *Store, entity, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache read failed")
	}
	if hit {
		observability.CacheLookups.WithLabelValues(entity, "hit").Inc()
		return cached, nil
	}
	observability.CacheLookups.WithLabelValues(entity, "miss").Inc()

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, loaded, ttl); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("cache write failed")
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (s *Store) ActiveVenues(ctx context.Context, load func(context.Context) ([]domain.Venue, error)) ([]domain.Venue, error) {
	return lookup(ctx, s, "venues", "venues:active", VenueTTL, load)
}

func (s *Store) OwnerVenues(ctx context.Context, ownerID uuid.UUID, load func(context.Context) ([]domain.Venue, error)) ([]domain.Venue, error) {
	return lookup(ctx, s, "venues", "venues:owner:"+ownerID.String(), VenueTTL, load)
}

func (s *Store) PlayerBookings(ctx context.Context, playerID uuid.UUID, load func(context.Context) ([]domain.Booking, error)) ([]domain.Booking, error) {
	return lookup(ctx, s, "bookings", "bookings:player:"+playerID.String(), BookingTTL, load)
}

func (s *Store) OwnerBookings(ctx context.Context, ownerID uuid.UUID, load func(context.Context) ([]domain.Booking, error)) ([]domain.Booking, error) {
	return lookup(ctx, s, "bookings", "bookings:owner:"+ownerID.String(), BookingTTL, load)
}

func (s *Store) VenueBookings(ctx context.Context, venueID uuid.UUID, date string, load func(context.Context) ([]domain.Booking, error)) ([]domain.Booking, error) {
	return lookup(ctx, s, "bookings", "bookings:venue:"+venueID.String()+":"+date, BookingTTL, load)
}

func (s *Store) DisabledSlots(ctx context.Context, venueID uuid.UUID, date string, load func(context.Context) ([]domain.DisabledSlot, error)) ([]domain.DisabledSlot, error) {
	return lookup(ctx, s, "slots", "slots:"+venueID.String()+":"+date, SlotTTL, load)
}

// InvalidateVenues drops the shared active listing along with the owner view.
func (s *Store) InvalidateVenues(ctx context.Context, ownerID uuid.UUID) {
	s.invalidate(ctx, "venues:active", "venues:owner:"+ownerID.String())
}

func (s *Store) InvalidateBookings(ctx context.Context, playerID, ownerID, venueID uuid.UUID, date string) {
	s.invalidate(ctx,
		"bookings:player:"+playerID.String(),
		"bookings:owner:"+ownerID.String(),
		"bookings:venue:"+venueID.String()+":"+date,
	)
}

func (s *Store) InvalidateSlots(ctx context.Context, venueID uuid.UUID, date string) {
	s.invalidate(ctx, "slots:"+venueID.String()+":"+date)
}

func (s *Store) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}
