package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tucancha/court-booking/internal/adapters/postgres"
	"github.com/tucancha/court-booking/internal/config"
	"github.com/tucancha/court-booking/internal/domain"
	"github.com/tucancha/court-booking/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	repo := postgres.NewRepository(pool)

	worker := NewCompletionWorker(repo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx, time.Minute)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown completion worker")
}

// CompletionWorker sweeps ACTIVE bookings whose hour has passed and marks
// them COMPLETED, so revenue and history stop depending on clients
// refreshing.
type CompletionWorker struct {
	repo   *postgres.Repository
	logger observability.Logger
}

func NewCompletionWorker(repo *postgres.Repository, logger observability.Logger) *CompletionWorker {
	return &CompletionWorker{repo: repo, logger: logger}
}

func (w *CompletionWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.sweep(ctx, now)
		}
	}
}

// sweepWindow turns the wall clock into the (date, cutoff) pair for the
// finished-booking query. A booking occupies its full hour; only hours that
// have fully elapsed complete, so both values come from the same shifted
// instant an hour behind the clock. Deriving them separately would pair the
// new date with the old day's cutoff between 00:00 and 01:00 and complete
// bookings that have not happened yet.
func sweepWindow(now time.Time) (date, cutoff string) {
	t := now.Add(-time.Hour)
	return t.Format("2006-01-02"), t.Format("15:04")
}

func (w *CompletionWorker) sweep(ctx context.Context, now time.Time) {
	date, cutoff := sweepWindow(now)

	finished, err := w.repo.ListFinishedActive(ctx, date, cutoff)
	if err != nil {
		w.logger.WithError(err).Error("failed to list finished bookings")
		return
	}
	for _, b := range finished {
		if err := w.completeWithRetry(ctx, b); err != nil {
			w.logger.WithError(err).WithField("booking_id", b.ID).Error("failed to complete booking after retries")
		}
	}
}

func (w *CompletionWorker) completeWithRetry(ctx context.Context, b domain.Booking) error {
	var err error
	for i := 0; i < 3; i++ {
		err = w.repo.UpdateBookingStatus(ctx, b.ID, domain.BookingCompleted)
		// The booking left ACTIVE (or was deleted) between the listing and
		// this write. Nothing to complete, no event to emit.
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err == nil {
			return w.repo.Enqueue(ctx, "booking", b.ID, "booking.completed", map[string]interface{}{
				"booking_id": b.ID,
				"status":     domain.BookingCompleted,
			})
		}
		backoff := time.Duration(1<<i) * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}
