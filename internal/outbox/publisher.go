package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tucancha/court-booking/internal/adapters/postgres"
	"github.com/tucancha/court-booking/internal/adapters/rabbit"
	"github.com/tucancha/court-booking/internal/observability"
)

// Publisher drains the outbox table into the events exchange. Rows that fail
// to publish stay NEW and come around on the next tick.
type Publisher struct {
	repo      *postgres.Repository
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
	interval  time.Duration
	batchSize int
}

func NewPublisher(repo *postgres.Repository, rabbitPub *rabbit.Publisher, logger observability.Logger) *Publisher {
	return &Publisher{
		repo:      repo,
		rabbitPub: rabbitPub,
		logger:    logger,
		interval:  5 * time.Second,
		batchSize: 50,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.drain(ctx)
		}
	}
}

// drain claims, publishes and marks one batch inside a single transaction.
// The claim's row locks only hold while that transaction is open, which is
// what keeps a second publisher replica off the same rows. Rows whose
// publish fails stay NEW and come around on the next tick; duplicates after
// a crash between publish and commit are absorbed by the MessageId.
func (p *Publisher) drain(ctx context.Context) {
	err := p.repo.WithTx(ctx, func(tx pgx.Tx) error {
		records, err := p.repo.GetUnpublishedOutbox(ctx, tx, p.batchSize)
		if err != nil {
			return err
		}
		for _, rec := range records {
			msg := amqp.Publishing{
				MessageId:   rec.DedupeKey,
				ContentType: "application/json",
				Body:        rec.Payload,
			}
			if err := p.rabbitPub.Publish(ctx, rec.EventType, msg); err != nil {
				p.logger.WithError(err).WithField("event_type", rec.EventType).Error("failed to publish event")
				continue
			}
			now := time.Now()
			if err := p.repo.MarkPublished(ctx, tx, rec.ID, now); err != nil {
				return err
			}
			observability.OutboxLag.Set(now.Sub(rec.CreatedAt).Seconds())
		}
		return nil
	})
	if err != nil {
		p.logger.WithError(err).Error("outbox drain failed")
	}
}
