// Package relay moves committed events from the store's outbox to a broker.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/internal/telemetry"
)

const (
	DefaultInterval  = 2 * time.Second
	DefaultBatchSize = 100

	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Outbox is the part of the store the relay reads from.
type Outbox interface {
	ListUndelivered(ctx context.Context, limit int) ([]models.Event, error)
	MarkDelivered(ctx context.Context, seqs []uint64) error
}

type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

type Config struct {
	Interval  time.Duration
	BatchSize int
}

// Relay publishes events at least once, in Seq order. An event is only
// marked delivered after the broker accepted it.
type Relay struct {
	outbox    Outbox
	publisher Publisher
	interval  time.Duration
	batchSize int
	metrics   *telemetry.Metrics
	backoff   *backoff.ExponentialBackOff
}

func New(outbox Outbox, publisher Publisher, cfg Config, metrics *telemetry.Metrics) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		metrics:   metrics,
		backoff:   newBackoff(),
	}
}

// newBackoff doubles from 1s up to 30s without jitter.
func newBackoff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval: initialBackoff,
		Multiplier:      2,
		MaxInterval:     maxBackoff,
	}
	b.Reset()
	return b
}

// Run flushes the outbox until ctx is done. A full batch is followed
// immediately by the next one; failures back off exponentially.
func (r *Relay) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Starting outbox relay", "interval", r.interval, "batch_size", r.batchSize)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping outbox relay", "reason", ctx.Err())
			return nil
		case <-timer.C:
		}

		n, err := r.Flush(ctx)
		wait := r.interval
		switch {
		case err != nil:
			wait = r.backoff.NextBackOff()
			slog.WarnContext(ctx, "Outbox flush failed",
				"error", err,
				"delivered", n,
				"retry_in", wait)
		case n == r.batchSize:
			r.backoff.Reset()
			wait = 0
		default:
			r.backoff.Reset()
		}
		timer.Reset(wait)
	}
}

// Flush publishes one batch and returns how many events were delivered. It
// stops at the first failure so later events never overtake an earlier one.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	events, err := r.outbox.ListUndelivered(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list undelivered events: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	delivered := make([]uint64, 0, len(events))
	var publishErr error
	for _, e := range events {
		if err := r.publisher.Publish(ctx, e); err != nil {
			r.metrics.DeliveryFailed()
			publishErr = fmt.Errorf("failed to publish event %d: %w", e.Seq, err)
			break
		}
		delivered = append(delivered, e.Seq)
	}

	if len(delivered) > 0 {
		if err := r.outbox.MarkDelivered(ctx, delivered); err != nil {
			return 0, fmt.Errorf("failed to mark events delivered: %w", err)
		}
		r.metrics.Delivered(len(delivered))
		slog.DebugContext(ctx, "Relayed events", "count", len(delivered), "last_seq", delivered[len(delivered)-1])
	}
	return len(delivered), publishErr
}
