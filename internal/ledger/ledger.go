// Package ledger implements the group registry and the expense ledger.
//
// A Ledger is the single writer for its store: every mutating operation
// validates all of its preconditions and then commits its state change and
// its event in one store write, holding the ledger lock throughout. Reads go
// straight to the store and only observe committed state.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/mmynk/splitchain/internal/errors"
	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/internal/storage"
	"github.com/mmynk/splitchain/internal/telemetry"
)

const tracerName = "github.com/mmynk/splitchain/internal/ledger"

// Notifier receives every committed event.
type Notifier interface {
	Publish(ctx context.Context, event models.Event)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithNotifier sets where committed events are published.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithClock overrides the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithMetrics records ledger activity in m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// Ledger is the group registry and expense ledger over a single store.
type Ledger struct {
	store    storage.Store
	notifier Notifier
	metrics  *telemetry.Metrics
	now      func() time.Time

	// mu serializes writers.
	mu sync.Mutex
}

// New returns a Ledger writing to store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

func (l *Ledger) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return l.tracer().Start(ctx, "ledger."+name, trace.WithAttributes(attrs...))
}

// notify hands a committed event to the notifier.
func (l *Ledger) notify(ctx context.Context, event models.Event) {
	slog.DebugContext(ctx, "Event committed",
		"seq", event.Seq,
		"type", event.Type,
		"group_id", event.GroupID,
	)
	if l.notifier != nil {
		l.notifier.Publish(ctx, event)
	}
}

// loadGroup returns the group or a NotFound error for id 0 and ids past the counter.
func (l *Ledger) loadGroup(ctx context.Context, groupID uint64) (*models.Group, error) {
	if groupID == 0 {
		return nil, apperrors.NotFound("group not found", "group_id", "0")
	}
	group, err := l.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.NotFound("group not found", "group_id", formatID(groupID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	return group, nil
}

func requireMember(group *models.Group, caller string) error {
	if !group.HasMember(caller) {
		return apperrors.Unauthorized("caller is not a member of the group",
			"group_id", formatID(group.ID),
			"caller", caller,
		)
	}
	return nil
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func formatAmount(amount int64) string {
	return strconv.FormatInt(amount, 10)
}
