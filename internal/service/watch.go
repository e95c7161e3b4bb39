package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitchain/internal/models"
	"github.com/mmynk/splitchain/pkg/api"
)

const maxEventPage = 500

// Subscriber delivers events as they are committed.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan models.Event
}

// WatchEvents replays the log after AfterSeq and then streams live events.
// Live delivery may drop events for a slow reader; a gap in Seq is filled
// from the log before streaming resumes, so the client sees every event once
// and in order.
func (s *LedgerService) WatchEvents(ctx context.Context, req *connect.Request[api.WatchEventsRequest], stream *connect.ServerStream[api.Event]) error {
	if s.events == nil {
		return connect.NewError(connect.CodeUnimplemented, errors.New("event stream not configured"))
	}

	// Subscribe before reading the log so nothing committed in between is missed.
	live := s.events.Subscribe(ctx)

	w := &watcher{
		ledger:  s,
		stream:  stream,
		last:    req.Msg.AfterSeq,
		groupID: req.Msg.GroupID,
	}
	if err := w.catchUp(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-live:
			if !ok {
				return nil
			}
			if event.Seq > w.last+1 {
				if err := w.catchUp(ctx); err != nil {
					return err
				}
			}
			if err := w.send(event); err != nil {
				return err
			}
		}
	}
}

type watcher struct {
	ledger  *LedgerService
	stream  *connect.ServerStream[api.Event]
	last    uint64
	groupID uint64
}

func (w *watcher) catchUp(ctx context.Context) error {
	for {
		events, err := w.ledger.ledger.ListEvents(ctx, w.last, maxEventPage)
		if err != nil {
			return w.ledger.fail(ctx, "WatchEvents", err, "after_seq", w.last)
		}
		for _, e := range events {
			if err := w.send(e); err != nil {
				return err
			}
		}
		if len(events) < maxEventPage {
			return nil
		}
	}
}

// send skips events already delivered and those outside the watched group.
func (w *watcher) send(event models.Event) error {
	if event.Seq <= w.last {
		return nil
	}
	w.last = event.Seq
	if w.groupID != 0 && event.GroupID != w.groupID {
		return nil
	}
	return w.stream.Send(toAPIEvent(event, 0))
}
