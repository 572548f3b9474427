// Package logging provides a custom slog handler that mirrors WARN and ERROR
// records into the "events" storage key so recent problems survive restarts.
// Ordinary logs keep flowing to the wrapped text handler.
package logging

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/azizabboud/quickweb-go/internal/storage"
)

// MaxEvents caps the persisted event list; older entries are dropped first.
const MaxEvents = 500

// Event is one persisted log record.
type Event struct {
	ID        string            `json:"id"`
	Level     string            `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// EventLogHandler is a slog.Handler that wraps another handler and also
// appends WARN and ERROR level records to the event log in storage.
type EventLogHandler struct {
	inner   slog.Handler
	storage *storage.Store
	level   slog.Level
}

// NewEventLogHandler creates an EventLogHandler that wraps the given handler.
// Records at WARN and above are written to both the wrapped handler and the
// event log.
func NewEventLogHandler(inner slog.Handler, st *storage.Store) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		storage: st,
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeEvent(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		storage: h.storage,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		storage: h.storage,
		level:   h.level,
	}
}

// writeEvent appends one record to the persisted event log. Failures are
// swallowed: the event log must never take the application down. A background
// context is used so the event lands even when the request context is gone.
func (h *EventLogHandler) writeEvent(r slog.Record) {
	ctx := context.Background()

	var events []Event
	if err := storage.LoadJSON(ctx, h.storage, storage.KeyEvents, &events); err != nil &&
		!errors.Is(err, storage.ErrNoKey) && !errors.Is(err, storage.ErrCorrupt) {
		return
	}

	metadata := make(map[string]string)
	r.Attrs(func(a slog.Attr) bool {
		metadata[a.Key] = a.Value.String()
		return true
	})
	if len(metadata) == 0 {
		metadata = nil
	}

	events = append(events, Event{
		ID:        uuid.NewString(),
		Level:     levelName(r.Level),
		Message:   r.Message,
		CreatedAt: r.Time,
		Metadata:  metadata,
	})
	if len(events) > MaxEvents {
		events = events[len(events)-MaxEvents:]
	}

	_ = storage.SaveJSON(ctx, h.storage, storage.KeyEvents, events)
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	default:
		return "info"
	}
}

// Prune drops persisted events older than maxAge. Used by the scheduler.
func Prune(ctx context.Context, st *storage.Store, maxAge time.Duration) error {
	var events []Event
	err := storage.LoadJSON(ctx, st, storage.KeyEvents, &events)
	switch {
	case errors.Is(err, storage.ErrNoKey), errors.Is(err, storage.ErrCorrupt):
		return nil
	case err != nil:
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	kept := events[:0]
	for _, e := range events {
		if e.CreatedAt.After(cutoff) {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(events) {
		return nil
	}
	return storage.SaveJSON(ctx, st, storage.KeyEvents, kept)
}
