package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/surgassist/records-api/internal/api/metrics"
	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditWriter drains security events into the append-only trail from a
// buffered channel. Record never blocks and never returns an error: when the
// buffer is full or a write fails, the event is dropped with a warning and a
// counter bump. Audit trouble must not change a security decision.
type AuditWriter struct {
	events      chan domain.AuditEvent
	repo        ports.AuditRepository
	log         zerolog.Logger
	now         func() time.Time
	workerCount int
}

// NewAuditWriter creates an AuditWriter with numWorkers background writers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditWriter(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &AuditWriter{
		events:      make(chan domain.AuditEvent, channelBuffer),
		repo:        repo,
		log:         log,
		now:         time.Now,
		workerCount: numWorkers,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (w *AuditWriter) Start(ctx context.Context) {
	for i := 0; i < w.workerCount; i++ {
		go w.runWorker(ctx, i)
	}
}

// Record enqueues one immutable event. Non-blocking up to channelBuffer.
func (w *AuditWriter) Record(action domain.AuditAction, actor string, detail map[string]any) {
	event := domain.AuditEvent{
		Timestamp: w.now().UTC(),
		Action:    action,
		Actor:     actor,
		Detail:    detail,
	}

	select {
	case w.events <- event:
		metrics.AuditQueueDepth.Set(float64(len(w.events)))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		w.log.Warn().Str("action", string(action)).Str("actor", actor).Msg("audit buffer full, event dropped")
	}

	if action == domain.AuditAccountLocked {
		metrics.LockoutsTotal.Inc()
	}
}

func (w *AuditWriter) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.events:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.Set(float64(len(w.events)))

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := w.repo.Append(writeCtx, event)
			cancel()
			if err != nil {
				metrics.AuditEventsDroppedTotal.Inc()
				w.log.Error().Err(err).
					Str("action", string(event.Action)).
					Int("worker_id", id).
					Msg("audit write failed, event dropped")
			}
		}
	}
}
