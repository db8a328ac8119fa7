package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/surgassist/records-api/internal/core/domain"
)

type captureAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	wrote  chan struct{}
	err    error
}

func newCaptureAuditRepo() *captureAuditRepo {
	return &captureAuditRepo{wrote: make(chan struct{}, 1024)}
}

func (r *captureAuditRepo) Append(ctx context.Context, event domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	r.wrote <- struct{}{}
	return nil
}

func (r *captureAuditRepo) all() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

func waitForWrites(t *testing.T, repo *captureAuditRepo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-repo.wrote:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for write %d of %d", i+1, n)
		}
	}
}

func TestAuditWriter_DrainsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newCaptureAuditRepo()
	w := NewAuditWriter(2, repo, zerolog.Nop())
	w.Start(ctx)

	w.Record(domain.AuditLogin, "alice", map[string]any{"role": "scheduler"})
	w.Record(domain.AuditLoginFailed, "bob", nil)
	waitForWrites(t, repo, 2)

	events := repo.all()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	actions := map[domain.AuditAction]bool{}
	for _, event := range events {
		actions[event.Action] = true
		if event.Timestamp.IsZero() {
			t.Fatalf("event has no timestamp: %+v", event)
		}
	}
	if !actions[domain.AuditLogin] || !actions[domain.AuditLoginFailed] {
		t.Fatalf("missing actions: %+v", actions)
	}
}

func TestAuditWriter_RecordNeverBlocks(t *testing.T) {
	// No workers started: the buffer fills and overflow must be dropped
	// without blocking the caller.
	repo := newCaptureAuditRepo()
	w := NewAuditWriter(1, repo, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+50; i++ {
			w.Record(domain.AuditLoginFailed, "alice", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full buffer")
	}
}

func TestAuditWriter_WriteFailureIsSwallowed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newCaptureAuditRepo()
	repo.err = context.DeadlineExceeded
	w := NewAuditWriter(1, repo, zerolog.Nop())
	w.Start(ctx)

	// Record has no error path; the failed write surfaces only in logs and
	// metrics, so the assertion here is just that nothing panics or blocks.
	w.Record(domain.AuditPasswordReset, "alice", nil)
	time.Sleep(50 * time.Millisecond)
}
