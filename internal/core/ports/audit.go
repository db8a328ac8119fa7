package ports

import (
	"context"

	"github.com/surgassist/records-api/internal/core/domain"
)

// AuditRepository persists audit events to the append-only trail.
type AuditRepository interface {
	Append(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink records security-relevant events. Record is fire-and-forget: it
// never blocks the caller and a failed write never surfaces as an error.
// Audit trouble must not change a security decision.
type AuditSink interface {
	Record(action domain.AuditAction, actor string, detail map[string]any)
}
