package ports

import "context"

// Mailer delivers a message to an external address. Delivery failures are an
// operational concern: callers in the reset flow log them but never let them
// change the caller-visible response.
type Mailer interface {
	Deliver(ctx context.Context, address, subject, body string) error
}
