package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer stands in for a real relay in development. It logs the envelope
// only, never the body, which carries the plaintext reset token.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Deliver(_ context.Context, address, subject, _ string) error {
	m.log.Info().Str("to", address).Str("subject", subject).Msg("mail delivery (log mailer)")
	return nil
}
