package service

import "context"

// MailSender delivers outbound notification email. Callers treat delivery as
// best-effort: failures are logged by the caller, never retried.
type MailSender interface {
	// Send delivers a plain-text message to a single recipient.
	Send(ctx context.Context, to, subject, body string) error
}
