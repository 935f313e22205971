package mail

import "context"

// Message is a fully-rendered email ready for delivery.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a message through the configured provider and returns the
// provider message id for the audit ledger.
type Mailer interface {
	Send(ctx context.Context, msg *Message) (string, error)
}
