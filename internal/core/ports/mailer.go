package ports

import "context"

// MailMessage is a single outbound email.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailEnqueuer hands a message to the asynchronous delivery pipeline.
// Enqueue never blocks the request path beyond queue admission.
type MailEnqueuer interface {
	Enqueue(msg MailMessage)
}
