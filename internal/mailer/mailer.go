// Package mailer is the boundary to the out-of-band mail transport. The
// auth flow only needs a fire-and-forget "dispatch this message" call; the
// actual delivery is someone else's job, reached through the broker.
package mailer

import "context"

// Message is one outbound mail.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Dispatcher hands a message to the transport. Implementations must not
// block the request path longer than a broker publish takes; delivery
// status is not reported back.
type Dispatcher interface {
	Dispatch(ctx context.Context, m Message) error
}
