// Package mail relays composed contact messages. The outbound transport is a
// black box behind Sender: the relay neither retries nor queues.
package mail

import "context"

// Message is a fully composed email ready to hand to a transport.
type Message struct {
	To           string
	Subject      string
	HTMLBody     string
	ReplyToEmail string
	ReplyToName  string
}

// Sender delivers a message. Implementations must respect ctx cancellation;
// the caller imposes the send timeout.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
