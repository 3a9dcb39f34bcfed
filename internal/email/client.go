// Package email defines the interface for transactional email delivery,
// renders the lead notification and provides a Resend-backed implementation.
package email

import (
	"context"
	"fmt"
)

// Message is one outbound email.
type Message struct {
	From    string   // "Name <addr>" or a bare address
	To      []string // the sales inbox; never the respondent
	Subject string
	HTML    string
	ReplyTo string // respondent address so staff can answer directly
	// Ref is an opaque reference sent as the X-Entity-Ref-ID header; it keeps
	// mail clients from threading unrelated leads together.
	Ref string
}

// Sender is the interface the API uses to deliver lead notifications.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// Send delivers exactly one message. It does not retry; a non-nil error
	// means the provider did not accept the message.
	//
	// Implementations must be safe to call concurrently.
	Send(ctx context.Context, m Message) error
}

// ProviderError is returned when the email provider answers but rejects the
// message. Message is the provider's own text and is safe to pass through.
type ProviderError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("email: provider error %s (status %d): %s", e.Name, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("email: provider error (status %d): %s", e.StatusCode, e.Message)
}
