// Package session holds transient per-customer conversation state. A session
// exists only between the first inbound message and order submission (or
// explicit cancellation of the conversation).
package session

import "context"

// Step is the position in the intake conversation.
type Step int

const (
	// StepLocation waits for the customer to pick a location from the menu.
	StepLocation Step = iota + 1
	// StepOrderText waits for the free-text order.
	StepOrderText
)

// Session is the conversation state for one customer contact.
type Session struct {
	Step      Step   `json:"step"`
	Location  string `json:"location,omitempty"`
	DateLabel string `json:"dateLabel,omitempty"`
}

// Store keeps sessions keyed by customer contact. Implementations must treat
// a missing key as "no session" rather than an error.
type Store interface {
	Get(ctx context.Context, contact string) (Session, bool, error)
	Put(ctx context.Context, contact string, s Session) error
	Delete(ctx context.Context, contact string) error
}
