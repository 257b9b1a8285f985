// Package orders owns the order record and its lifecycle: intake creates a
// pending order, administrator approval activates and dispatches it, and
// edit/cancel mutate or retire it under authorization rules.
package orders

// Status is the lifecycle state of an order.
type Status string

const (
	// StatusPending awaits administrator approval.
	StatusPending Status = "pending"
	// StatusActive has been approved and dispatched to suppliers.
	StatusActive Status = "active"
	// StatusEdited is an active order whose item text was replaced; it
	// behaves as active for all further transitions.
	StatusEdited Status = "edited"
	// StatusCancelled is terminal; cancelled records are deleted, the value
	// exists for transition logging.
	StatusCancelled Status = "cancelled"
	// StatusDelivered is terminal and immutable: no further edits or
	// cancellation.
	StatusDelivered Status = "delivered"
)

// Submitter identifies the customer who placed the order.
type Submitter struct {
	Name    string
	Contact string
}

// Order is the record held in exactly one of the pending/active stores from
// creation until terminal deletion. ID is assigned once and never changes.
type Order struct {
	ID        string
	Location  string
	DateLabel string
	Submitter Submitter
	Items     []string // rendered item lines, input order preserved
	Status    Status
	RawText   string
}
