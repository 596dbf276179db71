package domain

// TransferDirectionIn is the only direction reconciled; anything else is a
// payout or bank-side noise and is acknowledged without action.
const TransferDirectionIn = "in"

// Notification is an inbound payment notification from the gateway webhook.
type Notification struct {
	// TransferType is the transfer direction ("in" for incoming).
	TransferType string `json:"transferType"`
	// Content is the free-text transfer description; the order reference is
	// embedded in it by the customer.
	Content string `json:"content"`
	// TransferAmount is the amount received.
	TransferAmount float64 `json:"transferAmount"`
}

// Outcome classifies the result of reconciling one notification.
type Outcome string

const (
	// OutcomePaid means the notification matched an order, which is now paid.
	OutcomePaid Outcome = "paid"
	// OutcomeIgnored means the transfer was not incoming money.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeNoReference means no order reference was found in the content.
	OutcomeNoReference Outcome = "no_reference"
	// OutcomeOrderNotFound means the referenced order does not exist.
	OutcomeOrderNotFound Outcome = "order_not_found"
	// OutcomeAmountMismatch means the transferred amount does not equal the
	// order total. Partial payments are not supported.
	OutcomeAmountMismatch Outcome = "amount_mismatch"
)
