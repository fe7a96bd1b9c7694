package kafka

import "time"

// Event is the envelope shared by every published record. Consumers
// (email dispatch, analytics) key off the topic; the envelope carries
// correlation and ordering data only.
type Event struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	OccurredAt    time.Time `json:"occurred_at"`

	OrderID    string `json:"order_id,omitempty"`
	PaymentID  string `json:"payment_id,omitempty"`
	AttendeeID string `json:"attendee_id,omitempty"`
	CouponCode string `json:"coupon_code,omitempty"`
	Feedback   string `json:"feedback,omitempty"`
}
