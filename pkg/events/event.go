package events

import "time"

// Settlement event codes published to the bus. Consumers key off these to
// notify the customer.
const (
	TypeOrderPaid      = "ORDER_PAID"
	TypeOrderCanceled  = "ORDER_CANCELED"
	TypeRefundRequest  = "REFUND_REQUESTED"
	TypeRefundApproved = "REFUND_APPROVED"
	TypeRefundRejected = "REFUND_REJECTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ORDER_PAID").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers and
// reconstructed by subscribers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
