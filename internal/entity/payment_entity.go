package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusReady    PaymentStatus = "READY"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusCanceled PaymentStatus = "CANCELED"
)

// Payment is one gateway round trip for an order. An order may accumulate a
// chronological sequence of payments (abandoned retries) but only the latest
// is current. Rows are created READY and mutated in place, never deleted.
type Payment struct {
	Id         uuid.UUID
	OrderId    uuid.UUID
	Amount     int
	Status     PaymentStatus
	Tid        string // gateway transaction id, unique
	Aid        string // gateway approval id
	ApprovedAt *time.Time
	CreatedAt  time.Time
}
