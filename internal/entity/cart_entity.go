package entity

import (
	"time"

	"github.com/google/uuid"
)

// Cart lines are consumed (deleted) only when the order that selected them is
// marked paid; a failed or canceled order leaves the cart untouched.
type Cart struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time

	Lines []CartLine
}

type CartLine struct {
	Id        uuid.UUID
	CartId    uuid.UUID
	ProductId uuid.UUID
	Quantity  int
	CreatedAt time.Time

	ProductName string
	UnitPrice   int // live catalog price at read time, not a snapshot
	Stock       int
	CartUserId  uuid.UUID
}
