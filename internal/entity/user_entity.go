package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id       uuid.UUID
	UserName string
	Email    string
	FullName string
	Phone    string
	// Mileage is the point-ledger balance. Never negative; mutated only
	// through conditional debit / unconditional credit.
	Mileage   int
	CreatedAt time.Time
	UpdatedAt time.Time
}
