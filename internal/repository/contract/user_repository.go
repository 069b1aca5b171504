package contract

import (
	"context"

	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/repository/specification"

	"github.com/google/uuid"
)

// UserRepository exposes user reads plus the mileage ledger.
type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)

	// DebitMileage spends points iff the balance covers the amount; returns
	// apperr.ErrInsufficientBalance when the conditional update touches no
	// row. Checkout clamps usage so a failure here means a lost race.
	DebitMileage(ctx context.Context, userId uuid.UUID, amount int) error

	// CreditMileage is the unconditional counter-increment.
	CreditMileage(ctx context.Context, userId uuid.UUID, amount int) error
}
