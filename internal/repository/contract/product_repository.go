package contract

import (
	"context"

	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ProductRepository exposes catalog reads plus the stock ledger. Reserve and
// Release are the only ways stock moves; both are single conditional UPDATE
// statements so concurrent checkouts race inside the database, not here.
type ProductRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)

	// ReserveStock decrements available stock iff enough remains; returns
	// apperr.ErrInsufficientStock when the conditional update touches no row.
	ReserveStock(ctx context.Context, productId uuid.UUID, qty int) error

	// ReleaseStock is the unconditional counter-increment. Callers ensure at
	// most one release per reservation.
	ReleaseStock(ctx context.Context, productId uuid.UUID, qty int) error
}
