package contract

import (
	"context"

	"perfumeshop-be/internal/entity"

	"github.com/google/uuid"
)

type CartRepository interface {
	// FindOrCreateByUser returns the user's cart, creating it on first use.
	FindOrCreateByUser(ctx context.Context, userId uuid.UUID) (*entity.Cart, error)
	FindByUserWithLines(ctx context.Context, userId uuid.UUID) (*entity.Cart, error)

	// AddLine inserts a line or bumps the quantity of an existing line for
	// the same product.
	AddLine(ctx context.Context, cartId, productId uuid.UUID, qty int) error

	// FindLines loads lines by id with product and owning cart attached, for
	// ownership checks during checkout.
	FindLines(ctx context.Context, lineIds []uuid.UUID) ([]*entity.CartLine, error)

	// DeleteLinesOwnedBy removes the given lines if they belong to the user,
	// returning how many were removed.
	DeleteLinesOwnedBy(ctx context.Context, lineIds []uuid.UUID, userId uuid.UUID) (int64, error)
	DeleteLines(ctx context.Context, lineIds []uuid.UUID) error
}
