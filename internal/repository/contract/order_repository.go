package contract

import (
	"context"
	"time"

	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/repository/specification"

	"github.com/google/uuid"
)

type OrderRepository interface {
	// Create persists the order together with its lines.
	Create(ctx context.Context, order *entity.Order) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	// FindOneWithLines loads the order and its line snapshots (with product
	// names) in one query.
	FindOneWithLines(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindAllWithLines(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error)

	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error

	FindLine(ctx context.Context, lineId uuid.UUID) (*entity.OrderLine, error)
	// ConfirmLineQuantities sets confirmed_quantity = quantity on every line
	// of the order (the PAID transition).
	ConfirmLineQuantities(ctx context.Context, orderId uuid.UUID) error
	// AdjustLineConfirmedQuantity applies a delta to one line's confirmed
	// quantity (refund approval shrinks the sold portion).
	AdjustLineConfirmedQuantity(ctx context.Context, lineId uuid.UUID, delta int) error

	// Scheduler bulk writes: pure conditional updates on delivery_status.
	AdvanceToDelivered(ctx context.Context, orderedBefore time.Time) (int64, error)
	AdvanceToShipping(ctx context.Context, orderedAfter, orderedBefore time.Time) (int64, error)
	// FindStalePendingIds lists PENDING orders older than the cutoff for the
	// reclaim sweep.
	FindStalePendingIds(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}
