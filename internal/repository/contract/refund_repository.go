package contract

import (
	"context"

	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RefundRepository interface {
	// Create persists the refund together with its lines.
	Create(ctx context.Context, refund *entity.Refund) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Refund, error)
	// FindOneWithLines loads the refund, its lines and their source order
	// lines.
	FindOneWithLines(ctx context.Context, id uuid.UUID) (*entity.Refund, error)
	FindAllWithLines(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error)

	// ExistsByOrderAndStatus guards the one-open-request-per-order rule.
	ExistsByOrderAndStatus(ctx context.Context, orderId uuid.UUID, status entity.RefundStatus) (bool, error)

	// SumRefundMileageByOrder totals the mileage already credited back by
	// approved refunds of the order. The proportional allocation is clamped
	// against it so repeated partial refunds never over-credit.
	SumRefundMileageByOrder(ctx context.Context, orderId uuid.UUID) (int, error)

	Update(ctx context.Context, refund *entity.Refund) error
	UpdateLine(ctx context.Context, line *entity.RefundLine) error
}
