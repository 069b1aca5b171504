package contract

import (
	"context"

	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	// FindLatestByOrderId returns the current payment of an order (newest of
	// the chronological sequence).
	FindLatestByOrderId(ctx context.Context, orderId uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
}
