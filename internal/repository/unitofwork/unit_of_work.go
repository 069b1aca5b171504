package unitofwork

import (
	"context"

	"perfumeshop-be/internal/repository/contract"
)

// UnitOfWork scopes repositories to a single transaction. Every settlement
// write path (checkout, approve, cancel, refund) runs inside one.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProductRepository() contract.ProductRepository
	CartRepository() contract.CartRepository
	OrderRepository() contract.OrderRepository
	PaymentRepository() contract.PaymentRepository
	RefundRepository() contract.RefundRepository
}
