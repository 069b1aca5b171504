package service

import (
	"context"
	"time"

	"perfumeshop-be/internal/repository/unitofwork"
)

// IDeliveryService hosts the periodic sweeps: delivery-status advancement and
// stale-PENDING reclamation. Both are idempotent and safe to rerun.
type IDeliveryService interface {
	// AdvanceDeliveryStatus runs the two conditional bulk updates: paid
	// orders older than 3 days become DELIVERED, those between 1 and 3 days
	// become SHIPPING. Returns the affected row counts.
	AdvanceDeliveryStatus(ctx context.Context) (delivered, shipping int64, err error)
	// ExpireStalePending drives PENDING orders older than the timeout
	// through the failure path, releasing their reservations.
	ExpireStalePending(ctx context.Context) (int, error)
}

type deliveryService struct {
	uowFactory     unitofwork.RepositoryFactory
	orderService   IOrderService
	pendingTimeout time.Duration
}

func NewDeliveryService(uowFactory unitofwork.RepositoryFactory, orderService IOrderService, pendingTimeout time.Duration) IDeliveryService {
	return &deliveryService{
		uowFactory:     uowFactory,
		orderService:   orderService,
		pendingTimeout: pendingTimeout,
	}
}

func (s *deliveryService) AdvanceDeliveryStatus(ctx context.Context) (int64, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	// Older window first so an order crossing both cutoffs between the two
	// statements lands on DELIVERED, not back on SHIPPING.
	delivered, err := uow.OrderRepository().AdvanceToDelivered(ctx, now.AddDate(0, 0, -3))
	if err != nil {
		return 0, 0, err
	}

	shipping, err := uow.OrderRepository().AdvanceToShipping(ctx, now.AddDate(0, 0, -3), now.AddDate(0, 0, -1))
	if err != nil {
		return delivered, 0, err
	}

	return delivered, shipping, nil
}

func (s *deliveryService) ExpireStalePending(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ids, err := uow.OrderRepository().FindStalePendingIds(ctx, time.Now().Add(-s.pendingTimeout))
	if err != nil {
		return 0, err
	}

	// One transaction per order: a failure on one order does not hold the
	// rest of the sweep hostage, and the transition itself is a no-op on any
	// order a gateway callback resolved in the meantime.
	failed := 0
	for _, id := range ids {
		txUow := s.uowFactory.NewUnitOfWork(ctx)
		if err := txUow.Begin(ctx); err != nil {
			return failed, err
		}
		if _, err := s.orderService.MarkFailed(ctx, txUow, id); err != nil {
			txUow.Rollback()
			continue
		}
		if err := txUow.Commit(); err != nil {
			return failed, err
		}
		failed++
	}

	return failed, nil
}
