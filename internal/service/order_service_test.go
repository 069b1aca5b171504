package service

import (
	"context"
	"sync"
	"testing"

	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/dto"
	"perfumeshop-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func testShipping() dto.ShippingSnapshotRequest {
	return dto.ShippingSnapshotRequest{
		Recipient:   "Kim",
		Phone:       "01012345678",
		RoadAddress: "1 Teheran-ro",
	}
}

func TestCreateSingleComputesTotals(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(500)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	svc := NewOrderService(factory)

	order, err := svc.CreateSingle(context.Background(), user.Id, &dto.SingleCheckoutRequest{
		ProductId: product.Id,
		Quantity:  2,
		UsedPoint: 500,
		Shipping:  testShipping(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.DeliveryStatusOrdered, order.DeliveryStatus)
	assert.Equal(t, 3000, order.ShippingFee)
	assert.Equal(t, 500, order.UsedPoint)
	// 2 x 10000 + 3000 shipping - 500 points
	assert.Equal(t, 22500, order.TotalAmount)

	// Stock is reserved at creation, before any payment.
	assert.Equal(t, 8, factory.state.products[product.Id].StockQuantity)
	// Mileage is only debited at the PAID transition.
	assert.Equal(t, 500, factory.state.users[user.Id].Mileage)
}

func TestCreateSingleClampsUsedPoint(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(300)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	svc := NewOrderService(factory)

	order, err := svc.CreateSingle(context.Background(), user.Id, &dto.SingleCheckoutRequest{
		ProductId: product.Id,
		Quantity:  1,
		UsedPoint: 99999,
		Shipping:  testShipping(),
	})

	assert.NoError(t, err)
	assert.Equal(t, 300, order.UsedPoint)
	assert.Equal(t, 10000+3000-300, order.TotalAmount)
}

func TestCreateSingleInsufficientStock(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(0)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 1)
	svc := NewOrderService(factory)

	_, err := svc.CreateSingle(context.Background(), user.Id, &dto.SingleCheckoutRequest{
		ProductId: product.Id,
		Quantity:  2,
		Shipping:  testShipping(),
	})

	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
}

// Two buyers race for the last unit: exactly one checkout wins, the other
// loses with the stock error, and stock never goes negative.
func TestCreateSingleConcurrentLastUnit(t *testing.T) {
	factory := newFakeFactory()
	userA := factory.state.addUser(0)
	userB := factory.state.addUser(0)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 1)
	svc := NewOrderService(factory)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, buyer := range []*entity.User{userA, userB} {
		wg.Add(1)
		go func(i int, buyer *entity.User) {
			defer wg.Done()
			_, errs[i] = svc.CreateSingle(context.Background(), buyer.Id, &dto.SingleCheckoutRequest{
				ProductId: product.Id,
				Quantity:  1,
				Shipping:  testShipping(),
			})
		}(i, buyer)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 0, factory.state.products[product.Id].StockQuantity)
}

func TestCreateFromCartRejectsForeignLines(t *testing.T) {
	factory := newFakeFactory()
	owner := factory.state.addUser(0)
	intruder := factory.state.addUser(0)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	svc := NewOrderService(factory)

	ctx := context.Background()
	cartRepo := factory.NewUnitOfWork(ctx).CartRepository()
	cart, err := cartRepo.FindOrCreateByUser(ctx, owner.Id)
	assert.NoError(t, err)
	assert.NoError(t, cartRepo.AddLine(ctx, cart.Id, product.Id, 1))
	loaded, err := cartRepo.FindByUserWithLines(ctx, owner.Id)
	assert.NoError(t, err)
	assert.Len(t, loaded.Lines, 1)

	_, err = svc.CreateFromCart(ctx, intruder.Id, &dto.CartCheckoutRequest{
		Items: []dto.CartSelectionItem{
			{CartLineId: loaded.Lines[0].Id, Quantity: 1},
		},
		Shipping: testShipping(),
	})

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestMarkPaidDebitsOnceAndConsumesCartLines(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(2000)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	svc := NewOrderService(factory)
	ctx := context.Background()

	cartRepo := factory.NewUnitOfWork(ctx).CartRepository()
	cart, _ := cartRepo.FindOrCreateByUser(ctx, user.Id)
	assert.NoError(t, cartRepo.AddLine(ctx, cart.Id, product.Id, 2))
	loaded, _ := cartRepo.FindByUserWithLines(ctx, user.Id)

	order, err := svc.CreateFromCart(ctx, user.Id, &dto.CartCheckoutRequest{
		Items: []dto.CartSelectionItem{
			{CartLineId: loaded.Lines[0].Id, Quantity: 2},
		},
		UsedPoint: 2000,
		Shipping:  testShipping(),
	})
	assert.NoError(t, err)

	uow := factory.NewUnitOfWork(ctx)
	paid, err := svc.MarkPaid(ctx, uow, order.Id)
	assert.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, paid.Status)
	assert.Equal(t, 2, paid.Lines[0].ConfirmedQuantity)
	assert.Equal(t, 0, factory.state.users[user.Id].Mileage)

	// Consumed cart lines are gone.
	after, _ := cartRepo.FindByUserWithLines(ctx, user.Id)
	assert.Empty(t, after.Lines)

	// A duplicate gateway callback is a silent no-op: no second debit.
	again, err := svc.MarkPaid(ctx, factory.NewUnitOfWork(ctx), order.Id)
	assert.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, again.Status)
	assert.Equal(t, 1, factory.state.debitCalls)
	assert.Equal(t, 0, factory.state.users[user.Id].Mileage)
}

func TestMarkPaidOnCanceledOrderConflicts(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(0)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	svc := NewOrderService(factory)
	ctx := context.Background()

	order, err := svc.CreateSingle(ctx, user.Id, &dto.SingleCheckoutRequest{
		ProductId: product.Id, Quantity: 1, Shipping: testShipping(),
	})
	assert.NoError(t, err)

	_, err = svc.MarkCanceled(ctx, factory.NewUnitOfWork(ctx), order.Id)
	assert.NoError(t, err)

	_, err = svc.MarkPaid(ctx, factory.NewUnitOfWork(ctx), order.Id)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestMarkCanceledReleasesStockExactlyOnce(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(0)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	svc := NewOrderService(factory)
	ctx := context.Background()

	order, err := svc.CreateSingle(ctx, user.Id, &dto.SingleCheckoutRequest{
		ProductId: product.Id, Quantity: 3, Shipping: testShipping(),
	})
	assert.NoError(t, err)
	assert.Equal(t, 7, factory.state.products[product.Id].StockQuantity)

	canceled, err := svc.MarkCanceled(ctx, factory.NewUnitOfWork(ctx), order.Id)
	assert.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCanceled, canceled.Status)
	assert.Equal(t, 10, factory.state.products[product.Id].StockQuantity)

	// Second cancel finds a non-PENDING order and releases nothing.
	_, err = svc.MarkCanceled(ctx, factory.NewUnitOfWork(ctx), order.Id)
	assert.NoError(t, err)
	assert.Equal(t, 10, factory.state.products[product.Id].StockQuantity)
	assert.Equal(t, 1, factory.state.releaseCalls[product.Id])
}

func TestApplyCancelCreditsAndRestocks(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(1000)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	svc := NewOrderService(factory)
	ctx := context.Background()

	order, err := svc.CreateSingle(ctx, user.Id, &dto.SingleCheckoutRequest{
		ProductId: product.Id, Quantity: 2, UsedPoint: 1000, Shipping: testShipping(),
	})
	assert.NoError(t, err)
	_, err = svc.MarkPaid(ctx, factory.NewUnitOfWork(ctx), order.Id)
	assert.NoError(t, err)
	assert.Equal(t, 0, factory.state.users[user.Id].Mileage)

	err = svc.ApplyCancel(ctx, factory.NewUnitOfWork(ctx), order, order.UsedPoint, true, entity.OrderStatusCanceled)
	assert.NoError(t, err)
	assert.Equal(t, 1000, factory.state.users[user.Id].Mileage)
	assert.Equal(t, 10, factory.state.products[product.Id].StockQuantity)
	assert.Equal(t, entity.OrderStatusCanceled, factory.state.orders[order.Id].Status)
}

func TestShowHidesForeignOrders(t *testing.T) {
	factory := newFakeFactory()
	owner := factory.state.addUser(0)
	other := factory.state.addUser(0)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	svc := NewOrderService(factory)
	ctx := context.Background()

	order, err := svc.CreateSingle(ctx, owner.Id, &dto.SingleCheckoutRequest{
		ProductId: product.Id, Quantity: 1, Shipping: testShipping(),
	})
	assert.NoError(t, err)

	res, err := svc.Show(ctx, owner.Id, order.Id)
	assert.NoError(t, err)
	assert.Equal(t, order.Id, res.Id)
	// Delivery status is hidden until the order is paid.
	assert.Empty(t, res.DeliveryStatus)

	_, err = svc.Show(ctx, other.Id, order.Id)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
