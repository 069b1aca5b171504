package service

import (
	"context"
	"time"

	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/dto"
	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/repository/specification"
	"perfumeshop-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IOrderService interface {
	// CreateSingle builds a PENDING order with one line. Stock is reserved
	// before the order row commits.
	CreateSingle(ctx context.Context, userId uuid.UUID, req *dto.SingleCheckoutRequest) (*entity.Order, error)
	// CreateFromCart builds a PENDING order from selected cart lines,
	// recording the consumed cart-line ids for cleanup on markPaid.
	CreateFromCart(ctx context.Context, userId uuid.UUID, req *dto.CartCheckoutRequest) (*entity.Order, error)

	Show(ctx context.Context, userId, orderId uuid.UUID) (*dto.OrderResponse, error)
	ListMine(ctx context.Context, userId uuid.UUID) ([]*dto.OrderResponse, error)

	// State transitions. Each runs inside the caller's open unit of work so
	// ledger writes and the status flip commit or roll back together.
	MarkPaid(ctx context.Context, uow unitofwork.UnitOfWork, orderId uuid.UUID) (*entity.Order, error)
	MarkCanceled(ctx context.Context, uow unitofwork.UnitOfWork, orderId uuid.UUID) (*entity.Order, error)
	MarkFailed(ctx context.Context, uow unitofwork.UnitOfWork, orderId uuid.UUID) (*entity.Order, error)
	// ApplyCancel is the post-payment compensation: credit mileage back,
	// optionally restock every line, land on finalStatus.
	ApplyCancel(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, restoreMileage int, restock bool, finalStatus entity.OrderStatus) error
}

type orderService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewOrderService(uowFactory unitofwork.RepositoryFactory) IOrderService {
	return &orderService{
		uowFactory: uowFactory,
	}
}

// checkoutLine is one priced line ready for persistence.
type checkoutLine struct {
	productId   uuid.UUID
	productName string
	unitPrice   int
	quantity    int
	cartLineId  *uuid.UUID
}

func (s *orderService) CreateSingle(ctx context.Context, userId uuid.UUID, req *dto.SingleCheckoutRequest) (*entity.Order, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: req.ProductId})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFoundf("product not found")
	}

	line := checkoutLine{
		productId:   product.Id,
		productName: product.Name,
		unitPrice:   product.SellPrice,
		quantity:    normalizeQuantity(req.Quantity),
	}

	order, err := s.createOrder(ctx, uow, userId, []checkoutLine{line}, req.UsedPoint, req.Shipping)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) CreateFromCart(ctx context.Context, userId uuid.UUID, req *dto.CartCheckoutRequest) (*entity.Order, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	lineIds := make([]uuid.UUID, 0, len(req.Items))
	qtyByLine := make(map[uuid.UUID]int, len(req.Items))
	for _, item := range req.Items {
		lineIds = append(lineIds, item.CartLineId)
		qtyByLine[item.CartLineId] = normalizeQuantity(item.Quantity)
	}

	cartLines, err := uow.CartRepository().FindLines(ctx, lineIds)
	if err != nil {
		return nil, err
	}
	if len(cartLines) != len(lineIds) {
		return nil, apperr.NotFoundf("cart line not found")
	}

	var lines []checkoutLine
	for _, cl := range cartLines {
		if cl.CartUserId != userId {
			return nil, apperr.Validationf("cart line does not belong to you")
		}
		id := cl.Id
		lines = append(lines, checkoutLine{
			productId:   cl.ProductId,
			productName: cl.ProductName,
			unitPrice:   cl.UnitPrice,
			quantity:    qtyByLine[cl.Id],
			cartLineId:  &id,
		})
	}

	order, err := s.createOrder(ctx, uow, userId, lines, req.UsedPoint, req.Shipping)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// createOrder reserves stock line by line, then persists Order + OrderLines
// as PENDING. It runs inside the caller's transaction: a reservation failure
// on line N rolls back the reservations of lines 1..N-1 with everything else.
func (s *orderService) createOrder(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, lines []checkoutLine, requestedPoint int, shipping dto.ShippingSnapshotRequest) (*entity.Order, error) {
	if len(lines) == 0 {
		return nil, apperr.Validationf("order must have at least one line")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("user not found")
	}

	itemsTotal := 0
	for _, l := range lines {
		itemsTotal += l.unitPrice * l.quantity
	}
	shippingFee := shippingFeeFor(len(lines))
	usedPoint := clampUsedPoint(requestedPoint, user.Mileage, itemsTotal+shippingFee)

	// Reserve before the order row exists. The losing side of a stock race
	// gets ErrInsufficientStock here and no order is created.
	for _, l := range lines {
		if err := uow.ProductRepository().ReserveStock(ctx, l.productId, l.quantity); err != nil {
			return nil, err
		}
	}

	order := &entity.Order{
		Id:             uuid.New(),
		UserId:         userId,
		UsedPoint:      usedPoint,
		TotalAmount:    itemsTotal + shippingFee - usedPoint,
		ShippingFee:    shippingFee,
		Status:         entity.OrderStatusPending,
		DeliveryStatus: entity.DeliveryStatusOrdered,
		Shipping: entity.ShippingSnapshot{
			Recipient:     shipping.Recipient,
			Phone:         shipping.Phone,
			ZoneCode:      shipping.ZoneCode,
			RoadAddress:   shipping.RoadAddress,
			DetailAddress: shipping.DetailAddress,
			Memo:          shipping.Memo,
		},
		CreatedAt: time.Now(),
	}
	for _, l := range lines {
		order.Lines = append(order.Lines, entity.OrderLine{
			Id:          uuid.New(),
			OrderId:     order.Id,
			ProductId:   l.productId,
			UnitPrice:   l.unitPrice,
			Quantity:    l.quantity,
			LineTotal:   l.unitPrice * l.quantity,
			CartLineId:  l.cartLineId,
			ProductName: l.productName,
		})
	}

	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) Show(ctx context.Context, userId, orderId uuid.UUID) (*dto.OrderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	order, err := uow.OrderRepository().FindOneWithLines(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserId != userId {
		return nil, apperr.NotFoundf("order not found")
	}
	return mapOrderToResponse(order), nil
}

func (s *orderService) ListMine(ctx context.Context, userId uuid.UUID) ([]*dto.OrderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	orders, err := uow.OrderRepository().FindAllWithLines(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	var res []*dto.OrderResponse
	for _, o := range orders {
		res = append(res, mapOrderToResponse(o))
	}
	return res, nil
}

func (s *orderService) MarkPaid(ctx context.Context, uow unitofwork.UnitOfWork, orderId uuid.UUID) (*entity.Order, error) {
	order, err := uow.OrderRepository().FindOneWithLines(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFoundf("order not found")
	}

	// Duplicate gateway callbacks resolve silently to "already done".
	if order.PaidFamily() {
		return order, nil
	}
	if order.Status == entity.OrderStatusCanceled || order.Status == entity.OrderStatusFailed {
		return nil, apperr.Conflictf("order is %s and cannot be paid", order.Status)
	}

	// Debit before flipping the status. A failure here is a lost balance
	// race and aborts the whole transition.
	if err := uow.UserRepository().DebitMileage(ctx, order.UserId, order.UsedPoint); err != nil {
		return nil, err
	}

	if err := uow.OrderRepository().ConfirmLineQuantities(ctx, order.Id); err != nil {
		return nil, err
	}

	order.Status = entity.OrderStatusPaid
	order.DeliveryStatus = entity.DeliveryStatusOrdered
	if err := uow.OrderRepository().Update(ctx, order); err != nil {
		return nil, err
	}

	// Cart cleanup happens here, not at creation, so an abandoned checkout
	// leaves the cart intact.
	var consumed []uuid.UUID
	for i := range order.Lines {
		if order.Lines[i].CartLineId != nil {
			consumed = append(consumed, *order.Lines[i].CartLineId)
		}
	}
	if err := uow.CartRepository().DeleteLines(ctx, consumed); err != nil {
		return nil, err
	}

	for i := range order.Lines {
		order.Lines[i].ConfirmedQuantity = order.Lines[i].Quantity
	}
	return order, nil
}

func (s *orderService) MarkCanceled(ctx context.Context, uow unitofwork.UnitOfWork, orderId uuid.UUID) (*entity.Order, error) {
	return s.releaseAndFinish(ctx, uow, orderId, entity.OrderStatusCanceled)
}

func (s *orderService) MarkFailed(ctx context.Context, uow unitofwork.UnitOfWork, orderId uuid.UUID) (*entity.Order, error) {
	return s.releaseAndFinish(ctx, uow, orderId, entity.OrderStatusFailed)
}

// releaseAndFinish drives PENDING to a terminal status, releasing the stock
// reserved at creation. Any other starting status is a no-op, which makes a
// second cancel release nothing.
func (s *orderService) releaseAndFinish(ctx context.Context, uow unitofwork.UnitOfWork, orderId uuid.UUID, terminal entity.OrderStatus) (*entity.Order, error) {
	order, err := uow.OrderRepository().FindOneWithLines(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFoundf("order not found")
	}
	if order.Status != entity.OrderStatusPending {
		return order, nil
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		if err := uow.ProductRepository().ReleaseStock(ctx, line.ProductId, line.Quantity); err != nil {
			return nil, err
		}
	}

	order.Status = terminal
	if err := uow.OrderRepository().UpdateStatus(ctx, order.Id, terminal); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ApplyCancel(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, restoreMileage int, restock bool, finalStatus entity.OrderStatus) error {
	if err := uow.UserRepository().CreditMileage(ctx, order.UserId, restoreMileage); err != nil {
		return err
	}

	if restock {
		for i := range order.Lines {
			line := &order.Lines[i]
			if err := uow.ProductRepository().ReleaseStock(ctx, line.ProductId, line.Quantity); err != nil {
				return err
			}
		}
	}

	order.Status = finalStatus
	return uow.OrderRepository().UpdateStatus(ctx, order.Id, finalStatus)
}

func mapOrderToResponse(order *entity.Order) *dto.OrderResponse {
	res := &dto.OrderResponse{
		Id:          order.Id,
		Status:      string(order.Status),
		UsedPoint:   order.UsedPoint,
		ShippingFee: order.ShippingFee,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}
	if order.PaidFamily() {
		res.DeliveryStatus = string(order.DeliveryStatus)
	}
	for i := range order.Lines {
		l := &order.Lines[i]
		res.Lines = append(res.Lines, dto.OrderLineResponse{
			Id:                l.Id,
			ProductId:         l.ProductId,
			ProductName:       l.ProductName,
			UnitPrice:         l.UnitPrice,
			Quantity:          l.Quantity,
			LineTotal:         l.LineTotal,
			ConfirmedQuantity: l.ConfirmedQuantity,
		})
	}
	return res
}
