package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/dto"
	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/repository/specification"
	"perfumeshop-be/internal/repository/unitofwork"
	"perfumeshop-be/pkg/events"
	"perfumeshop-be/pkg/gateway/kakaopay"
	pktNats "perfumeshop-be/pkg/nats"

	"github.com/google/uuid"
)

type IPayService interface {
	// ReadySingle runs the buy-now flow: create a PENDING order with one
	// line, open a gateway session, persist the READY payment row.
	ReadySingle(ctx context.Context, userId uuid.UUID, req *dto.SingleCheckoutRequest) (*dto.ReadyResponse, error)
	// ReadyCart is the same flow over selected cart lines.
	ReadyCart(ctx context.Context, userId uuid.UUID, req *dto.CartCheckoutRequest) (*dto.ReadyResponse, error)

	// Approve handles the gateway success callback.
	Approve(ctx context.Context, userId, orderId uuid.UUID, pgToken string) (*dto.PayApproveResponse, error)
	// Cancel handles the customer closing the gateway popup.
	Cancel(ctx context.Context, userId, orderId uuid.UUID) error
	// Fail handles the gateway reporting an error mid-flow.
	Fail(ctx context.Context, userId, orderId uuid.UUID) error

	// CancelPaid is the full-order cancellation of an already-paid order.
	CancelPaid(ctx context.Context, userId, orderId uuid.UUID) (*dto.PayCancelResponse, error)
}

type payService struct {
	uowFactory     unitofwork.RepositoryFactory
	orderService   IOrderService
	gateway        *kakaopay.Client
	eventPublisher *pktNats.Publisher
	baseURL        string
}

func NewPayService(
	uowFactory unitofwork.RepositoryFactory,
	orderService IOrderService,
	gateway *kakaopay.Client,
	eventPublisher *pktNats.Publisher,
	baseURL string,
) IPayService {
	return &payService{
		uowFactory:     uowFactory,
		orderService:   orderService,
		gateway:        gateway,
		eventPublisher: eventPublisher,
		baseURL:        baseURL,
	}
}

func (s *payService) ReadySingle(ctx context.Context, userId uuid.UUID, req *dto.SingleCheckoutRequest) (*dto.ReadyResponse, error) {
	order, err := s.orderService.CreateSingle(ctx, userId, req)
	if err != nil {
		return nil, err
	}
	return s.ready(ctx, userId, order)
}

func (s *payService) ReadyCart(ctx context.Context, userId uuid.UUID, req *dto.CartCheckoutRequest) (*dto.ReadyResponse, error) {
	order, err := s.orderService.CreateFromCart(ctx, userId, req)
	if err != nil {
		return nil, err
	}
	return s.ready(ctx, userId, order)
}

// ready opens the gateway session for a freshly created PENDING order. The
// order is already committed; a gateway failure here fails the order so its
// reservation goes back immediately instead of waiting for the stale sweep.
func (s *payService) ready(ctx context.Context, userId uuid.UUID, order *entity.Order) (*dto.ReadyResponse, error) {
	totalQty := 0
	for i := range order.Lines {
		totalQty += order.Lines[i].Quantity
	}

	gatewayReq := &kakaopay.ReadyRequest{
		PartnerOrderId: order.Id.String(),
		PartnerUserId:  userId.String(),
		ItemName:       itemNameFor(order),
		Quantity:       totalQty,
		TotalAmount:    order.TotalAmount,
		ApprovalURL:    fmt.Sprintf("%s/api/pay/v1/%s/approve", s.baseURL, order.Id),
		CancelURL:      fmt.Sprintf("%s/api/pay/v1/%s/cancel", s.baseURL, order.Id),
		FailURL:        fmt.Sprintf("%s/api/pay/v1/%s/fail", s.baseURL, order.Id),
	}

	res, err := s.gateway.Ready(ctx, gatewayReq)
	if err != nil {
		s.finishOrder(ctx, userId, order.Id, false)
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	payment := &entity.Payment{
		Id:      uuid.New(),
		OrderId: order.Id,
		Amount:  order.TotalAmount,
		Status:  entity.PaymentStatusReady,
		Tid:     res.Tid,
	}
	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, err
	}

	return &dto.ReadyResponse{
		OrderId:     order.Id,
		TotalAmount: order.TotalAmount,
		RedirectUrl: res.NextRedirectPcUrl,
		CreatedAt:   order.CreatedAt,
	}, nil
}

func (s *payService) Approve(ctx context.Context, userId, orderId uuid.UUID, pgToken string) (*dto.PayApproveResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Ownership first: the callback URL carries the order id, so a foreign id
	// must not reach the gateway or leak payment state.
	order, err := uow.OrderRepository().FindOneWithLines(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserId != userId {
		return nil, apperr.NotFoundf("order not found")
	}

	payment, err := uow.PaymentRepository().FindLatestByOrderId(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperr.NotFoundf("payment not found for order")
	}

	// Duplicate callback: the first one already settled everything.
	if payment.Status == entity.PaymentStatusSuccess {
		return &dto.PayApproveResponse{
			OrderId:    orderId,
			Status:     string(entity.OrderStatusPaid),
			Amount:     payment.Amount,
			Aid:        payment.Aid,
			ApprovedAt: payment.ApprovedAt,
		}, nil
	}

	approveRes, err := s.gateway.Approve(ctx, payment.Tid, orderId.String(), userId.String(), pgToken)
	if err != nil {
		return nil, err
	}
	if approveRes.Amount.Total != payment.Amount {
		return nil, apperr.Conflictf("gateway approved %d but order expects %d", approveRes.Amount.Total, payment.Amount)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	order, err = s.orderService.MarkPaid(ctx, uow, orderId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment.Status = entity.PaymentStatusSuccess
	payment.Aid = approveRes.Aid
	payment.ApprovedAt = &now
	if err := uow.PaymentRepository().Update(ctx, payment); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeOrderPaid, map[string]interface{}{
		"order_id": order.Id.String(),
		"user_id":  order.UserId.String(),
		"amount":   order.TotalAmount,
	})

	return &dto.PayApproveResponse{
		OrderId:    order.Id,
		Status:     string(order.Status),
		Amount:     payment.Amount,
		Aid:        payment.Aid,
		ApprovedAt: payment.ApprovedAt,
	}, nil
}

func (s *payService) Cancel(ctx context.Context, userId, orderId uuid.UUID) error {
	return s.finishOrder(ctx, userId, orderId, true)
}

func (s *payService) Fail(ctx context.Context, userId, orderId uuid.UUID) error {
	return s.finishOrder(ctx, userId, orderId, false)
}

func (s *payService) finishOrder(ctx context.Context, userId, orderId uuid.UUID, canceled bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return err
	}
	if order == nil || order.UserId != userId {
		return apperr.NotFoundf("order not found")
	}
	if canceled {
		_, err = s.orderService.MarkCanceled(ctx, uow, orderId)
	} else {
		_, err = s.orderService.MarkFailed(ctx, uow, orderId)
	}
	if err != nil {
		return err
	}

	return uow.Commit()
}

func (s *payService) CancelPaid(ctx context.Context, userId, orderId uuid.UUID) (*dto.PayCancelResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	order, err := uow.OrderRepository().FindOneWithLines(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserId != userId {
		return nil, apperr.NotFoundf("order not found")
	}
	if order.Status == entity.OrderStatusCanceled {
		return &dto.PayCancelResponse{OrderId: orderId, Status: string(order.Status), AlreadyCanceled: true}, nil
	}
	if order.Status != entity.OrderStatusPaid {
		return nil, apperr.Conflictf("order is %s and cannot be canceled after payment", order.Status)
	}

	payment, err := uow.PaymentRepository().FindLatestByOrderId(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.Status != entity.PaymentStatusSuccess {
		return nil, apperr.Conflictf("no settled payment to cancel")
	}

	// The gateway cancel sits inside the unit of work: if it fails nothing
	// below commits, if a later write fails the transaction rolls back and
	// the operator retries against an idempotent gateway.
	if _, err := s.gateway.Cancel(ctx, payment.Tid, order.TotalAmount); err != nil {
		return nil, err
	}

	if err := s.orderService.ApplyCancel(ctx, uow, order, order.UsedPoint, true, entity.OrderStatusCanceled); err != nil {
		return nil, err
	}

	payment.Status = entity.PaymentStatusCanceled
	if err := uow.PaymentRepository().Update(ctx, payment); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeOrderCanceled, map[string]interface{}{
		"order_id": order.Id.String(),
		"user_id":  order.UserId.String(),
		"amount":   order.TotalAmount,
	})

	return &dto.PayCancelResponse{OrderId: orderId, Status: string(entity.OrderStatusCanceled)}, nil
}

func (s *payService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.New(eventType, data)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		// Notification is best effort; the settlement already committed.
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}

func itemNameFor(order *entity.Order) string {
	if len(order.Lines) == 0 {
		return "order"
	}
	name := order.Lines[0].ProductName
	if name == "" {
		name = "item"
	}
	if len(order.Lines) > 1 {
		return fmt.Sprintf("%s and %d more", name, len(order.Lines)-1)
	}
	return name
}
