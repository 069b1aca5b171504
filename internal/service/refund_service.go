package service

import (
	"context"
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

type IRefundService interface {
	// Request opens a refund (status REQUESTED) after validating ownership,
	// order state and quantity bounds. Nothing is credited yet.
	Request(ctx context.Context, userId uuid.UUID, req *dto.RefundRequest) (*dto.RefundRequestResponse, error)

	ListMine(ctx context.Context, userId uuid.UUID) ([]*dto.RefundResponse, error)
	Show(ctx context.Context, userId, refundId uuid.UUID) (*dto.RefundResponse, error)

	// Admin side.
	AdminList(ctx context.Context, status string, limit, offset int) ([]*dto.RefundResponse, error)
	// Approve settles a REQUESTED refund: persists the decision, credits
	// mileage, cancels the gateway payment, restocks on a full-order refund.
	// One unit of work: a gateway failure rolls everything back.
	Approve(ctx context.Context, refundId uuid.UUID, req *dto.AdminApproveRefundRequest) (*dto.AdminApproveRefundResponse, error)
}

type refundService struct {
	uowFactory     unitofwork.RepositoryFactory
	orderService   IOrderService
	gateway        *kakaopay.Client
	eventPublisher *pktNats.Publisher
}

func NewRefundService(
	uowFactory unitofwork.RepositoryFactory,
	orderService IOrderService,
	gateway *kakaopay.Client,
	eventPublisher *pktNats.Publisher,
) IRefundService {
	return &refundService{
		uowFactory:     uowFactory,
		orderService:   orderService,
		gateway:        gateway,
		eventPublisher: eventPublisher,
	}
}

func (s *refundService) Request(ctx context.Context, userId uuid.UUID, req *dto.RefundRequest) (*dto.RefundRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	order, err := uow.OrderRepository().FindOneWithLines(ctx, req.OrderId)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFoundf("order not found")
	}
	if order.UserId != userId {
		return nil, apperr.Validationf("order does not belong to you")
	}
	if order.Status != entity.OrderStatusPaid {
		return nil, apperr.Conflictf("order is %s; refunds are only accepted on paid orders", order.Status)
	}
	if order.DeliveryStatus != entity.DeliveryStatusDelivered {
		return nil, apperr.Conflictf("refunds are only accepted after delivery completes")
	}

	open, err := uow.RefundRepository().ExistsByOrderAndStatus(ctx, order.Id, entity.RefundStatusRequested)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, apperr.Conflictf("a refund request for this order is already in progress")
	}

	linesById := make(map[uuid.UUID]*entity.OrderLine, len(order.Lines))
	for i := range order.Lines {
		linesById[order.Lines[i].Id] = &order.Lines[i]
	}

	payment, err := uow.PaymentRepository().FindLatestByOrderId(ctx, order.Id)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.Status != entity.PaymentStatusSuccess {
		return nil, apperr.Conflictf("no settled payment on this order")
	}

	refund := &entity.Refund{
		Id:              uuid.New(),
		OrderId:         order.Id,
		UserId:          userId,
		PaymentId:       payment.Id,
		Status:          entity.RefundStatusRequested,
		RequestedReason: req.Reason,
		CreatedAt:       time.Now(),
	}

	requestedAny := false
	for _, item := range req.Items {
		if item.Quantity == 0 {
			continue
		}
		line, ok := linesById[item.OrderLineId]
		if !ok {
			return nil, apperr.Validationf("order line %s is not part of this order", item.OrderLineId)
		}
		// Bound by the refundable baseline, not the ordered quantity: earlier
		// approved refunds have already shrunk confirmedQuantity, and a second
		// request must not pay those units out again.
		if item.Quantity < 0 || item.Quantity > line.ConfirmedQuantity {
			return nil, apperr.Validationf("requested quantity %d exceeds the %d refundable on line %s", item.Quantity, line.ConfirmedQuantity, item.OrderLineId)
		}
		requestedAny = true
		refund.Lines = append(refund.Lines, entity.RefundLine{
			Id:               uuid.New(),
			RefundId:         refund.Id,
			OrderLineId:      line.Id,
			RequestedQty:     item.Quantity,
			UnitRefundAmount: line.UnitPrice,
		})
	}
	if !requestedAny {
		return nil, apperr.Validationf("at least one line must have a quantity greater than zero")
	}

	if err := uow.RefundRepository().Create(ctx, refund); err != nil {
		return nil, err
	}

	// Informational reflection on the order; the refund entity is the source
	// of truth for the sub-flow.
	if err := uow.OrderRepository().UpdateStatus(ctx, order.Id, entity.OrderStatusRefundRequested); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeRefundRequest, map[string]interface{}{
		"refund_id": refund.Id.String(),
		"order_id":  order.Id.String(),
		"user_id":   userId.String(),
	})

	return &dto.RefundRequestResponse{
		RefundId: refund.Id,
		Status:   string(refund.Status),
	}, nil
}

func (s *refundService) Approve(ctx context.Context, refundId uuid.UUID, req *dto.AdminApproveRefundRequest) (*dto.AdminApproveRefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	refund, err := uow.RefundRepository().FindOneWithLines(ctx, refundId)
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, apperr.NotFoundf("refund not found")
	}
	if refund.Status != entity.RefundStatusRequested {
		return nil, apperr.Conflictf("refund already processed as %s", refund.Status)
	}

	order, err := uow.OrderRepository().FindOneWithLines(ctx, refund.OrderId)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFoundf("order not found")
	}

	alreadyRestored, err := uow.RefundRepository().SumRefundMileageByOrder(ctx, order.Id)
	if err != nil {
		return nil, err
	}

	approvals := make(map[uuid.UUID]int, len(req.Items))
	for _, item := range req.Items {
		approvals[item.RefundLineId] = item.ApprovedQty
	}

	comp, err := computeRefundAmounts(order, refund, approvals, alreadyRestored)
	if err != nil {
		return nil, err
	}

	if (comp.Rejected || comp.Partial) && req.RejectionReason == "" {
		return nil, apperr.Validationf("a rejection reason is required when any quantity is turned down")
	}

	for i := range refund.Lines {
		line := &refund.Lines[i]
		approval := comp.LineApprovals[line.Id]
		line.ApprovedQty = approval.ApprovedQty
		line.LineRefundAmount = approval.LineRefundAmount
		if err := uow.RefundRepository().UpdateLine(ctx, line); err != nil {
			return nil, err
		}
	}

	if comp.Rejected {
		refund.Status = entity.RefundStatusRejected
		refund.RejectedReason = req.RejectionReason
		refund.TotalRefundAmount = 0
		refund.RefundMileage = 0
		if err := uow.RefundRepository().Update(ctx, refund); err != nil {
			return nil, err
		}
		// Nothing was granted, the order simply goes back to PAID.
		if err := uow.OrderRepository().UpdateStatus(ctx, order.Id, entity.OrderStatusPaid); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}

		s.publish(ctx, events.TypeRefundRejected, map[string]interface{}{
			"refund_id": refund.Id.String(),
			"order_id":  order.Id.String(),
			"user_id":   refund.UserId.String(),
			"reason":    req.RejectionReason,
		})

		return s.approveResponse(refund, comp), nil
	}

	// Shrink the sold portion of each touched order line.
	for i := range refund.Lines {
		line := &refund.Lines[i]
		if line.ApprovedQty == 0 {
			continue
		}
		if err := uow.OrderRepository().AdjustLineConfirmedQuantity(ctx, line.OrderLineId, -line.ApprovedQty); err != nil {
			return nil, err
		}
	}

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: refund.PaymentId})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperr.NotFoundf("payment not found")
	}

	// Gateway cancel inside the unit of work: a failure here rolls the whole
	// approval back rather than leaving ledgers half-settled.
	if comp.TotalRefundAmount > 0 {
		cancelRes, err := s.gateway.Cancel(ctx, payment.Tid, comp.TotalRefundAmount)
		if err != nil {
			return nil, err
		}
		refund.PgRefundId = cancelRes.Aid
	}

	if comp.FullOrder {
		// Full-order refund: restore the whole mileage remainder, restock
		// every line, land on REFUNDED.
		if err := s.orderService.ApplyCancel(ctx, uow, order, comp.RefundMileage, true, entity.OrderStatusRefunded); err != nil {
			return nil, err
		}
		payment.Status = entity.PaymentStatusCanceled
		if err := uow.PaymentRepository().Update(ctx, payment); err != nil {
			return nil, err
		}
	} else {
		if err := uow.UserRepository().CreditMileage(ctx, refund.UserId, comp.RefundMileage); err != nil {
			return nil, err
		}
		if err := uow.OrderRepository().UpdateStatus(ctx, order.Id, entity.OrderStatusPaid); err != nil {
			return nil, err
		}
	}

	refund.Status = entity.RefundStatusApproved
	refund.RejectedReason = req.RejectionReason
	refund.TotalRefundAmount = comp.TotalRefundAmount
	refund.RefundMileage = comp.RefundMileage
	if err := uow.RefundRepository().Update(ctx, refund); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeRefundApproved, map[string]interface{}{
		"refund_id":           refund.Id.String(),
		"order_id":            order.Id.String(),
		"user_id":             refund.UserId.String(),
		"total_refund_amount": comp.TotalRefundAmount,
		"refund_mileage":      comp.RefundMileage,
		"partial":             comp.Partial,
	})

	return s.approveResponse(refund, comp), nil
}

func (s *refundService) approveResponse(refund *entity.Refund, comp *refundComputation) *dto.AdminApproveRefundResponse {
	return &dto.AdminApproveRefundResponse{
		RefundId:          refund.Id,
		Status:            string(refund.Status),
		Partial:           comp.Partial,
		ItemsSubtotal:     comp.ItemsSubtotal,
		ShippingRefund:    comp.ShippingRefund,
		RefundMileage:     comp.RefundMileage,
		TotalRefundAmount: comp.TotalRefundAmount,
		ApprovedQtyTotal:  comp.ApprovedQtyTotal,
		RejectedQtyTotal:  comp.RejectedQtyTotal,
		ProcessedAt:       time.Now(),
	}
}

func (s *refundService) ListMine(ctx context.Context, userId uuid.UUID) ([]*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	refunds, err := uow.RefundRepository().FindAllWithLines(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return mapRefundsToResponse(refunds), nil
}

func (s *refundService) Show(ctx context.Context, userId, refundId uuid.UUID) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	refund, err := uow.RefundRepository().FindOneWithLines(ctx, refundId)
	if err != nil {
		return nil, err
	}
	if refund == nil || refund.UserId != userId {
		return nil, apperr.NotFoundf("refund not found")
	}
	return mapRefundToResponse(refund), nil
}

func (s *refundService) AdminList(ctx context.Context, status string, limit, offset int) ([]*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if status != "" {
		specs = append(specs, specification.StatusIs{Status: status})
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	refunds, err := uow.RefundRepository().FindAllWithLines(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return mapRefundsToResponse(refunds), nil
}

func (s *refundService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.New(eventType, data)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}

func mapRefundsToResponse(refunds []*entity.Refund) []*dto.RefundResponse {
	var res []*dto.RefundResponse
	for _, r := range refunds {
		res = append(res, mapRefundToResponse(r))
	}
	return res
}

func mapRefundToResponse(refund *entity.Refund) *dto.RefundResponse {
	res := &dto.RefundResponse{
		Id:                refund.Id,
		OrderId:           refund.OrderId,
		Status:            string(refund.Status),
		RequestedReason:   refund.RequestedReason,
		RejectedReason:    refund.RejectedReason,
		TotalRefundAmount: refund.TotalRefundAmount,
		RefundMileage:     refund.RefundMileage,
		CreatedAt:         refund.CreatedAt,
		UpdatedAt:         refund.UpdatedAt,
	}
	for i := range refund.Lines {
		l := &refund.Lines[i]
		res.Lines = append(res.Lines, dto.RefundLineResponse{
			Id:               l.Id,
			OrderLineId:      l.OrderLineId,
			ProductName:      l.OrderLine.ProductName,
			RequestedQty:     l.RequestedQty,
			ApprovedQty:      l.ApprovedQty,
			UnitRefundAmount: l.UnitRefundAmount,
			LineRefundAmount: l.LineRefundAmount,
		})
	}
	return res
}
