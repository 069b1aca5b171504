package implementation

import (
	"context"

	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/model"
	"perfumeshop-be/internal/repository/contract"
	"perfumeshop-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type refundRepositoryImpl struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) contract.RefundRepository {
	return &refundRepositoryImpl{db: db}
}

func (r *refundRepositoryImpl) Create(ctx context.Context, refund *entity.Refund) error {
	modelRefund := &model.Refund{
		Id:                refund.Id,
		OrderId:           refund.OrderId,
		UserId:            refund.UserId,
		PaymentId:         refund.PaymentId,
		Status:            string(refund.Status),
		RequestedReason:   refund.RequestedReason,
		RejectedReason:    refund.RejectedReason,
		TotalRefundAmount: refund.TotalRefundAmount,
		RefundMileage:     refund.RefundMileage,
		PgRefundId:        refund.PgRefundId,
	}
	for _, line := range refund.Lines {
		modelRefund.Lines = append(modelRefund.Lines, model.RefundLine{
			Id:               line.Id,
			OrderLineId:      line.OrderLineId,
			RequestedQty:     line.RequestedQty,
			ApprovedQty:      line.ApprovedQty,
			UnitRefundAmount: line.UnitRefundAmount,
			LineRefundAmount: line.LineRefundAmount,
		})
	}
	return r.db.WithContext(ctx).Create(modelRefund).Error
}

func (r *refundRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Refund, error) {
	var modelRefund model.Refund
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelRefund).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelRefund), nil
}

func (r *refundRepositoryImpl) FindOneWithLines(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	var modelRefund model.Refund
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.OrderLine").
		Preload("Lines.OrderLine.Product").
		Preload("User").
		Preload("Order").
		Where("id = ?", id).
		First(&modelRefund).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapWithRelations(&modelRefund), nil
}

func (r *refundRepositoryImpl) FindAllWithLines(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error) {
	var modelRefunds []*model.Refund
	query := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.OrderLine").
		Preload("Lines.OrderLine.Product").
		Preload("User").
		Preload("Order")

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelRefunds).Error; err != nil {
		return nil, err
	}

	var refunds []*entity.Refund
	for _, mr := range modelRefunds {
		refunds = append(refunds, r.mapWithRelations(mr))
	}

	return refunds, nil
}

func (r *refundRepositoryImpl) ExistsByOrderAndStatus(ctx context.Context, orderId uuid.UUID, status entity.RefundStatus) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("order_id = ? AND status = ?", orderId, string(status)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *refundRepositoryImpl) SumRefundMileageByOrder(ctx context.Context, orderId uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("order_id = ? AND status = ?", orderId, string(entity.RefundStatusApproved)).
		Select("COALESCE(SUM(refund_mileage), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *refundRepositoryImpl) Update(ctx context.Context, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("id = ?", refund.Id).
		Updates(map[string]interface{}{
			"status":              string(refund.Status),
			"rejected_reason":     refund.RejectedReason,
			"total_refund_amount": refund.TotalRefundAmount,
			"refund_mileage":      refund.RefundMileage,
			"pg_refund_id":        refund.PgRefundId,
		}).Error
}

func (r *refundRepositoryImpl) UpdateLine(ctx context.Context, line *entity.RefundLine) error {
	return r.db.WithContext(ctx).Model(&model.RefundLine{}).
		Where("id = ?", line.Id).
		Updates(map[string]interface{}{
			"approved_qty":       line.ApprovedQty,
			"line_refund_amount": line.LineRefundAmount,
		}).Error
}

func (r *refundRepositoryImpl) mapToEntity(mr *model.Refund) *entity.Refund {
	refund := &entity.Refund{
		Id:                mr.Id,
		OrderId:           mr.OrderId,
		UserId:            mr.UserId,
		PaymentId:         mr.PaymentId,
		Status:            entity.RefundStatus(mr.Status),
		RequestedReason:   mr.RequestedReason,
		RejectedReason:    mr.RejectedReason,
		TotalRefundAmount: mr.TotalRefundAmount,
		RefundMileage:     mr.RefundMileage,
		PgRefundId:        mr.PgRefundId,
		CreatedAt:         mr.CreatedAt,
		UpdatedAt:         mr.UpdatedAt,
	}
	for i := range mr.Lines {
		ml := &mr.Lines[i]
		refund.Lines = append(refund.Lines, entity.RefundLine{
			Id:               ml.Id,
			RefundId:         ml.RefundId,
			OrderLineId:      ml.OrderLineId,
			RequestedQty:     ml.RequestedQty,
			ApprovedQty:      ml.ApprovedQty,
			UnitRefundAmount: ml.UnitRefundAmount,
			LineRefundAmount: ml.LineRefundAmount,
			OrderLine: entity.OrderLine{
				Id:                ml.OrderLine.Id,
				OrderId:           ml.OrderLine.OrderId,
				ProductId:         ml.OrderLine.ProductId,
				UnitPrice:         ml.OrderLine.UnitPrice,
				Quantity:          ml.OrderLine.Quantity,
				LineTotal:         ml.OrderLine.LineTotal,
				ConfirmedQuantity: ml.OrderLine.ConfirmedQuantity,
				CartLineId:        ml.OrderLine.CartLineId,
				ProductName:       ml.OrderLine.Product.Name,
			},
		})
	}
	return refund
}

func (r *refundRepositoryImpl) mapWithRelations(mr *model.Refund) *entity.Refund {
	refund := r.mapToEntity(mr)
	refund.User = entity.User{
		Id:       mr.User.Id,
		UserName: mr.User.UserName,
		Email:    mr.User.Email,
		FullName: mr.User.FullName,
		Phone:    mr.User.Phone,
		Mileage:  mr.User.Mileage,
	}
	refund.Order = entity.Order{
		Id:             mr.Order.Id,
		UserId:         mr.Order.UserId,
		UsedPoint:      mr.Order.UsedPoint,
		TotalAmount:    mr.Order.TotalAmount,
		ShippingFee:    mr.Order.ShippingFee,
		Status:         entity.OrderStatus(mr.Order.Status),
		DeliveryStatus: entity.DeliveryStatus(mr.Order.DeliveryStatus),
		CreatedAt:      mr.Order.CreatedAt,
	}
	return refund
}
