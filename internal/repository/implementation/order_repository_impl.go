package implementation

import (
	"context"
	"time"

	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/model"
	"perfumeshop-be/internal/repository/contract"
	"perfumeshop-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) contract.OrderRepository {
	return &orderRepositoryImpl{db: db}
}

func (r *orderRepositoryImpl) Create(ctx context.Context, order *entity.Order) error {
	modelOrder := &model.Order{
		Id:                order.Id,
		UserId:            order.UserId,
		UsedPoint:         order.UsedPoint,
		TotalAmount:       order.TotalAmount,
		ShippingFee:       order.ShippingFee,
		Status:            string(order.Status),
		DeliveryStatus:    string(order.DeliveryStatus),
		ShipRecipient:     order.Shipping.Recipient,
		ShipPhone:         order.Shipping.Phone,
		ShipZoneCode:      order.Shipping.ZoneCode,
		ShipRoadAddress:   order.Shipping.RoadAddress,
		ShipDetailAddress: order.Shipping.DetailAddress,
		ShipMemo:          order.Shipping.Memo,
	}
	for _, line := range order.Lines {
		modelOrder.Lines = append(modelOrder.Lines, model.OrderLine{
			Id:                line.Id,
			ProductId:         line.ProductId,
			UnitPrice:         line.UnitPrice,
			Quantity:          line.Quantity,
			LineTotal:         line.LineTotal,
			ConfirmedQuantity: line.ConfirmedQuantity,
			CartLineId:        line.CartLineId,
		})
	}
	return r.db.WithContext(ctx).Create(modelOrder).Error
}

func (r *orderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	var modelOrder model.Order
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelOrder).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelOrder), nil
}

func (r *orderRepositoryImpl) FindOneWithLines(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var modelOrder model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Product").
		Where("id = ?", id).
		First(&modelOrder).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelOrder), nil
}

func (r *orderRepositoryImpl) FindAllWithLines(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	var modelOrders []*model.Order
	query := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Product")

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelOrders).Error; err != nil {
		return nil, err
	}

	var orders []*entity.Order
	for _, mo := range modelOrders {
		orders = append(orders, r.mapToEntity(mo))
	}

	return orders, nil
}

func (r *orderRepositoryImpl) Update(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", order.Id).
		Updates(map[string]interface{}{
			"used_point":      order.UsedPoint,
			"total_amount":    order.TotalAmount,
			"status":          string(order.Status),
			"delivery_status": string(order.DeliveryStatus),
		}).Error
}

func (r *orderRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *orderRepositoryImpl) FindLine(ctx context.Context, lineId uuid.UUID) (*entity.OrderLine, error) {
	var modelLine model.OrderLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", lineId).
		First(&modelLine).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	line := r.mapLineToEntity(&modelLine)
	return &line, nil
}

func (r *orderRepositoryImpl) ConfirmLineQuantities(ctx context.Context, orderId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.OrderLine{}).
		Where("order_id = ?", orderId).
		Update("confirmed_quantity", gorm.Expr("quantity")).Error
}

func (r *orderRepositoryImpl) AdjustLineConfirmedQuantity(ctx context.Context, lineId uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.OrderLine{}).
		Where("id = ?", lineId).
		Update("confirmed_quantity", gorm.Expr("confirmed_quantity + ?", delta)).Error
}

func (r *orderRepositoryImpl) AdvanceToDelivered(ctx context.Context, orderedBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ? AND delivery_status = ? AND created_at < ?",
			string(entity.OrderStatusPaid), string(entity.DeliveryStatusOrdered), orderedBefore).
		Update("delivery_status", string(entity.DeliveryStatusDelivered))
	return result.RowsAffected, result.Error
}

func (r *orderRepositoryImpl) AdvanceToShipping(ctx context.Context, orderedAfter, orderedBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ? AND delivery_status = ? AND created_at >= ? AND created_at < ?",
			string(entity.OrderStatusPaid), string(entity.DeliveryStatusOrdered), orderedAfter, orderedBefore).
		Update("delivery_status", string(entity.DeliveryStatusShipping))
	return result.RowsAffected, result.Error
}

func (r *orderRepositoryImpl) FindStalePendingIds(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})
	query = specification.StatusIs{Status: string(entity.OrderStatusPending)}.Apply(query)
	query = specification.CreatedBefore{Cutoff: cutoff}.Apply(query)

	var ids []uuid.UUID
	err := query.Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *orderRepositoryImpl) mapToEntity(mo *model.Order) *entity.Order {
	order := &entity.Order{
		Id:             mo.Id,
		UserId:         mo.UserId,
		UsedPoint:      mo.UsedPoint,
		TotalAmount:    mo.TotalAmount,
		ShippingFee:    mo.ShippingFee,
		Status:         entity.OrderStatus(mo.Status),
		DeliveryStatus: entity.DeliveryStatus(mo.DeliveryStatus),
		Shipping: entity.ShippingSnapshot{
			Recipient:     mo.ShipRecipient,
			Phone:         mo.ShipPhone,
			ZoneCode:      mo.ShipZoneCode,
			RoadAddress:   mo.ShipRoadAddress,
			DetailAddress: mo.ShipDetailAddress,
			Memo:          mo.ShipMemo,
		},
		CreatedAt: mo.CreatedAt,
		UpdatedAt: mo.UpdatedAt,
	}
	for i := range mo.Lines {
		order.Lines = append(order.Lines, r.mapLineToEntity(&mo.Lines[i]))
	}
	return order
}

func (r *orderRepositoryImpl) mapLineToEntity(ml *model.OrderLine) entity.OrderLine {
	return entity.OrderLine{
		Id:                ml.Id,
		OrderId:           ml.OrderId,
		ProductId:         ml.ProductId,
		UnitPrice:         ml.UnitPrice,
		Quantity:          ml.Quantity,
		LineTotal:         ml.LineTotal,
		ConfirmedQuantity: ml.ConfirmedQuantity,
		CartLineId:        ml.CartLineId,
		ProductName:       ml.Product.Name,
	}
}
