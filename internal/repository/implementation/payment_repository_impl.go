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

type paymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &paymentRepositoryImpl{db: db}
}

func (r *paymentRepositoryImpl) Create(ctx context.Context, payment *entity.Payment) error {
	modelPayment := &model.Payment{
		Id:         payment.Id,
		OrderId:    payment.OrderId,
		Amount:     payment.Amount,
		Status:     string(payment.Status),
		Tid:        payment.Tid,
		Aid:        payment.Aid,
		ApprovedAt: payment.ApprovedAt,
	}
	return r.db.WithContext(ctx).Create(modelPayment).Error
}

func (r *paymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	var modelPayment model.Payment
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelPayment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelPayment), nil
}

func (r *paymentRepositoryImpl) FindLatestByOrderId(ctx context.Context, orderId uuid.UUID) (*entity.Payment, error) {
	var modelPayment model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderId).
		Order("created_at DESC").
		First(&modelPayment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelPayment), nil
}

func (r *paymentRepositoryImpl) Update(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", payment.Id).
		Updates(map[string]interface{}{
			"status":      string(payment.Status),
			"aid":         payment.Aid,
			"approved_at": payment.ApprovedAt,
		}).Error
}

func (r *paymentRepositoryImpl) mapToEntity(mp *model.Payment) *entity.Payment {
	return &entity.Payment{
		Id:         mp.Id,
		OrderId:    mp.OrderId,
		Amount:     mp.Amount,
		Status:     entity.PaymentStatus(mp.Status),
		Tid:        mp.Tid,
		Aid:        mp.Aid,
		ApprovedAt: mp.ApprovedAt,
		CreatedAt:  mp.CreatedAt,
	}
}
