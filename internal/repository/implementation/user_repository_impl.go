package implementation

import (
	"context"

	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/model"
	"perfumeshop-be/internal/repository/contract"
	"perfumeshop-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelUser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelUser), nil
}

// DebitMileage spends points with the balance check folded into the WHERE
// clause. RowsAffected == 0 means the balance moved under us.
func (r *userRepositoryImpl) DebitMileage(ctx context.Context, userId uuid.UUID, amount int) error {
	if amount == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND mileage >= ?", userId, amount).
		Update("mileage", gorm.Expr("mileage - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrInsufficientBalance
	}
	return nil
}

func (r *userRepositoryImpl) CreditMileage(ctx context.Context, userId uuid.UUID, amount int) error {
	if amount == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userId).
		Update("mileage", gorm.Expr("mileage + ?", amount)).Error
}

func (r *userRepositoryImpl) mapToEntity(mu *model.User) *entity.User {
	return &entity.User{
		Id:        mu.Id,
		UserName:  mu.UserName,
		Email:     mu.Email,
		FullName:  mu.FullName,
		Phone:     mu.Phone,
		Mileage:   mu.Mileage,
		CreatedAt: mu.CreatedAt,
		UpdatedAt: mu.UpdatedAt,
	}
}
