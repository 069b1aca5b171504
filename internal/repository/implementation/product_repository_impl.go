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

type productRepositoryImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &productRepositoryImpl{db: db}
}

func (r *productRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var modelProduct model.Product
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelProduct).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelProduct), nil
}

func (r *productRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var modelProducts []*model.Product
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelProducts).Error; err != nil {
		return nil, err
	}

	var products []*entity.Product
	for _, mp := range modelProducts {
		products = append(products, r.mapToEntity(mp))
	}

	return products, nil
}

// ReserveStock is the conditional leg of the stock ledger. The WHERE clause
// carries the balance check so two racing checkouts are serialized by row
// locking and exactly one of them sees RowsAffected == 0.
func (r *productRepositoryImpl) ReserveStock(ctx context.Context, productId uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", productId, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrInsufficientStock
	}
	return nil
}

func (r *productRepositoryImpl) ReleaseStock(ctx context.Context, productId uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productId).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
}

func (r *productRepositoryImpl) mapToEntity(mp *model.Product) *entity.Product {
	return &entity.Product{
		Id:            mp.Id,
		Name:          mp.Name,
		Brand:         mp.Brand,
		Description:   mp.Description,
		SellPrice:     mp.SellPrice,
		StockQuantity: mp.StockQuantity,
		CreatedAt:     mp.CreatedAt,
		UpdatedAt:     mp.UpdatedAt,
	}
}
