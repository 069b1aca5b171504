package implementation

import (
	"context"

	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/model"
	"perfumeshop-be/internal/repository/contract"
	"perfumeshop-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepositoryImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) contract.CartRepository {
	return &cartRepositoryImpl{db: db}
}

func (r *cartRepositoryImpl) FindOrCreateByUser(ctx context.Context, userId uuid.UUID) (*entity.Cart, error) {
	var modelCart model.Cart
	err := r.db.WithContext(ctx).
		Where(model.Cart{UserId: userId}).
		FirstOrCreate(&modelCart).Error
	if err != nil {
		return nil, err
	}

	return &entity.Cart{
		Id:        modelCart.Id,
		UserId:    modelCart.UserId,
		CreatedAt: modelCart.CreatedAt,
	}, nil
}

func (r *cartRepositoryImpl) FindByUserWithLines(ctx context.Context, userId uuid.UUID) (*entity.Cart, error) {
	var modelCart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_lines.created_at ASC")
		}).
		Preload("Lines.Product").
		Where("user_id = ?", userId).
		First(&modelCart).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelCart), nil
}

// AddLine upserts on the (cart, product) unique key so adding the same
// product twice bumps the quantity instead of failing.
func (r *cartRepositoryImpl) AddLine(ctx context.Context, cartId, productId uuid.UUID, qty int) error {
	line := &model.CartLine{
		CartId:    cartId,
		ProductId: productId,
		Quantity:  qty,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_lines.quantity + ?", qty),
			}),
		}).
		Create(line).Error
}

func (r *cartRepositoryImpl) FindLines(ctx context.Context, lineIds []uuid.UUID) ([]*entity.CartLine, error) {
	query := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Cart")
	query = specification.ByIDs{IDs: lineIds}.Apply(query)

	var modelLines []*model.CartLine
	err := query.Find(&modelLines).Error
	if err != nil {
		return nil, err
	}

	var lines []*entity.CartLine
	for _, ml := range modelLines {
		line := r.mapLineToEntity(ml)
		lines = append(lines, &line)
	}

	return lines, nil
}

func (r *cartRepositoryImpl) DeleteLinesOwnedBy(ctx context.Context, lineIds []uuid.UUID, userId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id IN ? AND cart_id IN (?)", lineIds,
			r.db.Model(&model.Cart{}).Select("id").Where("user_id = ?", userId)).
		Delete(&model.CartLine{})
	return result.RowsAffected, result.Error
}

func (r *cartRepositoryImpl) DeleteLines(ctx context.Context, lineIds []uuid.UUID) error {
	if len(lineIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", lineIds).
		Delete(&model.CartLine{}).Error
}

func (r *cartRepositoryImpl) mapToEntity(mc *model.Cart) *entity.Cart {
	cart := &entity.Cart{
		Id:        mc.Id,
		UserId:    mc.UserId,
		CreatedAt: mc.CreatedAt,
	}
	for i := range mc.Lines {
		cart.Lines = append(cart.Lines, r.mapLineToEntity(&mc.Lines[i]))
	}
	return cart
}

func (r *cartRepositoryImpl) mapLineToEntity(ml *model.CartLine) entity.CartLine {
	return entity.CartLine{
		Id:          ml.Id,
		CartId:      ml.CartId,
		ProductId:   ml.ProductId,
		Quantity:    ml.Quantity,
		CreatedAt:   ml.CreatedAt,
		ProductName: ml.Product.Name,
		UnitPrice:   ml.Product.SellPrice,
		Stock:       ml.Product.StockQuantity,
		CartUserId:  ml.Cart.UserId,
	}
}
