package service

import (
	"context"

	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/dto"
	"perfumeshop-be/internal/entity"
	"perfumeshop-be/internal/repository/memory"
	"perfumeshop-be/internal/repository/specification"
	"perfumeshop-be/internal/repository/unitofwork"
	"perfumeshop-be/pkg/store"

	"github.com/google/uuid"
)

// ICheckoutService assembles the order sheet the customer confirms before the
// gateway redirect. It only reads; order creation happens in the pay flow.
type ICheckoutService interface {
	// StashQuantity parks the quantity picked on a product page.
	StashQuantity(ctx context.Context, userId uuid.UUID, req *dto.StashQuantityRequest) error
	OrderSheetSingle(ctx context.Context, userId, productId uuid.UUID) (*dto.OrderSheetResponse, error)
	OrderSheetCart(ctx context.Context, userId uuid.UUID, cartLineIds []uuid.UUID) (*dto.OrderSheetResponse, error)
}

type checkoutService struct {
	uowFactory   unitofwork.RepositoryFactory
	stash        *store.CheckoutStash
	productCache *memory.ProductCache
}

func NewCheckoutService(uowFactory unitofwork.RepositoryFactory, stash *store.CheckoutStash, productCache *memory.ProductCache) ICheckoutService {
	return &checkoutService{
		uowFactory:   uowFactory,
		stash:        stash,
		productCache: productCache,
	}
}

func (s *checkoutService) StashQuantity(ctx context.Context, userId uuid.UUID, req *dto.StashQuantityRequest) error {
	product, err := s.findProduct(ctx, req.ProductId)
	if err != nil {
		return err
	}
	if product.StockQuantity < req.Quantity {
		return apperr.ErrInsufficientStock
	}
	return s.stash.SetQuantity(ctx, userId, req.ProductId, normalizeQuantity(req.Quantity))
}

func (s *checkoutService) OrderSheetSingle(ctx context.Context, userId, productId uuid.UUID) (*dto.OrderSheetResponse, error) {
	product, err := s.findProduct(ctx, productId)
	if err != nil {
		return nil, err
	}

	qty, err := s.stash.GetQuantity(ctx, userId, productId)
	if err != nil {
		return nil, err
	}

	lines := []dto.OrderSheetLine{{
		ProductId:   product.Id,
		ProductName: product.Name,
		Description: product.Description,
		UnitPrice:   product.SellPrice,
		Quantity:    qty,
		LineTotal:   product.SellPrice * qty,
	}}

	return s.assemble(ctx, userId, lines)
}

func (s *checkoutService) OrderSheetCart(ctx context.Context, userId uuid.UUID, cartLineIds []uuid.UUID) (*dto.OrderSheetResponse, error) {
	if len(cartLineIds) == 0 {
		return nil, apperr.Validationf("no cart lines selected")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	cartLines, err := uow.CartRepository().FindLines(ctx, cartLineIds)
	if err != nil {
		return nil, err
	}
	if len(cartLines) != len(cartLineIds) {
		return nil, apperr.NotFoundf("cart line not found")
	}

	var lines []dto.OrderSheetLine
	for _, cl := range cartLines {
		if cl.CartUserId != userId {
			return nil, apperr.Validationf("cart line does not belong to you")
		}
		lines = append(lines, dto.OrderSheetLine{
			ProductId:   cl.ProductId,
			ProductName: cl.ProductName,
			UnitPrice:   cl.UnitPrice,
			Quantity:    cl.Quantity,
			LineTotal:   cl.UnitPrice * cl.Quantity,
		})
	}

	return s.assemble(ctx, userId, lines)
}

func (s *checkoutService) assemble(ctx context.Context, userId uuid.UUID, lines []dto.OrderSheetLine) (*dto.OrderSheetResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("user not found")
	}

	res := &dto.OrderSheetResponse{Lines: lines}
	for _, l := range lines {
		res.ItemsTotal += l.LineTotal
	}
	res.ShippingFee = shippingFeeFor(len(lines))
	res.OwnedMileage = user.Mileage
	res.MaxUsablePoint = clampUsedPoint(user.Mileage, user.Mileage, res.ItemsTotal+res.ShippingFee)
	res.GrandTotal = res.ItemsTotal + res.ShippingFee

	return res, nil
}

// findProduct reads through the in-process cache. Settlement paths never use
// this; they re-read the row inside their transaction.
func (s *checkoutService) findProduct(ctx context.Context, productId uuid.UUID) (*entity.Product, error) {
	if cached, found := s.productCache.Get(productId); found {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: productId})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFoundf("product not found")
	}

	s.productCache.Save(product)
	return product, nil
}
