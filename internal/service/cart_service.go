package service

import (
	"context"

	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/dto"
	"perfumeshop-be/internal/repository/specification"
	"perfumeshop-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ICartService interface {
	AddItem(ctx context.Context, userId uuid.UUID, req *dto.AddCartItemRequest) error
	View(ctx context.Context, userId uuid.UUID) (*dto.CartViewResponse, error)
	RemoveItems(ctx context.Context, userId uuid.UUID, req *dto.RemoveCartItemsRequest) error
}

type cartService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCartService(uowFactory unitofwork.RepositoryFactory) ICartService {
	return &cartService{
		uowFactory: uowFactory,
	}
}

func (s *cartService) AddItem(ctx context.Context, userId uuid.UUID, req *dto.AddCartItemRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: req.ProductId})
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.NotFoundf("product not found")
	}

	cart, err := uow.CartRepository().FindOrCreateByUser(ctx, userId)
	if err != nil {
		return err
	}

	return uow.CartRepository().AddLine(ctx, cart.Id, product.Id, normalizeQuantity(req.Quantity))
}

func (s *cartService) View(ctx context.Context, userId uuid.UUID) (*dto.CartViewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cart, err := uow.CartRepository().FindByUserWithLines(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := &dto.CartViewResponse{}
	if cart == nil {
		return res, nil
	}

	for i := range cart.Lines {
		l := &cart.Lines[i]
		res.Lines = append(res.Lines, dto.CartLineResponse{
			Id:          l.Id,
			ProductId:   l.ProductId,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Stock:       l.Stock,
		})
		res.Subtotal += l.UnitPrice * l.Quantity
	}
	res.ShippingFee = shippingFeeFor(len(res.Lines))
	res.GrandTotal = res.Subtotal + res.ShippingFee

	return res, nil
}

func (s *cartService) RemoveItems(ctx context.Context, userId uuid.UUID, req *dto.RemoveCartItemsRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	removed, err := uow.CartRepository().DeleteLinesOwnedBy(ctx, req.CartLineIds, userId)
	if err != nil {
		return err
	}
	if removed == 0 {
		return apperr.NotFoundf("no matching cart lines")
	}
	return nil
}
