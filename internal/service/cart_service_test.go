package service

import (
	"context"
	"testing"

	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCartAddItemAndView(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(0)
	amber := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	cedar := factory.state.addProduct("Cedar Atlas 30ml", 5000, 3)
	svc := NewCartService(factory)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, user.Id, &dto.AddCartItemRequest{ProductId: amber.Id, Quantity: 2}))
	assert.NoError(t, svc.AddItem(ctx, user.Id, &dto.AddCartItemRequest{ProductId: cedar.Id, Quantity: 1}))
	// Same product again merges into the existing line.
	assert.NoError(t, svc.AddItem(ctx, user.Id, &dto.AddCartItemRequest{ProductId: amber.Id, Quantity: 1}))

	view, err := svc.View(ctx, user.Id)
	assert.NoError(t, err)
	assert.Len(t, view.Lines, 2)
	assert.Equal(t, 3*10000+5000, view.Subtotal)
	assert.Equal(t, 3000, view.ShippingFee)
	assert.Equal(t, 38000, view.GrandTotal)
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(0)
	svc := NewCartService(factory)

	err := svc.AddItem(context.Background(), user.Id, &dto.AddCartItemRequest{ProductId: uuid.New(), Quantity: 1})

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCartViewEmpty(t *testing.T) {
	factory := newFakeFactory()
	user := factory.state.addUser(0)
	svc := NewCartService(factory)

	view, err := svc.View(context.Background(), user.Id)

	assert.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, 0, view.ShippingFee)
	assert.Equal(t, 0, view.GrandTotal)
}

func TestCartRemoveItems(t *testing.T) {
	factory := newFakeFactory()
	owner := factory.state.addUser(0)
	intruder := factory.state.addUser(0)
	product := factory.state.addProduct("Amber Noir 50ml", 10000, 10)
	svc := NewCartService(factory)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, owner.Id, &dto.AddCartItemRequest{ProductId: product.Id, Quantity: 1}))
	view, err := svc.View(ctx, owner.Id)
	assert.NoError(t, err)
	lineId := view.Lines[0].Id

	// Someone else's delete touches nothing and reports not found.
	err = svc.RemoveItems(ctx, intruder.Id, &dto.RemoveCartItemsRequest{CartLineIds: []uuid.UUID{lineId}})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	assert.NoError(t, svc.RemoveItems(ctx, owner.Id, &dto.RemoveCartItemsRequest{CartLineIds: []uuid.UUID{lineId}}))
	after, err := svc.View(ctx, owner.Id)
	assert.NoError(t, err)
	assert.Empty(t, after.Lines)
}
