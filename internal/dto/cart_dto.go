package dto

import (
	"github.com/google/uuid"
)

type AddCartItemRequest struct {
	ProductId uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CartLineResponse struct {
	Id          uuid.UUID `json:"id"`
	ProductId   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   int       `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	Stock       int       `json:"stock"`
}

type CartViewResponse struct {
	Lines       []CartLineResponse `json:"lines"`
	Subtotal    int                `json:"subtotal"`
	ShippingFee int                `json:"shipping_fee"`
	GrandTotal  int                `json:"grand_total"`
}

type RemoveCartItemsRequest struct {
	CartLineIds []uuid.UUID `json:"cart_line_ids" validate:"required,min=1"`
}
