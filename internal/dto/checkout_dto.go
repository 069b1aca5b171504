package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Shipping snapshot supplied at checkout ---

type ShippingSnapshotRequest struct {
	Recipient     string `json:"recipient" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	ZoneCode      string `json:"zone_code"`
	RoadAddress   string `json:"road_address" validate:"required"`
	DetailAddress string `json:"detail_address"`
	Memo          string `json:"memo"`
}

// --- Single-item checkout ---

type SingleCheckoutRequest struct {
	ProductId uuid.UUID               `json:"product_id" validate:"required"`
	Quantity  int                     `json:"quantity" validate:"required,min=1"`
	UsedPoint int                     `json:"used_point" validate:"min=0"`
	Shipping  ShippingSnapshotRequest `json:"shipping" validate:"required"`
}

// --- Cart checkout ---

type CartSelectionItem struct {
	CartLineId uuid.UUID `json:"cart_line_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
}

type CartCheckoutRequest struct {
	Items     []CartSelectionItem     `json:"items" validate:"required,min=1,dive"`
	UsedPoint int                     `json:"used_point" validate:"min=0"`
	Shipping  ShippingSnapshotRequest `json:"shipping" validate:"required"`
}

// --- Checkout stash (quantity parked between product page and order sheet) ---

type StashQuantityRequest struct {
	ProductId uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// --- Order sheet ---

type OrderSheetLine struct {
	ProductId   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Description string    `json:"description,omitempty"`
	UnitPrice   int       `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	LineTotal   int       `json:"line_total"`
}

type OrderSheetResponse struct {
	Lines          []OrderSheetLine `json:"lines"`
	ItemsTotal     int              `json:"items_total"`
	ShippingFee    int              `json:"shipping_fee"`
	OwnedMileage   int              `json:"owned_mileage"`
	MaxUsablePoint int              `json:"max_usable_point"`
	GrandTotal     int              `json:"grand_total"`
}

// --- Ready (order created, gateway redirect issued) ---

type ReadyResponse struct {
	OrderId     uuid.UUID `json:"order_id"`
	TotalAmount int       `json:"total_amount"`
	RedirectUrl string    `json:"redirect_url"`
	CreatedAt   time.Time `json:"created_at"`
}
