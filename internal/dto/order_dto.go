package dto

import (
	"time"

	"github.com/google/uuid"
)

type OrderLineResponse struct {
	Id                uuid.UUID `json:"id"`
	ProductId         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	UnitPrice         int       `json:"unit_price"`
	Quantity          int       `json:"quantity"`
	LineTotal         int       `json:"line_total"`
	ConfirmedQuantity int       `json:"confirmed_quantity"`
}

type OrderResponse struct {
	Id             uuid.UUID           `json:"id"`
	Status         string              `json:"status"`
	DeliveryStatus string              `json:"delivery_status,omitempty"`
	UsedPoint      int                 `json:"used_point"`
	ShippingFee    int                 `json:"shipping_fee"`
	TotalAmount    int                 `json:"total_amount"`
	CreatedAt      time.Time           `json:"created_at"`
	Lines          []OrderLineResponse `json:"lines"`
}

// --- Payment result (approve callback) ---

type PayApproveResponse struct {
	OrderId    uuid.UUID  `json:"order_id"`
	Status     string     `json:"status"`
	Amount     int        `json:"amount"`
	Aid        string     `json:"aid"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

type PayCancelResponse struct {
	OrderId         uuid.UUID `json:"order_id"`
	Status          string    `json:"status"`
	AlreadyCanceled bool      `json:"already_canceled"`
}
