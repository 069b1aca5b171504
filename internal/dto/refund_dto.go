package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- User-side refund request ---

type RefundRequestItem struct {
	OrderLineId uuid.UUID `json:"order_line_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"min=0"`
}

type RefundRequest struct {
	OrderId uuid.UUID           `json:"order_id" validate:"required"`
	Reason  string              `json:"reason" validate:"required"`
	Items   []RefundRequestItem `json:"items" validate:"required,min=1,dive"`
}

type RefundRequestResponse struct {
	RefundId uuid.UUID `json:"refund_id"`
	Status   string    `json:"status"`
}

// --- User's refund list ---

type RefundLineResponse struct {
	Id               uuid.UUID `json:"id"`
	OrderLineId      uuid.UUID `json:"order_line_id"`
	ProductName      string    `json:"product_name,omitempty"`
	RequestedQty     int       `json:"requested_qty"`
	ApprovedQty      int       `json:"approved_qty"`
	UnitRefundAmount int       `json:"unit_refund_amount"`
	LineRefundAmount int       `json:"line_refund_amount"`
}

type RefundResponse struct {
	Id                uuid.UUID            `json:"id"`
	OrderId           uuid.UUID            `json:"order_id"`
	Status            string               `json:"status"`
	RequestedReason   string               `json:"requested_reason"`
	RejectedReason    string               `json:"rejected_reason,omitempty"`
	TotalRefundAmount int                  `json:"total_refund_amount"`
	RefundMileage     int                  `json:"refund_mileage"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Lines             []RefundLineResponse `json:"lines"`
}

// --- Admin-side approval ---

type AdminApproveRefundItem struct {
	RefundLineId uuid.UUID `json:"refund_line_id" validate:"required"`
	ApprovedQty  int       `json:"approved_qty" validate:"min=0"`
}

type AdminApproveRefundRequest struct {
	Items []AdminApproveRefundItem `json:"items"`
	// Required whenever any line is not approved in full.
	RejectionReason string `json:"rejection_reason"`
}

type AdminApproveRefundResponse struct {
	RefundId          uuid.UUID `json:"refund_id"`
	Status            string    `json:"status"`
	Partial           bool      `json:"partial"`
	ItemsSubtotal     int       `json:"items_subtotal"`
	ShippingRefund    int       `json:"shipping_refund"`
	RefundMileage     int       `json:"refund_mileage"`
	TotalRefundAmount int       `json:"total_refund_amount"`
	ApprovedQtyTotal  int       `json:"approved_qty_total"`
	RejectedQtyTotal  int       `json:"rejected_qty_total"`
	ProcessedAt       time.Time `json:"processed_at"`
}
