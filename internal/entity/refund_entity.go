package entity

import (
	"time"

	"github.com/google/uuid"
)

type RefundStatus string

const (
	RefundStatusRequested RefundStatus = "REQUESTED"
	RefundStatusApproved  RefundStatus = "APPROVED"
	RefundStatusRejected  RefundStatus = "REJECTED"
	RefundStatusCanceled  RefundStatus = "CANCELED"
)

// ShippingRefund is credited only when every line is approved in full.
const ShippingRefund = 3000

type Refund struct {
	Id              uuid.UUID
	OrderId         uuid.UUID
	UserId          uuid.UUID
	PaymentId       uuid.UUID
	Status          RefundStatus
	RequestedReason string
	RejectedReason  string
	// Computed at approval; zero while REQUESTED. This is the gateway cancel
	// amount: items subtotal + shipping refund - restored mileage.
	TotalRefundAmount int
	// Mileage credited back for this refund; summed across a given order's
	// approved refunds it never exceeds the order's usedPoint.
	RefundMileage int
	PgRefundId    string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Lines []RefundLine

	User  User
	Order Order
}

type RefundLine struct {
	Id          uuid.UUID
	RefundId    uuid.UUID
	OrderLineId uuid.UUID
	// Customer ask, at most the source order line's confirmed (still
	// refundable) quantity.
	RequestedQty int
	// Admin decision, 0 <= ApprovedQty <= RequestedQty. Zero until approval.
	ApprovedQty int
	// Copied from the order line's price snapshot, never recomputed.
	UnitRefundAmount int
	LineRefundAmount int // ApprovedQty * UnitRefundAmount

	OrderLine OrderLine
}
