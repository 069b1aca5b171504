package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string
type DeliveryStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusCanceled OrderStatus = "CANCELED"
	OrderStatusFailed   OrderStatus = "FAILED"
	// Informational refund reflections on a PAID order. Never transition back
	// to PENDING from any of these.
	OrderStatusRefundRequested OrderStatus = "REFUND_REQUESTED"
	OrderStatusRefunded        OrderStatus = "REFUNDED"

	DeliveryStatusOrdered   DeliveryStatus = "ORDERED"
	DeliveryStatusShipping  DeliveryStatus = "SHIPPING"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
)

// ShippingFee is the flat per-order fee, waived only for an empty line set.
const ShippingFee = 3000

// ShippingSnapshot freezes the destination at order-creation time.
type ShippingSnapshot struct {
	Recipient     string
	Phone         string
	ZoneCode      string
	RoadAddress   string
	DetailAddress string
	Memo          string
}

type Order struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	UsedPoint      int
	TotalAmount    int // payable snapshot: items + shipping - usedPoint
	ShippingFee    int
	Status         OrderStatus
	DeliveryStatus DeliveryStatus
	Shipping       ShippingSnapshot
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Lines []OrderLine
}

// ItemsTotal is the sum of the line snapshots, exclusive of shipping.
func (o *Order) ItemsTotal() int {
	total := 0
	for _, l := range o.Lines {
		total += l.LineTotal
	}
	return total
}

// PaidFamily reports whether the order has gone through the PAID transition,
// including the informational refund statuses layered on top of it.
func (o *Order) PaidFamily() bool {
	switch o.Status {
	case OrderStatusPaid, OrderStatusRefundRequested, OrderStatusRefunded:
		return true
	}
	return false
}

type OrderLine struct {
	Id        uuid.UUID
	OrderId   uuid.UUID
	ProductId uuid.UUID
	// Price snapshot, fixed at creation and never recomputed from the
	// live catalog.
	UnitPrice int
	Quantity  int
	LineTotal int
	// Set to Quantity on the PAID transition; the refundable baseline.
	ConfirmedQuantity int
	// Cart line consumed by this order line, deleted on markPaid.
	CartLineId *uuid.UUID

	ProductName string
}
