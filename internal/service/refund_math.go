package service

import (
	"perfumeshop-be/internal/apperr"
	"perfumeshop-be/internal/entity"

	"github.com/google/uuid"
)

// refundComputation is the settlement result of one approval decision.
type refundComputation struct {
	// Approved quantity and line amount per refund line id.
	LineApprovals map[uuid.UUID]lineApproval

	ItemsSubtotal  int
	ShippingRefund int
	// Mileage credited back for this refund.
	RefundMileage int
	// Gateway cancel amount: items + shipping refund - restored mileage.
	TotalRefundAmount int

	// Partial means at least one line got less than it asked for.
	Partial bool
	// FullOrder means every unit of every order line is being refunded;
	// triggers restock and the REFUNDED order status.
	FullOrder bool
	// Rejected means nothing was approved at all.
	Rejected bool

	ApprovedQtyTotal int
	RejectedQtyTotal int
}

type lineApproval struct {
	ApprovedQty      int
	LineRefundAmount int
}

// computeRefundAmounts settles an approval decision against a REQUESTED
// refund. approvals maps refund line id to the admin's approved quantity;
// unlisted lines default to zero. alreadyRestored is the mileage credited by
// prior approved refunds on the same order, so repeated partial refunds never
// over-credit in aggregate.
func computeRefundAmounts(order *entity.Order, refund *entity.Refund, approvals map[uuid.UUID]int, alreadyRestored int) (*refundComputation, error) {
	comp := &refundComputation{
		LineApprovals: make(map[uuid.UUID]lineApproval, len(refund.Lines)),
	}

	fullApproval := true
	for i := range refund.Lines {
		line := &refund.Lines[i]

		qty, ok := approvals[line.Id]
		if !ok {
			qty = 0
		}
		if qty < 0 || qty > line.RequestedQty {
			return nil, apperr.Validationf("approved quantity %d out of range for refund line %s", qty, line.Id)
		}

		comp.LineApprovals[line.Id] = lineApproval{
			ApprovedQty:      qty,
			LineRefundAmount: qty * line.UnitRefundAmount,
		}
		comp.ItemsSubtotal += qty * line.UnitRefundAmount
		comp.ApprovedQtyTotal += qty
		comp.RejectedQtyTotal += line.RequestedQty - qty

		if qty < line.RequestedQty {
			comp.Partial = true
			fullApproval = false
		}
	}

	if comp.ApprovedQtyTotal == 0 {
		comp.Rejected = true
		return comp, nil
	}

	// The shipping fee comes back only when the admin grants the request in
	// full.
	if fullApproval {
		comp.ShippingRefund = entity.ShippingRefund
	}

	// Full-order detection: every order line's whole quantity approved here.
	approvedByOrderLine := make(map[uuid.UUID]int, len(refund.Lines))
	for i := range refund.Lines {
		line := &refund.Lines[i]
		approvedByOrderLine[line.OrderLineId] += comp.LineApprovals[line.Id].ApprovedQty
	}
	comp.FullOrder = true
	for i := range order.Lines {
		ol := &order.Lines[i]
		if approvedByOrderLine[ol.Id] != ol.Quantity {
			comp.FullOrder = false
			break
		}
	}

	// Proportional mileage restoration, floored, clamped to the remainder
	// that has not been restored yet. A full-order refund sweeps up the whole
	// remainder so rounding losses never strand points.
	remainder := order.UsedPoint - alreadyRestored
	if remainder < 0 {
		remainder = 0
	}
	if comp.FullOrder {
		comp.RefundMileage = remainder
	} else if itemsTotal := order.ItemsTotal(); itemsTotal > 0 {
		restore := order.UsedPoint * comp.ItemsSubtotal / itemsTotal
		if restore > remainder {
			restore = remainder
		}
		comp.RefundMileage = restore
	}

	comp.TotalRefundAmount = comp.ItemsSubtotal + comp.ShippingRefund - comp.RefundMileage
	if comp.TotalRefundAmount < 0 {
		comp.TotalRefundAmount = 0
	}

	return comp, nil
}
