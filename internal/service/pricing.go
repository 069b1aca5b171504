package service

import "perfumeshop-be/internal/entity"

// shippingFeeFor waives the flat fee only for an empty line set. A checkout
// without lines is rejected upstream, so this is the defensive case.
func shippingFeeFor(lineCount int) int {
	if lineCount == 0 {
		return 0
	}
	return entity.ShippingFee
}

// clampUsedPoint bounds the requested mileage spend server-side: never
// negative, never more than the owned balance, never more than the payable
// amount (items + shipping).
func clampUsedPoint(requested, owned, payable int) int {
	if requested < 0 {
		return 0
	}
	if requested > owned {
		requested = owned
	}
	if requested > payable {
		requested = payable
	}
	return requested
}

// normalizeQuantity re-validates a client-supplied quantity.
func normalizeQuantity(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}
