package cart

import (
	"Supermarket-Vision-Backend/domain"
)

type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Calculate returns subtotal, tax and total of the cart lines. Amounts are
// not rounded; rounding is left to presentation.
func Calculate(items []domain.CartItem, taxRate float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.CartQuantity)
	}
	tax := subtotal * taxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
