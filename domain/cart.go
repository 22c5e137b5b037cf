package domain

import (
	"errors"
)

var (
	MessageSuccessCreateCart = "cart created successfully"
	MessageSuccessGetCart    = "cart retrieved successfully"
	MessageSuccessAddToCart  = "item added to cart"
	MessageSuccessUpdateCart = "cart updated successfully"
	MessageSuccessRemoveItem = "item removed from cart"

	MessageFailedCreateCart = "failed to create cart"
	MessageFailedGetCart    = "failed to retrieve cart"
	MessageFailedAddToCart  = "failed to add item to cart"
	MessageFailedUpdateCart = "failed to update cart"
	MessageFailedRemoveItem = "failed to remove item from cart"

	ErrCartNotFound      = errors.New("cart not found")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrStockLimitReached = errors.New("stock limit reached")
	ErrItemNotInCart     = errors.New("item not in cart")
)

type (
	CartItem struct {
		ProductID    string  `json:"product_id"`
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		Stock        int     `json:"stock"`
		CartQuantity int     `json:"cart_quantity"`
		LineTotal    float64 `json:"line_total"`
	}

	CartResponse struct {
		ID       string     `json:"id"`
		Items    []CartItem `json:"items"`
		Subtotal float64    `json:"subtotal"`
		Tax      float64    `json:"tax"`
		Total    float64    `json:"total"`
		TaxRate  float64    `json:"tax_rate"`
	}

	AddToCartRequest struct {
		ProductID string `json:"product_id" validate:"required,uuid"`
		Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
	}

	UpdateCartItemRequest struct {
		Quantity int `json:"quantity" validate:"gte=0"`
	}
)
