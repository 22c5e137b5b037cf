package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/pkg/camera"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrProductNotFound), fiber.StatusNotFound},
		{"stock ceiling", domain.ErrStockLimitReached, fiber.StatusConflict},
		{"camera permission", camera.ErrPermissionDenied, fiber.StatusForbidden},
		{"insufficient stock during checkout", &domain.CheckoutStepError{Step: "stock", Err: domain.ErrInsufficientStock}, fiber.StatusConflict},
		{"other checkout step failure", &domain.CheckoutStepError{Step: "order_items", OrderID: "o-1", Err: errors.New("disk full")}, fiber.StatusInternalServerError},
		{"unknown", errors.New("boom"), fiber.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err, fiber.StatusTeapot))
		})
	}
}
