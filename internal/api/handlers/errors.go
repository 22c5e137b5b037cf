package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/utils/mailing"
	"Supermarket-Vision-Backend/internal/utils/storage"
	"Supermarket-Vision-Backend/pkg/camera"
	"errors"
	"github.com/gofiber/fiber/v2"
)

var statusByError = []struct {
	err    error
	status int
}{
	{domain.ErrUserNotFound, fiber.StatusNotFound},
	{domain.ErrProductNotFound, fiber.StatusNotFound},
	{domain.ErrOrderNotFound, fiber.StatusNotFound},
	{domain.ErrCartNotFound, fiber.StatusNotFound},
	{domain.ErrItemNotInCart, fiber.StatusNotFound},
	{domain.ErrRawMaterialNotFound, fiber.StatusNotFound},
	{domain.ErrNoCustomerEmail, fiber.StatusBadRequest},
	{domain.ErrEmptyQuery, fiber.StatusBadRequest},
	{domain.ErrCartEmpty, fiber.StatusBadRequest},
	{domain.ErrCustomerRequired, fiber.StatusBadRequest},
	{domain.ErrInvalidScanMode, fiber.StatusBadRequest},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict},
	{domain.ErrRawMaterialExists, fiber.StatusConflict},
	{domain.ErrStockLimitReached, fiber.StatusConflict},
	{domain.ErrInsufficientStock, fiber.StatusConflict},
	{domain.ErrScannerRunning, fiber.StatusConflict},
	{domain.ErrScannerIdle, fiber.StatusConflict},
	{domain.ErrCycleInFlight, fiber.StatusConflict},
	{camera.ErrPermissionDenied, fiber.StatusForbidden},
	{camera.ErrDeviceUnavailable, fiber.StatusServiceUnavailable},
	{domain.ErrScannerClosed, fiber.StatusServiceUnavailable},
	{domain.ErrPaymentNotAvailable, fiber.StatusServiceUnavailable},
	{mailing.ErrMailerDisabled, fiber.StatusServiceUnavailable},
	{storage.ErrStorageDisabled, fiber.StatusServiceUnavailable},
	{domain.ErrPaymentFailed, fiber.StatusBadGateway},
}

// statusFor maps a service error to its HTTP status, or fallback when the
// error is not a known sentinel.
func statusFor(err error, fallback int) int {
	var stepErr *domain.CheckoutStepError
	if errors.As(err, &stepErr) && !errors.Is(err, domain.ErrInsufficientStock) {
		return fiber.StatusInternalServerError
	}
	for _, entry := range statusByError {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return fallback
}
