package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/api/presenters"
	"Supermarket-Vision-Backend/pkg/cart"
	"Supermarket-Vision-Backend/pkg/order"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CartHandler interface {
		CreateCart(c *fiber.Ctx) error
		GetCart(c *fiber.Ctx) error
		AddItem(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		RemoveItem(c *fiber.Ctx) error
		Checkout(c *fiber.Ctx) error
	}

	cartHandler struct {
		cartService  cart.CartService
		orderService order.OrderService
		validator    *validator.Validate
	}
)

func NewCartHandler(cartService cart.CartService, orderService order.OrderService, validator *validator.Validate) CartHandler {
	return &cartHandler{
		cartService:  cartService,
		orderService: orderService,
		validator:    validator,
	}
}

func (h *cartHandler) CreateCart(c *fiber.Ctx) error {
	res, err := h.cartService.CreateCart(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateCart, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateCart)
}

func (h *cartHandler) GetCart(c *fiber.Ctx) error {
	res, err := h.cartService.GetCart(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetCart, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCart)
}

func (h *cartHandler) AddItem(c *fiber.Ctx) error {
	req := new(domain.AddToCartRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToCart, err)
	}

	res, err := h.cartService.AddItem(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedAddToCart, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAddToCart)
}

func (h *cartHandler) UpdateItem(c *fiber.Ctx) error {
	req := new(domain.UpdateCartItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCart, err)
	}

	res, err := h.cartService.UpdateItem(c.Context(), c.Params("id"), c.Params("product_id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedUpdateCart, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateCart)
}

func (h *cartHandler) RemoveItem(c *fiber.Ctx) error {
	res, err := h.cartService.RemoveItem(c.Context(), c.Params("id"), c.Params("product_id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedRemoveItem, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRemoveItem)
}

func (h *cartHandler) Checkout(c *fiber.Ctx) error {
	req := new(domain.CheckoutRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNoCustomer, err)
	}

	res, err := h.orderService.Checkout(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedCheckout, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCheckout)
}
