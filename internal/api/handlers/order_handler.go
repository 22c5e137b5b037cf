package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/api/presenters"
	"Supermarket-Vision-Backend/pkg/midtrans"
	"Supermarket-Vision-Backend/pkg/order"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	OrderHandler interface {
		GetOrders(c *fiber.Ctx) error
		GetOrder(c *fiber.Ctx) error
		CreatePayment(c *fiber.Ctx) error
		PaymentNotification(c *fiber.Ctx) error
	}

	orderHandler struct {
		orderService    order.OrderService
		midtransService midtrans.MidtransService
		validator       *validator.Validate
	}
)

func NewOrderHandler(orderService order.OrderService, midtransService midtrans.MidtransService, validator *validator.Validate) OrderHandler {
	return &orderHandler{
		orderService:    orderService,
		midtransService: midtransService,
		validator:       validator,
	}
}

func (h *orderHandler) GetOrders(c *fiber.Ctx) error {
	items, pagination, err := h.orderService.GetOrders(c.Context(), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetOrders, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items":      items,
		"pagination": pagination,
	}, fiber.StatusOK, domain.MessageSuccessGetOrders)
}

func (h *orderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetOrder, err)
	}

	res, err := h.orderService.GetOrderByID(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGetOrder, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetOrder)
}

func (h *orderHandler) CreatePayment(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPayment, err)
	}

	res, err := h.midtransService.CreatePayment(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedPayment, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessPayment)
}

func (h *orderHandler) PaymentNotification(c *fiber.Ctx) error {
	req := new(domain.MidtransNotification)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWebhook, err)
	}

	res, err := h.midtransService.HandleNotification(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedWebhook, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessWebhook)
}
