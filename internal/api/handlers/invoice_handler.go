package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/api/presenters"
	"Supermarket-Vision-Backend/pkg/invoice"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InvoiceHandler interface {
		DownloadPDF(c *fiber.Ctx) error
		SendInvoice(c *fiber.Ctx) error
	}

	invoiceHandler struct {
		invoiceService invoice.InvoiceService
		validator      *validator.Validate
	}
)

func NewInvoiceHandler(invoiceService invoice.InvoiceService, validator *validator.Validate) InvoiceHandler {
	return &invoiceHandler{
		invoiceService: invoiceService,
		validator:      validator,
	}
}

func (h *invoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	orderID, err := paramUUID(c, "order_id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGeneratePDF, err)
	}

	doc, err := h.invoiceService.GeneratePDF(c.Context(), orderID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedGeneratePDF, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	return c.Status(fiber.StatusOK).Send(doc.Data)
}

func (h *invoiceHandler) SendInvoice(c *fiber.Ctx) error {
	orderID, err := paramUUID(c, "order_id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendInvoice, err)
	}

	req := new(domain.SendInvoiceRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendInvoice, err)
	}

	res, err := h.invoiceService.SendInvoice(c.Context(), orderID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedSendInvoice, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSendInvoice)
}
