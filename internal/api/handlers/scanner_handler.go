package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/api/presenters"
	"Supermarket-Vision-Backend/pkg/scanner"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ScannerHandler interface {
		Start(c *fiber.Ctx) error
		Stop(c *fiber.Ctx) error
		Scan(c *fiber.Ctx) error
		Status(c *fiber.Ctx) error
		Detections(c *fiber.Ctx) error
	}

	scannerHandler struct {
		scannerService scanner.ScannerService
		validator      *validator.Validate
	}
)

func NewScannerHandler(scannerService scanner.ScannerService, validator *validator.Validate) ScannerHandler {
	return &scannerHandler{
		scannerService: scannerService,
		validator:      validator,
	}
}

func (h *scannerHandler) Start(c *fiber.Ctx) error {
	req := new(domain.StartScannerRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedStartScanner, domain.ErrInvalidScanMode)
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.ScanModeSingleShot
	}

	if err := h.scannerService.Start(c.Context(), mode); err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedStartScanner, err)
	}

	status, err := h.scannerService.Status(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedStartScanner, err)
	}
	return presenters.SuccessResponse(c, status, fiber.StatusOK, domain.MessageSuccessStartScanner)
}

func (h *scannerHandler) Stop(c *fiber.Ctx) error {
	if err := h.scannerService.Stop(c.Context()); err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedStopScanner, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessStopScanner)
}

func (h *scannerHandler) Scan(c *fiber.Ctx) error {
	if err := h.scannerService.Trigger(c.Context()); err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedTriggerScan, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusAccepted, domain.MessageSuccessTriggerScan)
}

func (h *scannerHandler) Status(c *fiber.Ctx) error {
	status, err := h.scannerService.Status(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedProcessRequest, err)
	}
	return presenters.SuccessResponse(c, status, fiber.StatusOK, domain.MessageSuccessGetScanner)
}

func (h *scannerHandler) Detections(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, h.scannerService.Detections(), fiber.StatusOK, domain.MessageSuccessGetDetections)
}
