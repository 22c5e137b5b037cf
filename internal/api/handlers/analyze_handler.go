package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/pkg/inference"
	"encoding/json"
	"github.com/gofiber/fiber/v2"
)

type (
	AnalyzeHandler interface {
		AnalyzeProduct(c *fiber.Ctx) error
	}

	analyzeHandler struct {
		inferenceService inference.InferenceService
	}
)

func NewAnalyzeHandler(inferenceService inference.InferenceService) AnalyzeHandler {
	return &analyzeHandler{inferenceService: inferenceService}
}

// AnalyzeProduct relays an image or text query to the vision model. Every
// failure is answered with 500 and {"error": true, "message": ...}.
func (h *analyzeHandler) AnalyzeProduct(c *fiber.Ctx) error {
	var req domain.AnalyzeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return analyzeError(c, domain.MessageFailedBodyRequest+": "+err.Error())
	}

	analysis, err := h.inferenceService.Analyze(c.Context(), req)
	if err != nil {
		return analyzeError(c, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(domain.AnalyzeResponse{
		Success:  true,
		Analysis: analysis,
	})
}

func analyzeError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(domain.AnalyzeResponse{
		Error:   true,
		Message: message,
	})
}
