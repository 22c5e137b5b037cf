package handlers

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/api/presenters"
	"Supermarket-Vision-Backend/pkg/rawmaterial"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RawMaterialHandler interface {
		GetRawMaterials(c *fiber.Ctx) error
		AddRawMaterial(c *fiber.Ctx) error
		LookupIngredients(c *fiber.Ctx) error
	}

	rawMaterialHandler struct {
		rawMaterialService rawmaterial.RawMaterialService
		validator          *validator.Validate
	}
)

func NewRawMaterialHandler(rawMaterialService rawmaterial.RawMaterialService, validator *validator.Validate) RawMaterialHandler {
	return &rawMaterialHandler{
		rawMaterialService: rawMaterialService,
		validator:          validator,
	}
}

func (h *rawMaterialHandler) GetRawMaterials(c *fiber.Ctx) error {
	res, err := h.rawMaterialService.GetRawMaterials(c.Context(), c.Query("search"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRawMaterials, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRawMaterials)
}

func (h *rawMaterialHandler) AddRawMaterial(c *fiber.Ctx) error {
	req := new(domain.AddRawMaterialRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddRawMaterial, err)
	}

	res, err := h.rawMaterialService.AddRawMaterial(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusBadRequest), domain.MessageFailedAddRawMaterial, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddRawMaterial)
}

func (h *rawMaterialHandler) LookupIngredients(c *fiber.Ctx) error {
	req := new(domain.IngredientLookupRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLookupIngredients, domain.ErrEmptyQuery)
	}

	res, err := h.rawMaterialService.LookupIngredients(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err, fiber.StatusInternalServerError), domain.MessageFailedLookupIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLookupIngredients)
}
