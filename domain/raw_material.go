package domain

import (
	"errors"
)

const (
	IngredientSourceAI       = "ai"
	IngredientSourceDatabase = "database"
	IngredientSourceNotFound = "not_found"
)

var (
	MessageSuccessGetRawMaterials   = "raw materials retrieved successfully"
	MessageSuccessAddRawMaterial    = "raw material added successfully"
	MessageSuccessLookupIngredients = "ingredients retrieved successfully"

	MessageFailedGetRawMaterials   = "failed to retrieve raw materials"
	MessageFailedAddRawMaterial    = "failed to add raw material"
	MessageFailedLookupIngredients = "failed to search for ingredients"

	ErrRawMaterialNotFound = errors.New("raw material not found")
	ErrRawMaterialExists   = errors.New("raw material already exists")
	ErrEmptyQuery          = errors.New("please enter a food item name")
)

type (
	RawMaterialResponse struct {
		ID          string   `json:"id"`
		FoodItem    string   `json:"food_item"`
		Ingredients []string `json:"ingredients"`
		Source      string   `json:"source,omitempty"`
	}

	AddRawMaterialRequest struct {
		FoodItem    string   `json:"food_item" validate:"required"`
		Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required"`
	}

	IngredientLookupRequest struct {
		Query string `json:"query" validate:"required"`
	}

	IngredientLookupResponse struct {
		FoodItem    string   `json:"food_item"`
		Ingredients []string `json:"ingredients"`
		Allergens   []string `json:"allergens,omitempty"`
		Source      string   `json:"source"`
		Message     string   `json:"message,omitempty"`
		Suggestions []string `json:"suggestions,omitempty"`
	}
)
