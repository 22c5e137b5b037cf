package rawmaterial

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/pkg/analysis"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
	"strings"
)

const sourceManual = "manual"

type (
	RawMaterialService interface {
		GetRawMaterials(ctx context.Context, search string) ([]domain.RawMaterialResponse, error)
		AddRawMaterial(ctx context.Context, req domain.AddRawMaterialRequest) (domain.RawMaterialResponse, error)
		LookupIngredients(ctx context.Context, req domain.IngredientLookupRequest) (domain.IngredientLookupResponse, error)
	}

	rawMaterialService struct {
		rawMaterialRepository RawMaterialRepository
		analyzer              analysis.Client
	}
)

// NewRawMaterialService wires the catalogue to the analysis client used for
// ingredient lookups. A nil analyzer limits lookups to the catalogue.
func NewRawMaterialService(rawMaterialRepository RawMaterialRepository, analyzer analysis.Client) RawMaterialService {
	return &rawMaterialService{
		rawMaterialRepository: rawMaterialRepository,
		analyzer:              analyzer,
	}
}

func (s *rawMaterialService) GetRawMaterials(ctx context.Context, search string) ([]domain.RawMaterialResponse, error) {
	materials, err := s.rawMaterialRepository.GetRawMaterials(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	responses := make([]domain.RawMaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, toRawMaterialResponse(material))
	}
	return responses, nil
}

func (s *rawMaterialService) AddRawMaterial(ctx context.Context, req domain.AddRawMaterialRequest) (domain.RawMaterialResponse, error) {
	foodItem := strings.TrimSpace(req.FoodItem)
	if foodItem == "" {
		return domain.RawMaterialResponse{}, domain.ErrEmptyQuery
	}

	_, err := s.rawMaterialRepository.GetRawMaterialByFoodItem(ctx, foodItem)
	if err == nil {
		return domain.RawMaterialResponse{}, domain.ErrRawMaterialExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RawMaterialResponse{}, err
	}

	ingredients := make([]string, 0, len(req.Ingredients))
	for _, ingredient := range req.Ingredients {
		if ingredient = strings.TrimSpace(ingredient); ingredient != "" {
			ingredients = append(ingredients, ingredient)
		}
	}

	material := &entities.RawMaterial{
		FoodItem:    foodItem,
		Ingredients: ingredients,
		Source:      sourceManual,
	}
	if err := s.rawMaterialRepository.AddRawMaterial(ctx, material); err != nil {
		return domain.RawMaterialResponse{}, err
	}
	return toRawMaterialResponse(material), nil
}

// LookupIngredients asks the model first, falls back to the catalogue and
// finally answers with search guidance. Only storage errors are returned.
func (s *rawMaterialService) LookupIngredients(ctx context.Context, req domain.IngredientLookupRequest) (domain.IngredientLookupResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return domain.IngredientLookupResponse{}, domain.ErrEmptyQuery
	}

	if res, ok := s.lookupAI(ctx, query); ok {
		return res, nil
	}

	material, err := s.rawMaterialRepository.FindRawMaterial(ctx, query)
	if err == nil {
		return domain.IngredientLookupResponse{
			FoodItem:    material.FoodItem,
			Ingredients: material.Ingredients,
			Source:      domain.IngredientSourceDatabase,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.IngredientLookupResponse{}, err
	}

	return domain.IngredientLookupResponse{
		FoodItem:    query,
		Ingredients: []string{},
		Source:      domain.IngredientSourceNotFound,
		Message:     fmt.Sprintf("Sorry, I couldn't find ingredients for %q.", query),
		Suggestions: []string{
			"A more specific food name",
			"Different spelling",
			"Use the camera scanner for visual analysis",
		},
	}, nil
}

func (s *rawMaterialService) lookupAI(ctx context.Context, query string) (domain.IngredientLookupResponse, bool) {
	if s.analyzer == nil {
		return domain.IngredientLookupResponse{}, false
	}

	result, err := s.analyzer.Analyze(ctx, analysis.QueryInput(query), domain.ScanModeIngredients)
	if err != nil {
		log.Warnf("ingredient lookup for %q failed, using catalogue: %v", query, err)
		return domain.IngredientLookupResponse{}, false
	}
	if result.Kind != domain.ResultIngredients || result.Ingredients == nil {
		return domain.IngredientLookupResponse{}, false
	}

	ingredients := result.Ingredients.All()
	if len(ingredients) == 0 {
		return domain.IngredientLookupResponse{}, false
	}

	foodItem := result.Ingredients.FoodName
	if foodItem == "" {
		foodItem = query
	}
	return domain.IngredientLookupResponse{
		FoodItem:    foodItem,
		Ingredients: ingredients,
		Allergens:   result.Ingredients.Allergens,
		Source:      domain.IngredientSourceAI,
	}, true
}

func toRawMaterialResponse(material *entities.RawMaterial) domain.RawMaterialResponse {
	ingredients := material.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return domain.RawMaterialResponse{
		ID:          material.ID.String(),
		FoodItem:    material.FoodItem,
		Ingredients: ingredients,
		Source:      material.Source,
	}
}
