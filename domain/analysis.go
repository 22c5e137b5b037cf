package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// AnalysisType is the "type" field of the inference proxy request.
type AnalysisType string

const (
	AnalysisTypeAnalyze     AnalysisType = "analyze"
	AnalysisTypeIngredients AnalysisType = "ingredients"
	AnalysisTypeRealtime    AnalysisType = "realtime-scan"
)

// ScanMode selects the prompt variant on the client side.
type ScanMode string

const (
	ScanModeSingleShot  ScanMode = "single-shot"
	ScanModeRealtime    ScanMode = "realtime"
	ScanModeIngredients ScanMode = "ingredients"
)

func (m ScanMode) Valid() bool {
	switch m {
	case ScanModeSingleShot, ScanModeRealtime, ScanModeIngredients:
		return true
	}
	return false
}

func (m ScanMode) WireType() AnalysisType {
	switch m {
	case ScanModeRealtime:
		return AnalysisTypeRealtime
	case ScanModeIngredients:
		return AnalysisTypeIngredients
	default:
		return AnalysisTypeAnalyze
	}
}

func (t AnalysisType) Valid() bool {
	switch t {
	case AnalysisTypeAnalyze, AnalysisTypeIngredients, AnalysisTypeRealtime:
		return true
	}
	return false
}

var (
	ErrMissingAPIKey     = errors.New("API key is not configured")
	ErrMissingImage      = errors.New("imageData is required for this analysis type")
	ErrMissingQuery      = errors.New("query is required when imageData is null")
	ErrInvalidAnalysis   = errors.New("invalid analysis type")
	ErrUpstreamFailed    = errors.New("upstream model request failed")
	ErrUpstreamNoContent = errors.New("upstream model returned no content")
)

type (
	// AnalyzeRequest is the proxy wire request.
	AnalyzeRequest struct {
		ImageData *string      `json:"imageData"`
		Type      AnalysisType `json:"type"`
		Query     string       `json:"query,omitempty"`
	}

	// AnalyzeResponse is the proxy wire response. Exactly one of the
	// success or error shapes is populated.
	AnalyzeResponse struct {
		Success  bool            `json:"success,omitempty"`
		Analysis json.RawMessage `json:"analysis,omitempty"`
		Error    bool            `json:"error,omitempty"`
		Message  string          `json:"message,omitempty"`
	}

	// TextAnalysis is what the proxy relays when the model answered in
	// prose instead of JSON.
	TextAnalysis struct {
		Message string `json:"message"`
		Items   []any  `json:"items"`
	}
)

// ResultKind tags the variant held by an AnalysisResult.
type ResultKind string

const (
	ResultItems       ResultKind = "items"
	ResultIngredients ResultKind = "ingredients"
	ResultMessage     ResultKind = "message"
)

type (
	Detection struct {
		Name            string    `json:"name"`
		Category        string    `json:"category"`
		Description     string    `json:"description"`
		Confidence      float64   `json:"confidence"`
		Brand           string    `json:"brand,omitempty"`
		Price           string    `json:"price,omitempty"`
		Ingredients     []string  `json:"ingredients,omitempty"`
		NutritionalInfo string    `json:"nutritionalInfo,omitempty"`
		Allergens       []string  `json:"allergens,omitempty"`
		CapturedAt      time.Time `json:"timestamp"`
	}

	IngredientProfile struct {
		FoodName        string   `json:"food_name"`
		MainIngredients []string `json:"main_ingredients,omitempty"`
		RawMaterials    []string `json:"raw_materials,omitempty"`
		Spices          []string `json:"spices_seasonings,omitempty"`
		Optional        []string `json:"optional_ingredients,omitempty"`
		Allergens       []string `json:"allergens,omitempty"`
		NutritionalInfo string   `json:"nutritional_info,omitempty"`
	}

	// AnalysisResult is the normalized analysis reply. Items is never nil
	// for ResultItems and ResultMessage; Ingredients is set only for
	// ResultIngredients.
	AnalysisResult struct {
		Kind        ResultKind         `json:"kind"`
		Items       []Detection        `json:"items"`
		Ingredients *IngredientProfile `json:"ingredients,omitempty"`
		Message     string             `json:"message,omitempty"`
	}
)

// All returns every ingredient of the profile without duplicates, in the
// order main, raw, spices, optional.
func (p IngredientProfile) All() []string {
	seen := make(map[string]struct{})
	all := make([]string, 0, len(p.MainIngredients)+len(p.RawMaterials)+len(p.Spices)+len(p.Optional))
	for _, group := range [][]string{p.MainIngredients, p.RawMaterials, p.Spices, p.Optional} {
		for _, ingredient := range group {
			if ingredient == "" {
				continue
			}
			if _, ok := seen[ingredient]; ok {
				continue
			}
			seen[ingredient] = struct{}{}
			all = append(all, ingredient)
		}
	}
	return all
}
