package analysis

import (
	"Supermarket-Vision-Backend/domain"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const unknownItem = "Unknown item"

var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// Normalize maps any reply shape the model may produce onto an
// AnalysisResult. It never fails: shapes it cannot read become a message
// result with no items.
func Normalize(raw json.RawMessage, capturedAt time.Time) domain.AnalysisResult {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return messageResult("")
	}

	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
		return messageResult(trimmed)
	}
	return normalizeValue(value, capturedAt, true)
}

func normalizeValue(value any, capturedAt time.Time, reparse bool) domain.AnalysisResult {
	switch v := value.(type) {
	case []any:
		return domain.AnalysisResult{Kind: domain.ResultItems, Items: detections(v, capturedAt)}

	case map[string]any:
		return normalizeObject(v, capturedAt)

	case string:
		if reparse {
			text := StripFences(v)
			var inner any
			if err := json.Unmarshal([]byte(text), &inner); err == nil {
				if _, isString := inner.(string); !isString {
					return normalizeValue(inner, capturedAt, false)
				}
			}
		}
		return messageResult(v)

	default:
		return messageResult(fmt.Sprint(v))
	}
}

func normalizeObject(obj map[string]any, capturedAt time.Time) domain.AnalysisResult {
	if isIngredientProfile(obj) {
		profile := ingredientProfile(obj)
		return domain.AnalysisResult{
			Kind:        domain.ResultIngredients,
			Items:       []domain.Detection{},
			Ingredients: &profile,
			Message:     stringField(obj, "message"),
		}
	}

	message := stringField(obj, "message")

	if rawItems, ok := obj["items"]; ok {
		list, _ := rawItems.([]any)
		items := detections(list, capturedAt)
		if len(items) == 0 {
			return messageResult(message)
		}
		return domain.AnalysisResult{Kind: domain.ResultItems, Items: items, Message: message}
	}

	if _, ok := obj["name"]; ok {
		return domain.AnalysisResult{
			Kind:  domain.ResultItems,
			Items: []domain.Detection{detection(obj, capturedAt)},
		}
	}

	return messageResult(message)
}

func messageResult(message string) domain.AnalysisResult {
	return domain.AnalysisResult{
		Kind:    domain.ResultMessage,
		Items:   []domain.Detection{},
		Message: message,
	}
}

func isIngredientProfile(obj map[string]any) bool {
	for _, key := range []string{"food_name", "main_ingredients", "raw_materials", "spices_seasonings"} {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}

func ingredientProfile(obj map[string]any) domain.IngredientProfile {
	return domain.IngredientProfile{
		FoodName:        stringField(obj, "food_name"),
		MainIngredients: stringList(obj["main_ingredients"]),
		RawMaterials:    stringList(obj["raw_materials"]),
		Spices:          stringList(obj["spices_seasonings"]),
		Optional:        stringList(obj["optional_ingredients"]),
		Allergens:       stringList(obj["allergens"]),
		NutritionalInfo: textField(obj["nutritional_info"]),
	}
}

func detections(list []any, capturedAt time.Time) []domain.Detection {
	items := make([]domain.Detection, 0, len(list))
	for _, entry := range list {
		switch e := entry.(type) {
		case map[string]any:
			items = append(items, detection(e, capturedAt))
		case string:
			if strings.TrimSpace(e) != "" {
				items = append(items, domain.Detection{Name: e, CapturedAt: capturedAt})
			}
		}
	}
	return items
}

func detection(obj map[string]any, capturedAt time.Time) domain.Detection {
	name := firstString(obj, "name", "product_name", "item")
	if name == "" {
		name = unknownItem
	}
	return domain.Detection{
		Name:            name,
		Category:        stringField(obj, "category"),
		Description:     stringField(obj, "description"),
		Confidence:      NormalizeConfidence(obj["confidence"]),
		Brand:           stringField(obj, "brand"),
		Price:           textField(firstPresent(obj, "price", "estimatedPrice", "price_estimate")),
		Ingredients:     stringList(obj["ingredients"]),
		NutritionalInfo: textField(firstPresent(obj, "nutritionalInfo", "nutritional_info")),
		Allergens:       stringList(obj["allergens"]),
		CapturedAt:      capturedAt,
	}
}

// NormalizeConfidence accepts numbers and numeric strings such as "92%" or
// "0.92" and returns a percentage in [0, 100]. Unsuffixed values at or
// below 1 are read as fractions. Anything unreadable is 0.
func NormalizeConfidence(value any) float64 {
	var (
		n       float64
		percent bool
	)
	switch v := value.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		n = f
	case string:
		s := strings.TrimSpace(v)
		if strings.HasSuffix(s, "%") {
			percent = true
			s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		n = f
	default:
		return 0
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	if !percent && n > 0 && n <= 1 {
		n *= 100
	}
	return math.Min(math.Max(n, 0), 100)
}

// StripFences removes a surrounding markdown code fence, if any.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(obj, key); s != "" {
			return s
		}
	}
	return ""
}

func firstPresent(obj map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// textField renders scalars as text and objects as compact JSON.
func textField(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// stringList accepts a JSON array or a comma separated string.
func stringList(value any) []string {
	var out []string
	switch v := value.(type) {
	case []any:
		for _, entry := range v {
			if s := textField(entry); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
