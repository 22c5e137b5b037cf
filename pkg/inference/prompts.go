package inference

import (
	"Supermarket-Vision-Backend/domain"
	"fmt"
)

const analyzePrompt = `Analyze this image and identify any products, food items, or objects visible. For each item identified, provide:
1. Product/Item name
2. Category (e.g., Food, Beverage, Electronics, etc.)
3. Brief description
4. Estimated confidence level (as percentage)
5. Any nutritional or ingredient information if it's a food item

Format the response as a JSON array of objects with these fields: name, category, description, confidence, additionalInfo.`

const realtimePrompt = `You are a supermarket checkout scanner. Identify every retail product clearly visible in this camera frame.
Respond ONLY with a JSON array, no markdown and no extra text. Each element must have these fields:
name (string), brand (string or null), category (string), price (estimated shelf price as a string, or null), confidence (number between 0 and 100), description (one short sentence).
Return [] when no product is visible.`

const ingredientsImagePrompt = `Look at this image and identify any food items or products. For each food item found, provide detailed ingredient information including:
1. Main ingredients typically used
2. Common additives or preservatives
3. Nutritional highlights
4. Allergen warnings if applicable

Respond in JSON format with an array of objects containing: name, ingredients, nutritional_info, allergens.`

const ingredientsTextPrompt = `List the ingredients and raw materials needed to make "%s".
Respond ONLY with a JSON object, no markdown and no extra text, with these fields:
food_name (string), main_ingredients (array of strings), raw_materials (array of strings), spices_seasonings (array of strings), optional_ingredients (array of strings), allergens (array of strings).`

// promptFor returns the instruction sent with the request. hasImage
// selects between the image and text-only variants of the ingredients
// prompt.
func promptFor(kind domain.AnalysisType, hasImage bool, query string) string {
	switch kind {
	case domain.AnalysisTypeRealtime:
		return realtimePrompt
	case domain.AnalysisTypeIngredients:
		if hasImage {
			return ingredientsImagePrompt
		}
		return fmt.Sprintf(ingredientsTextPrompt, query)
	default:
		return analyzePrompt
	}
}
