package seed

import (
	"Supermarket-Vision-Backend/entities"
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

var products = []entities.Product{
	{Name: "Basmati Rice 5kg", Category: "Grains", Price: 12.99, Quantity: 40},
	{Name: "Whole Milk 1L", Category: "Dairy", Price: 1.49, Quantity: 60},
	{Name: "Free Range Eggs (12)", Category: "Dairy", Price: 3.79, Quantity: 35},
	{Name: "Bananas 1kg", Category: "Produce", Price: 1.19, Quantity: 80},
	{Name: "Tomatoes 1kg", Category: "Produce", Price: 2.49, Quantity: 4},
	{Name: "Chicken Breast 500g", Category: "Meat", Price: 5.99, Quantity: 20},
	{Name: "Olive Oil 500ml", Category: "Pantry", Price: 6.49, Quantity: 3},
	{Name: "Spaghetti 500g", Category: "Pantry", Price: 1.29, Quantity: 55},
	{Name: "Orange Juice 1L", Category: "Beverages", Price: 2.99, Quantity: 25},
	{Name: "Sourdough Bread", Category: "Bakery", Price: 3.49, Quantity: 0},
}

var rawMaterials = []entities.RawMaterial{
	{FoodItem: "Biryani", Ingredients: []string{"basmati rice", "chicken", "onion", "yogurt", "ginger garlic paste", "garam masala", "saffron", "ghee"}},
	{FoodItem: "Pasta Carbonara", Ingredients: []string{"spaghetti", "eggs", "pecorino romano", "guanciale", "black pepper"}},
	{FoodItem: "Fried Rice", Ingredients: []string{"cooked rice", "eggs", "soy sauce", "spring onion", "carrot", "peas", "vegetable oil"}},
	{FoodItem: "Pizza Margherita", Ingredients: []string{"pizza dough", "tomato sauce", "mozzarella", "fresh basil", "olive oil"}},
	{FoodItem: "Pad Thai", Ingredients: []string{"rice noodles", "shrimp", "tofu", "bean sprouts", "peanuts", "tamarind paste", "fish sauce", "lime"}},
}

// Run inserts the sample catalog. Rows whose name already exists are left
// untouched, so it is safe to run more than once.
func Run(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	created := 0
	for _, p := range products {
		product := p
		result := db.Where("name = ?", product.Name).FirstOrCreate(&product)
		if result.Error != nil {
			return fmt.Errorf("error seeding product %q: %w", p.Name, result.Error)
		}
		created += int(result.RowsAffected)
	}

	for _, m := range rawMaterials {
		material := m
		material.Source = "seed"
		result := db.Where("food_item = ?", material.FoodItem).FirstOrCreate(&material)
		if result.Error != nil {
			return fmt.Errorf("error seeding raw material %q: %w", m.FoodItem, result.Error)
		}
		created += int(result.RowsAffected)
	}

	log.Infof("Database seed complete (%d rows created)", created)
	return nil
}
