package rawmaterial

import (
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/internal/utils"
	"context"
	"gorm.io/gorm"
)

type (
	RawMaterialRepository interface {
		AddRawMaterial(ctx context.Context, material *entities.RawMaterial) error
		GetRawMaterials(ctx context.Context, search string) ([]*entities.RawMaterial, error)
		GetRawMaterialByFoodItem(ctx context.Context, foodItem string) (*entities.RawMaterial, error)
		FindRawMaterial(ctx context.Context, query string) (*entities.RawMaterial, error)
		CountRawMaterials(ctx context.Context) (int64, error)
	}

	rawMaterialRepository struct {
		db *gorm.DB
	}
)

func NewRawMaterialRepository(db *gorm.DB) RawMaterialRepository {
	return &rawMaterialRepository{db: db}
}

func (r *rawMaterialRepository) AddRawMaterial(ctx context.Context, material *entities.RawMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *rawMaterialRepository) GetRawMaterials(ctx context.Context, search string) ([]*entities.RawMaterial, error) {
	var materials []*entities.RawMaterial
	query := r.db.WithContext(ctx)
	if search != "" {
		query = utils.WhereContains(query, "food_item", search)
	}
	if err := query.Order("food_item asc").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *rawMaterialRepository) GetRawMaterialByFoodItem(ctx context.Context, foodItem string) (*entities.RawMaterial, error) {
	var material entities.RawMaterial
	if err := r.db.WithContext(ctx).
		Where("LOWER(food_item) = LOWER(?)", foodItem).
		First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// FindRawMaterial returns the first entry whose food item contains query,
// ignoring case.
func (r *rawMaterialRepository) FindRawMaterial(ctx context.Context, query string) (*entities.RawMaterial, error) {
	var material entities.RawMaterial
	if err := utils.WhereContains(r.db.WithContext(ctx), "food_item", query).
		Order("food_item asc").
		First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *rawMaterialRepository) CountRawMaterials(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.RawMaterial{}).Count(&count).Error
	return count, err
}
