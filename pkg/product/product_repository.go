package product

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/internal/utils"
	"context"
	"gorm.io/gorm"
)

type (
	ProductRepository interface {
		AddProduct(ctx context.Context, product *entities.Product) error
		GetProductByID(ctx context.Context, id string) (*entities.Product, error)
		UpdateProduct(ctx context.Context, product *entities.Product) error
		DeleteProduct(ctx context.Context, id string) error
		GetProducts(ctx context.Context, filter domain.ProductFilter) ([]*entities.Product, int64, error)
		GetLowStock(ctx context.Context, threshold, limit int) ([]*entities.Product, error)
		GetInventoryTotals(ctx context.Context) (products int64, units int64, err error)
	}

	productRepository struct {
		db *gorm.DB
	}
)

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) AddProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetProducts lists products ordered by name. Page and limit must already be
// normalized by the caller.
func (r *productRepository) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]*entities.Product, int64, error) {
	var products []*entities.Product
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Product{})
	if filter.Search != "" {
		query = utils.WhereContains(query, "name", filter.Search)
	}
	if filter.InStock {
		query = query.Where("quantity > 0")
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Offset(offset).Limit(filter.Limit).Order("name asc").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *productRepository) GetLowStock(ctx context.Context, threshold, limit int) ([]*entities.Product, error) {
	var products []*entities.Product
	if err := r.db.WithContext(ctx).
		Where("quantity <= ?", threshold).
		Order("quantity asc, name asc").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetInventoryTotals(ctx context.Context) (int64, int64, error) {
	var totals struct {
		Products int64
		Units    int64
	}
	err := r.db.WithContext(ctx).Model(&entities.Product{}).
		Select("COUNT(*) AS products, COALESCE(SUM(quantity), 0) AS units").
		Scan(&totals).Error
	return totals.Products, totals.Units, err
}
