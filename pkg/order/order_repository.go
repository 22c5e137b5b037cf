package order

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"context"
	"gorm.io/gorm"
	"time"
)

type (
	OrderRepository interface {
		CreateOrder(ctx context.Context, order *entities.Order) error
		CreateOrderItems(ctx context.Context, items []*entities.OrderItem) error
		DecrementStock(ctx context.Context, productID string, quantity int) error
		GetOrderByID(ctx context.Context, id string) (*entities.Order, error)
		GetOrders(ctx context.Context, page, limit int) ([]*entities.Order, int64, error)
		UpdateOrder(ctx context.Context, order *entities.Order) error
		GetSalesSince(ctx context.Context, since time.Time) (orders int64, revenue float64, err error)
		Transaction(ctx context.Context, fn func(repo OrderRepository) error) error
	}

	orderRepository struct {
		db *gorm.DB
	}
)

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *entities.Order) error {
	return r.db.WithContext(ctx).Omit("OrderItems").Create(order).Error
}

func (r *orderRepository) CreateOrderItems(ctx context.Context, items []*entities.OrderItem) error {
	return r.db.WithContext(ctx).Omit("Order", "Product").Create(items).Error
}

// DecrementStock lowers the product quantity only when enough units are left.
func (r *orderRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	result := r.db.WithContext(ctx).Model(&entities.Product{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*entities.Order, error) {
	var order entities.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_name asc")
		}).
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetOrders(ctx context.Context, page, limit int) ([]*entities.Order, int64, error) {
	var orders []*entities.Order
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Order{})
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("OrderItems").
		Offset(offset).Limit(limit).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, order *entities.Order) error {
	return r.db.WithContext(ctx).Omit("OrderItems").Save(order).Error
}

func (r *orderRepository) GetSalesSince(ctx context.Context, since time.Time) (int64, float64, error) {
	var sales struct {
		Orders  int64
		Revenue float64
	}
	err := r.db.WithContext(ctx).Model(&entities.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Where("created_at >= ? AND status <> ?", since, domain.OrderStatusFailed).
		Scan(&sales).Error
	return sales.Orders, sales.Revenue, err
}

func (r *orderRepository) Transaction(ctx context.Context, fn func(repo OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderRepository{db: tx})
	})
}
