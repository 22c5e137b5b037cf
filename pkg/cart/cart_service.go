package cart

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/pkg/product"
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"sync"
	"time"
)

type (
	CartService interface {
		CreateCart(ctx context.Context) (domain.CartResponse, error)
		GetCart(ctx context.Context, cartID string) (domain.CartResponse, error)
		AddItem(ctx context.Context, cartID string, req domain.AddToCartRequest) (domain.CartResponse, error)
		UpdateItem(ctx context.Context, cartID, productID string, req domain.UpdateCartItemRequest) (domain.CartResponse, error)
		RemoveItem(ctx context.Context, cartID, productID string) (domain.CartResponse, error)
		DeleteCart(ctx context.Context, cartID string)
	}

	cartService struct {
		productRepository product.ProductRepository
		carts             *cache.Cache
		ttl               time.Duration
		taxRate           float64
		mu                sync.Mutex
	}

	cart struct {
		id    string
		items []domain.CartItem
	}
)

// NewCartService keeps carts in memory; a cart untouched for ttl expires.
func NewCartService(productRepository product.ProductRepository, ttl time.Duration, taxRate float64) CartService {
	return &cartService{
		productRepository: productRepository,
		carts:             cache.New(ttl, ttl*2),
		ttl:               ttl,
		taxRate:           taxRate,
	}
}

func (s *cartService) CreateCart(ctx context.Context) (domain.CartResponse, error) {
	c := &cart{id: uuid.NewString()}
	s.carts.Set(c.id, c, s.ttl)
	return s.response(c), nil
}

func (s *cartService) GetCart(ctx context.Context, cartID string) (domain.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(cartID)
	if err != nil {
		return domain.CartResponse{}, err
	}
	return s.response(c), nil
}

// AddItem adds quantity units (one when unset) of a product. The cart never
// holds more units than the product's stock at the time of the call.
func (s *cartService) AddItem(ctx context.Context, cartID string, req domain.AddToCartRequest) (domain.CartResponse, error) {
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(cartID)
	if err != nil {
		return domain.CartResponse{}, err
	}

	p, err := s.productRepository.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CartResponse{}, domain.ErrProductNotFound
		}
		return domain.CartResponse{}, err
	}

	idx := c.find(req.ProductID)
	current := 0
	if idx >= 0 {
		current = c.items[idx].CartQuantity
	}
	if current+quantity > p.Quantity {
		return domain.CartResponse{}, domain.ErrStockLimitReached
	}

	item := domain.CartItem{
		ProductID:    req.ProductID,
		Name:         p.Name,
		Price:        p.Price,
		Stock:        p.Quantity,
		CartQuantity: current + quantity,
	}
	if idx >= 0 {
		c.items[idx] = item
	} else {
		c.items = append(c.items, item)
	}

	s.carts.Set(c.id, c, s.ttl)
	return s.response(c), nil
}

// UpdateItem sets the quantity of a cart line; zero removes it.
func (s *cartService) UpdateItem(ctx context.Context, cartID, productID string, req domain.UpdateCartItemRequest) (domain.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(cartID)
	if err != nil {
		return domain.CartResponse{}, err
	}

	idx := c.find(productID)
	if idx < 0 {
		return domain.CartResponse{}, domain.ErrItemNotInCart
	}

	if req.Quantity <= 0 {
		c.remove(idx)
		s.carts.Set(c.id, c, s.ttl)
		return s.response(c), nil
	}

	p, err := s.productRepository.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CartResponse{}, domain.ErrProductNotFound
		}
		return domain.CartResponse{}, err
	}
	if req.Quantity > p.Quantity {
		return domain.CartResponse{}, domain.ErrStockLimitReached
	}

	c.items[idx].CartQuantity = req.Quantity
	c.items[idx].Price = p.Price
	c.items[idx].Stock = p.Quantity
	s.carts.Set(c.id, c, s.ttl)
	return s.response(c), nil
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, productID string) (domain.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(cartID)
	if err != nil {
		return domain.CartResponse{}, err
	}

	idx := c.find(productID)
	if idx < 0 {
		return domain.CartResponse{}, domain.ErrItemNotInCart
	}
	c.remove(idx)
	s.carts.Set(c.id, c, s.ttl)
	return s.response(c), nil
}

func (s *cartService) DeleteCart(ctx context.Context, cartID string) {
	s.carts.Delete(cartID)
}

func (s *cartService) get(cartID string) (*cart, error) {
	v, ok := s.carts.Get(cartID)
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return v.(*cart), nil
}

func (s *cartService) response(c *cart) domain.CartResponse {
	items := make([]domain.CartItem, len(c.items))
	for i, item := range c.items {
		item.LineTotal = item.Price * float64(item.CartQuantity)
		items[i] = item
	}

	totals := Calculate(items, s.taxRate)
	return domain.CartResponse{
		ID:       c.id,
		Items:    items,
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
		TaxRate:  s.taxRate,
	}
}

func (c *cart) find(productID string) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *cart) remove(idx int) {
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}
