package order

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/pkg/cart"
	"context"
	"errors"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"strings"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type (
	OrderService interface {
		Checkout(ctx context.Context, cartID string, req domain.CheckoutRequest) (domain.OrderResponse, error)
		GetOrders(ctx context.Context, page, limit int) ([]domain.OrderResponse, domain.Pagination, error)
		GetOrderByID(ctx context.Context, id string) (domain.OrderResponse, error)
	}

	orderService struct {
		orderRepository OrderRepository
		cartService     cart.CartService
		atomic          bool
	}
)

// NewOrderService builds the checkout service. Unless atomic is set the
// three checkout steps commit independently and a failure leaves the
// earlier steps in place.
func NewOrderService(orderRepository OrderRepository, cartService cart.CartService, atomic bool) OrderService {
	return &orderService{
		orderRepository: orderRepository,
		cartService:     cartService,
		atomic:          atomic,
	}
}

func (s *orderService) Checkout(ctx context.Context, cartID string, req domain.CheckoutRequest) (domain.OrderResponse, error) {
	customerName := strings.TrimSpace(req.Customer.Name)
	if customerName == "" {
		return domain.OrderResponse{}, domain.ErrCustomerRequired
	}

	c, err := s.cartService.GetCart(ctx, cartID)
	if err != nil {
		return domain.OrderResponse{}, err
	}
	if len(c.Items) == 0 {
		return domain.OrderResponse{}, domain.ErrCartEmpty
	}

	order := &entities.Order{
		CustomerName:  customerName,
		CustomerEmail: optional(req.Customer.Email),
		CustomerPhone: optional(req.Customer.Phone),
		Subtotal:      c.Subtotal,
		Tax:           c.Tax,
		Total:         c.Total,
		Status:        domain.OrderStatusCompleted,
	}

	if s.atomic {
		err = s.orderRepository.Transaction(ctx, func(repo OrderRepository) error {
			return runCheckout(ctx, repo, order, c.Items)
		})
	} else {
		err = runCheckout(ctx, s.orderRepository, order, c.Items)
	}
	if err != nil {
		log.Errorf("checkout of cart %s failed: %v", cartID, err)
		return domain.OrderResponse{}, err
	}

	s.cartService.DeleteCart(ctx, cartID)
	log.Infof("order %s completed, total %.2f", order.ID, order.Total)
	return ToOrderResponse(order), nil
}

// runCheckout inserts the order, then its items, then decrements stock for
// every line. The first failing step stops the sequence.
func runCheckout(ctx context.Context, repo OrderRepository, order *entities.Order, lines []domain.CartItem) error {
	if err := repo.CreateOrder(ctx, order); err != nil {
		return &domain.CheckoutStepError{Step: domain.CheckoutStepOrder, Err: err}
	}

	items := make([]*entities.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return &domain.CheckoutStepError{Step: domain.CheckoutStepItems, OrderID: order.ID.String(), Err: domain.ErrParseUUID}
		}
		items = append(items, &entities.OrderItem{
			OrderID:     order.ID,
			ProductID:   productID,
			ProductName: line.Name,
			Quantity:    line.CartQuantity,
			UnitPrice:   line.Price,
			TotalPrice:  line.Price * float64(line.CartQuantity),
		})
	}
	if err := repo.CreateOrderItems(ctx, items); err != nil {
		return &domain.CheckoutStepError{Step: domain.CheckoutStepItems, OrderID: order.ID.String(), Err: err}
	}
	order.OrderItems = items

	for _, item := range items {
		if err := repo.DecrementStock(ctx, item.ProductID.String(), item.Quantity); err != nil {
			return &domain.CheckoutStepError{Step: domain.CheckoutStepStock, OrderID: order.ID.String(), Err: err}
		}
	}
	return nil
}

func (s *orderService) GetOrders(ctx context.Context, page, limit int) ([]domain.OrderResponse, domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	orders, total, err := s.orderRepository.GetOrders(ctx, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	responses := make([]domain.OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, ToOrderResponse(order))
	}
	return responses, domain.NewPagination(page, limit, total), nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id string) (domain.OrderResponse, error) {
	order, err := s.orderRepository.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.OrderResponse{}, domain.ErrOrderNotFound
		}
		return domain.OrderResponse{}, err
	}
	return ToOrderResponse(order), nil
}

// InvoiceNumber is the first segment of the order ID in upper case.
func InvoiceNumber(orderID string) string {
	first, _, _ := strings.Cut(orderID, "-")
	return strings.ToUpper(first)
}

func ToOrderResponse(order *entities.Order) domain.OrderResponse {
	items := make([]domain.OrderItemResponse, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, domain.OrderItemResponse{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	return domain.OrderResponse{
		ID:            order.ID.String(),
		InvoiceNumber: InvoiceNumber(order.ID.String()),
		CustomerName:  order.CustomerName,
		CustomerEmail: deref(order.CustomerEmail),
		CustomerPhone: deref(order.CustomerPhone),
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Total:         order.Total,
		Status:        order.Status,
		PaymentURL:    order.PaymentURL,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
