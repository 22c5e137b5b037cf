package order

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/internal/utils/testdb"
	"Supermarket-Vision-Backend/pkg/cart"
	"Supermarket-Vision-Backend/pkg/product"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	orders   OrderService
	repo     OrderRepository
	carts    cart.CartService
	products product.ProductRepository
}

func newFixture(t *testing.T, atomic bool) fixture {
	t.Helper()
	db := testdb.New(t)
	products := product.NewProductRepository(db)
	carts := cart.NewCartService(products, time.Hour, 0.08)
	repo := NewOrderRepository(db)
	return fixture{
		orders:   NewOrderService(repo, carts, atomic),
		repo:     repo,
		carts:    carts,
		products: products,
	}
}

func (f fixture) product(t *testing.T, name string, price float64, qty int) *entities.Product {
	t.Helper()
	p := &entities.Product{Name: name, Price: price, Quantity: qty}
	require.NoError(t, f.products.AddProduct(context.Background(), p))
	return p
}

func (f fixture) cart(t *testing.T, lines map[*entities.Product]int) string {
	t.Helper()
	ctx := context.Background()
	c, err := f.carts.CreateCart(ctx)
	require.NoError(t, err)
	for p, qty := range lines {
		_, err := f.carts.AddItem(ctx, c.ID, domain.AddToCartRequest{ProductID: p.ID.String(), Quantity: qty})
		require.NoError(t, err)
	}
	return c.ID
}

func TestCheckout(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	milk := f.product(t, "Milk", 1.99, 5)
	bread := f.product(t, "Bread", 3.29, 3)
	cartID := f.cart(t, map[*entities.Product]int{milk: 2, bread: 1})

	res, err := f.orders.Checkout(ctx, cartID, domain.CheckoutRequest{
		Customer: domain.CustomerInfo{Name: " Jane Doe ", Email: "jane@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", res.CustomerName)
	assert.Equal(t, "jane@example.com", res.CustomerEmail)
	assert.Empty(t, res.CustomerPhone)
	assert.Equal(t, domain.OrderStatusCompleted, res.Status)
	assert.InDelta(t, 7.27, res.Subtotal, 1e-9)
	assert.InDelta(t, 0.5816, res.Tax, 1e-9)
	assert.InDelta(t, 7.8516, res.Total, 1e-9)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, InvoiceNumber(res.ID), res.InvoiceNumber)

	got, err := f.products.GetProductByID(ctx, milk.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	got, err = f.products.GetProductByID(ctx, bread.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	_, err = f.carts.GetCart(ctx, cartID)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	stored, err := f.orders.GetOrderByID(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Bread", stored.Items[0].ProductName)
	assert.Equal(t, "Milk", stored.Items[1].ProductName)
	assert.InDelta(t, 3.98, stored.Items[1].TotalPrice, 1e-9)

	// Item snapshots survive later product edits.
	milk.Price = 9.99
	require.NoError(t, f.products.UpdateProduct(ctx, milk))
	stored, err = f.orders.GetOrderByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.99, stored.Items[1].UnitPrice)
}

func TestCheckoutValidation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.orders.Checkout(ctx, "missing", domain.CheckoutRequest{Customer: domain.CustomerInfo{Name: "Jane"}})
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	empty := f.cart(t, nil)
	_, err = f.orders.Checkout(ctx, empty, domain.CheckoutRequest{Customer: domain.CustomerInfo{Name: "Jane"}})
	assert.ErrorIs(t, err, domain.ErrCartEmpty)

	_, err = f.orders.Checkout(ctx, empty, domain.CheckoutRequest{Customer: domain.CustomerInfo{Name: "  "}})
	assert.ErrorIs(t, err, domain.ErrCustomerRequired)
}

func TestCheckoutPartialFailureKeepsOrder(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	milk := f.product(t, "Milk", 1.99, 2)
	cartID := f.cart(t, map[*entities.Product]int{milk: 2})

	milk.Quantity = 1
	require.NoError(t, f.products.UpdateProduct(ctx, milk))

	_, err := f.orders.Checkout(ctx, cartID, domain.CheckoutRequest{Customer: domain.CustomerInfo{Name: "Jane"}})
	var stepErr *domain.CheckoutStepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, domain.CheckoutStepStock, stepErr.Step)
	assert.NotEmpty(t, stepErr.OrderID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.orders.GetOrderByID(ctx, stepErr.OrderID)
	assert.NoError(t, err)

	_, err = f.carts.GetCart(ctx, cartID)
	assert.NoError(t, err)
}

func TestAtomicCheckoutRollsBack(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	milk := f.product(t, "Milk", 1.99, 2)
	cartID := f.cart(t, map[*entities.Product]int{milk: 2})

	milk.Quantity = 1
	require.NoError(t, f.products.UpdateProduct(ctx, milk))

	_, err := f.orders.Checkout(ctx, cartID, domain.CheckoutRequest{Customer: domain.CustomerInfo{Name: "Jane"}})
	var stepErr *domain.CheckoutStepError
	require.ErrorAs(t, err, &stepErr)

	_, err = f.orders.GetOrderByID(ctx, stepErr.OrderID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	orders, page, err := f.orders.GetOrders(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Zero(t, page.Total)
}

func TestGetOrdersAndSales(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	milk := f.product(t, "Milk", 2, 10)

	for i := 0; i < 3; i++ {
		_, err := f.orders.Checkout(ctx, f.cart(t, map[*entities.Product]int{milk: 1}), domain.CheckoutRequest{
			Customer: domain.CustomerInfo{Name: "Jane"},
		})
		require.NoError(t, err)
	}

	orders, page, err := f.orders.GetOrders(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(2), page.TotalPages)

	count, revenue, err := f.repo.GetSalesSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.InDelta(t, 6.48, revenue, 1e-9)
}

func TestInvoiceNumber(t *testing.T) {
	assert.Equal(t, "3F2A9C1B", InvoiceNumber("3f2a9c1b-1111-2222-3333-444455556666"))
}
