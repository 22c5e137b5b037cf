package cart

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/internal/utils/testdb"
	"Supermarket-Vision-Backend/pkg/product"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (CartService, product.ProductRepository) {
	t.Helper()
	repo := product.NewProductRepository(testdb.New(t))
	return NewCartService(repo, time.Hour, 0.08), repo
}

func addProduct(t *testing.T, repo product.ProductRepository, name string, price float64, qty int) string {
	t.Helper()
	p := &entities.Product{Name: name, Price: price, Quantity: qty}
	require.NoError(t, repo.AddProduct(context.Background(), p))
	return p.ID.String()
}

func TestCheckoutArithmetic(t *testing.T) {
	totals := Calculate([]domain.CartItem{
		{Price: 1.99, CartQuantity: 2},
		{Price: 3.29, CartQuantity: 1},
	}, 0.08)

	assert.InDelta(t, 7.27, totals.Subtotal, 1e-9)
	assert.InDelta(t, 0.5816, totals.Tax, 1e-9)
	assert.InDelta(t, 7.8516, totals.Total, 1e-9)
}

func TestCartFlow(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	milk := addProduct(t, repo, "Milk", 1.99, 5)
	bread := addProduct(t, repo, "Bread", 3.29, 1)

	c, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	_, err = svc.AddItem(ctx, c.ID, domain.AddToCartRequest{ProductID: milk})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, c.ID, domain.AddToCartRequest{ProductID: milk})
	require.NoError(t, err)
	res, err := svc.AddItem(ctx, c.ID, domain.AddToCartRequest{ProductID: bread})
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Items[0].CartQuantity)
	assert.InDelta(t, 3.98, res.Items[0].LineTotal, 1e-9)
	assert.InDelta(t, 7.27, res.Subtotal, 1e-9)
	assert.InDelta(t, 0.5816, res.Tax, 1e-9)
	assert.InDelta(t, 7.8516, res.Total, 1e-9)

	res, err = svc.UpdateItem(ctx, c.ID, milk, domain.UpdateCartItemRequest{Quantity: 0})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Bread", res.Items[0].Name)

	res, err = svc.RemoveItem(ctx, c.ID, bread)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.Total)

	_, err = svc.RemoveItem(ctx, c.ID, bread)
	assert.ErrorIs(t, err, domain.ErrItemNotInCart)
}

func TestStockCeiling(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	milk := addProduct(t, repo, "Milk", 1.99, 2)
	empty := addProduct(t, repo, "Eggs", 2.50, 0)

	c, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, c.ID, domain.AddToCartRequest{ProductID: milk, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, c.ID, domain.AddToCartRequest{ProductID: milk})
	assert.ErrorIs(t, err, domain.ErrStockLimitReached)

	_, err = svc.UpdateItem(ctx, c.ID, milk, domain.UpdateCartItemRequest{Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrStockLimitReached)

	_, err = svc.AddItem(ctx, c.ID, domain.AddToCartRequest{ProductID: empty})
	assert.ErrorIs(t, err, domain.ErrStockLimitReached)

	got, err := svc.GetCart(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].CartQuantity)
}

func TestCartNotFound(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.GetCart(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	c, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	svc.DeleteCart(ctx, c.ID)
	_, err = svc.GetCart(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	_, err = svc.AddItem(ctx, c.ID, domain.AddToCartRequest{ProductID: "00000000-0000-0000-0000-000000000001"})
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestAddUnknownProduct(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, c.ID, domain.AddToCartRequest{ProductID: "00000000-0000-0000-0000-000000000001"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
