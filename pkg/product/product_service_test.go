package product

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/internal/utils/storage"
	"Supermarket-Vision-Backend/internal/utils/testdb"
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	keys    []string
	deleted []string
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.keys = append(f.keys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func newService(t *testing.T) (ProductService, *fakeObjects) {
	t.Helper()
	objects := &fakeObjects{}
	s3 := storage.NewAwsS3WithClient(objects, "shop", "us-east-1")
	return NewProductService(NewProductRepository(testdb.New(t)), s3), objects
}

func seed(t *testing.T, svc ProductService, name string, price float64, qty int) domain.ProductResponse {
	t.Helper()
	res, err := svc.AddProduct(context.Background(), domain.AddProductRequest{Name: name, Price: price, Quantity: qty})
	require.NoError(t, err)
	return res
}

func TestProductCRUD(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	milk := seed(t, svc, "Milk", 1.99, 10)
	assert.NotEmpty(t, milk.ID)

	price := 2.49
	qty := 0
	updated, err := svc.UpdateProduct(ctx, milk.ID, domain.UpdateProductRequest{Price: &price, Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 2.49, updated.Price)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, "Milk", updated.Name)

	negative := -1.0
	_, err = svc.UpdateProduct(ctx, milk.ID, domain.UpdateProductRequest{Price: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	got, err := svc.GetProductByID(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.49, got.Price)

	require.NoError(t, svc.DeleteProduct(ctx, milk.ID))
	_, err = svc.GetProductByID(ctx, milk.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, milk.ID), domain.ErrProductNotFound)
}

func TestGetProductsFilters(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	seed(t, svc, "Whole Milk", 1.99, 4)
	seed(t, svc, "Bread", 3.29, 0)
	seed(t, svc, "Almond Milk", 2.99, 2)

	all, page, err := svc.GetProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Almond Milk", "Bread", "Whole Milk"}, names(all))
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, defaultPageLimit, page.Limit)

	inStock, _, err := svc.GetProducts(ctx, domain.ProductFilter{InStock: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Almond Milk", "Whole Milk"}, names(inStock))

	search, _, err := svc.GetProducts(ctx, domain.ProductFilter{Search: "milk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Almond Milk", "Whole Milk"}, names(search))

	paged, page, err := svc.GetProducts(ctx, domain.ProductFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Whole Milk"}, names(paged))
	assert.Equal(t, int64(2), page.TotalPages)
}

func TestUploadProductImage(t *testing.T) {
	svc, objects := newService(t)
	ctx := context.Background()
	milk := seed(t, svc, "Milk", 1.99, 10)

	res, err := svc.UploadProductImage(ctx, domain.UploadProductImageRequest{
		ProductID: milk.ID,
		Image:     imageHeader(t, []byte("\x89PNG\r\n\x1a\n0000")),
	})
	require.NoError(t, err)
	require.Len(t, objects.keys, 1)
	assert.Equal(t, "https://shop.s3.us-east-1.amazonaws.com/"+objects.keys[0], res.ImageURL)

	again, err := svc.UploadProductImage(ctx, domain.UploadProductImageRequest{
		ProductID: milk.ID,
		Image:     imageHeader(t, []byte("\x89PNG\r\n\x1a\n1111")),
	})
	require.NoError(t, err)
	assert.Equal(t, res.ImageURL, again.ImageURL)
	assert.Equal(t, objects.keys[0], objects.keys[1])

	_, err = svc.UploadProductImage(ctx, domain.UploadProductImageRequest{
		ProductID: milk.ID,
		Image:     imageHeader(t, []byte("not an image at all")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)

	require.NoError(t, svc.DeleteProduct(ctx, milk.ID))
	assert.Equal(t, objects.keys[:1], objects.deleted)
}

func names(products []domain.ProductResponse) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func imageHeader(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "upload.bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}
