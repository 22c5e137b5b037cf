package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessAddProduct    = "product added successfully"
	MessageSuccessUpdateProduct = "product updated successfully"
	MessageSuccessDeleteProduct = "product deleted successfully"
	MessageSuccessGetProducts   = "products retrieved successfully"
	MessageSuccessUploadImage   = "product image uploaded successfully"

	MessageFailedAddProduct    = "failed to add product"
	MessageFailedUpdateProduct = "failed to update product"
	MessageFailedDeleteProduct = "failed to delete product"
	MessageFailedGetProducts   = "failed to retrieve products"
	MessageFailedUploadImage   = "failed to upload product image"

	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidPrice       = errors.New("price must not be negative")
	ErrInvalidQuantity    = errors.New("quantity must not be negative")
	ErrInvalidImageFormat = errors.New("invalid image format")
)

type (
	AddProductRequest struct {
		Name     string  `json:"name" validate:"required"`
		Category string  `json:"category"`
		Price    float64 `json:"price" validate:"gte=0"`
		Quantity int     `json:"quantity" validate:"gte=0"`
	}

	UpdateProductRequest struct {
		Name     string   `json:"name" validate:"omitempty"`
		Category string   `json:"category" validate:"omitempty"`
		Price    *float64 `json:"price" validate:"omitempty,gte=0"`
		Quantity *int     `json:"quantity" validate:"omitempty,gte=0"`
	}

	ProductFilter struct {
		Search  string
		InStock bool
		Page    int
		Limit   int
	}

	UploadProductImageRequest struct {
		ProductID string                `json:"product_id" validate:"required,uuid"`
		Image     *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	ProductResponse struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Category  string    `json:"category,omitempty"`
		Price     float64   `json:"price"`
		Quantity  int       `json:"quantity"`
		ImageURL  string    `json:"image_url,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
)
