package product

import (
	"Supermarket-Vision-Backend/domain"
	"Supermarket-Vision-Backend/entities"
	"Supermarket-Vision-Backend/internal/utils/storage"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
	"strings"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type (
	ProductService interface {
		AddProduct(ctx context.Context, req domain.AddProductRequest) (domain.ProductResponse, error)
		UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) (domain.ProductResponse, error)
		DeleteProduct(ctx context.Context, id string) error
		GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductResponse, domain.Pagination, error)
		GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error)
		UploadProductImage(ctx context.Context, req domain.UploadProductImageRequest) (domain.ProductResponse, error)
	}

	productService struct {
		productRepository ProductRepository
		s3                storage.AwsS3
	}
)

func NewProductService(productRepository ProductRepository, s3 storage.AwsS3) ProductService {
	return &productService{
		productRepository: productRepository,
		s3:                s3,
	}
}

func (s *productService) AddProduct(ctx context.Context, req domain.AddProductRequest) (domain.ProductResponse, error) {
	if req.Price < 0 {
		return domain.ProductResponse{}, domain.ErrInvalidPrice
	}
	if req.Quantity < 0 {
		return domain.ProductResponse{}, domain.ErrInvalidQuantity
	}

	product := &entities.Product{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Quantity: req.Quantity,
	}
	if err := s.productRepository.AddProduct(ctx, product); err != nil {
		return domain.ProductResponse{}, err
	}

	return ToProductResponse(product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) (domain.ProductResponse, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return domain.ProductResponse{}, err
	}

	if req.Name != "" {
		product.Name = strings.TrimSpace(req.Name)
	}
	if req.Category != "" {
		product.Category = strings.TrimSpace(req.Category)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return domain.ProductResponse{}, domain.ErrInvalidPrice
		}
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return domain.ProductResponse{}, domain.ErrInvalidQuantity
		}
		product.Quantity = *req.Quantity
	}

	if err := s.productRepository.UpdateProduct(ctx, product); err != nil {
		return domain.ProductResponse{}, err
	}
	return ToProductResponse(product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepository.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if key := s.s3.GetObjectKeyFromLink(product.ImageURL); key != "" {
		if err := s.s3.DeleteFile(ctx, key); err != nil {
			log.Warnf("failed to delete image of product %s: %v", id, err)
		}
	}
	return nil
}

func (s *productService) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductResponse, domain.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	products, total, err := s.productRepository.GetProducts(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	responses := make([]domain.ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, ToProductResponse(product))
	}
	return responses, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return domain.ProductResponse{}, err
	}
	return ToProductResponse(product), nil
}

func (s *productService) UploadProductImage(ctx context.Context, req domain.UploadProductImageRequest) (domain.ProductResponse, error) {
	product, err := s.getProduct(ctx, req.ProductID)
	if err != nil {
		return domain.ProductResponse{}, err
	}

	var objectKey string
	if existingKey := s.s3.GetObjectKeyFromLink(product.ImageURL); existingKey != "" {
		objectKey, err = s.s3.UpdateFile(ctx, existingKey, req.Image, storage.AllowImage...)
	} else {
		fileName := fmt.Sprintf("product-%s", product.ID.String())
		objectKey, err = s.s3.UploadFile(ctx, fileName, req.Image, "products", storage.AllowImage...)
	}
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllow) {
			return domain.ProductResponse{}, domain.ErrInvalidImageFormat
		}
		return domain.ProductResponse{}, err
	}

	product.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.productRepository.UpdateProduct(ctx, product); err != nil {
		return domain.ProductResponse{}, err
	}
	return ToProductResponse(product), nil
}

func (s *productService) getProduct(ctx context.Context, id string) (*entities.Product, error) {
	product, err := s.productRepository.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func ToProductResponse(product *entities.Product) domain.ProductResponse {
	return domain.ProductResponse{
		ID:        product.ID.String(),
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		Quantity:  product.Quantity,
		ImageURL:  product.ImageURL,
		CreatedAt: product.CreatedAt,
	}
}
