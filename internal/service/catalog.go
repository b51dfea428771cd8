package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/webshop/storefront/internal/apperr"
	"github.com/webshop/storefront/internal/logging"
	"github.com/webshop/storefront/internal/models"
	"github.com/webshop/storefront/internal/mykafka"
	"github.com/webshop/storefront/internal/repo"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("category name required: %w", apperr.ErrValidation)
	}
	category := &models.Category{Name: name, Description: description}
	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  uint            `json:"category_id"`
	ImageURL    string          `json:"image_url"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("product name required: %w", apperr.ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price must be >= 0: %w", apperr.ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("stock must be >= 0: %w", apperr.ErrValidation)
	}
	if req.CategoryID == 0 {
		return nil, fmt.Errorf("category_id required: %w", apperr.ErrValidation)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, product.ID, map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, categoryID uint, offset, limit int) ([]models.Product, int64, error) {
	return s.Repo.ListProducts(ctx, categoryID, offset, limit)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) publish(ctx context.Context, productID uint, event map[string]any) {
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(publishCtx, mykafka.TopicProductEvents, fmt.Sprint(productID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", mykafka.TopicProductEvents, "error", err)
	}
}
