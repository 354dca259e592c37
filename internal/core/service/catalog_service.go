package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type CatalogService struct {
	catalog port.CatalogRepository
	cache   port.CacheRepository
}

func NewCatalogService(catalog port.CatalogRepository, cache port.CacheRepository) *CatalogService {
	return &CatalogService{catalog: catalog, cache: cache}
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	category := &domain.Category{Name: name, Description: description}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.catalog.GetCategory(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.catalog.ListCategories(ctx)
}

// NewProductInput carries the caller-supplied fields of a product.
// CategoryID nil leaves the product uncategorized.
type NewProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	CategoryID    *int64
}

func (s *CatalogService) CreateProduct(ctx context.Context, input NewProductInput) (*domain.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if input.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if input.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock quantity must not be negative", ErrInvalidInput)
	}

	product := &domain.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		CategoryID:    input.CategoryID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.catalog.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return product, nil
}

// GetProduct returns a product together with its images.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, []domain.ProductImage, error) {
	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	images, err := s.catalog.ListProductImages(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return product, images, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	return s.catalog.ListProducts(ctx, filter)
}

// AdjustStock applies a relative stock change (restock or correction) and
// returns the product as stored afterwards.
func (s *CatalogService) AdjustStock(ctx context.Context, productID int64, delta int) (*domain.Product, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: stock delta must not be zero", ErrInvalidInput)
	}
	if err := s.catalog.UpdateProductStock(ctx, productID, delta); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return s.catalog.GetProduct(ctx, productID)
}

func (s *CatalogService) AddImage(ctx context.Context, productID int64, imageURL string) (*domain.ProductImage, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, fmt.Errorf("%w: image url is required", ErrInvalidInput)
	}

	image := &domain.ProductImage{ProductID: productID, ImageURL: imageURL}
	if err := s.catalog.AddProductImage(ctx, image); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx)
	return image, nil
}

func (s *CatalogService) ListImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	return s.catalog.ListProductImages(ctx, productID)
}

// PriceReport serves the catalog report, trying the cache before the
// database. Cache failures are ignored; the report is served from the
// repository either way.
func (s *CatalogService) PriceReport(ctx context.Context, minPrice decimal.Decimal) ([]domain.PriceReportRow, error) {
	if minPrice.IsNegative() {
		return nil, fmt.Errorf("%w: min price must not be negative", ErrInvalidInput)
	}

	if rows, ok, err := s.cache.GetPriceReport(ctx, minPrice); err == nil && ok {
		return rows, nil
	}

	rows, err := s.catalog.PriceReport(ctx, minPrice)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetPriceReport(ctx, minPrice, rows)
	return rows, nil
}

// Every catalog write drops the cached reports; the TTL bounds staleness if
// the sweep itself fails.
func (s *CatalogService) invalidateReports(ctx context.Context) {
	_ = s.cache.InvalidatePriceReports(ctx)
}
