package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
)

type UserRepository interface {
	// CreateUser inserts a user and fills in the generated ID.
	// Duplicate username or email yields domain.ErrDuplicateUser.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// GetUserByUsername retrieves a user by unique username
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// ProductFilter narrows ListProducts. Zero values mean no filter and the
// adapter's default page size.
type ProductFilter struct {
	CategoryID int64
	Limit      int
	Offset     int
}

type CatalogRepository interface {
	// CreateCategory inserts a category and fills in the generated ID
	CreateCategory(ctx context.Context, category *domain.Category) error

	// GetCategory retrieves a category by ID
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)

	// ListCategories returns all categories ordered by name
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// CreateProduct inserts a product and fills in the generated ID.
	// A missing category yields domain.ErrCategoryNotFound.
	CreateProduct(ctx context.Context, product *domain.Product) error

	// GetProduct retrieves a product by ID, without images
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// ListProducts returns products matching the filter, ordered by name
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// UpdateProductStock adjusts stock_quantity by delta, refusing
	// adjustments that would take stock below zero
	// (domain.ErrInsufficientStock)
	UpdateProductStock(ctx context.Context, productID int64, delta int) error

	// AddProductImage inserts an image row for an existing product
	AddProductImage(ctx context.Context, image *domain.ProductImage) error

	// ListProductImages returns a product's images in insertion order
	ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error)

	// PriceReport runs the catalog report: products above minPrice joined
	// with their category, images concatenated per product, ordered by
	// category name then product name
	PriceReport(ctx context.Context, minPrice decimal.Decimal) ([]domain.PriceReportRow, error)
}

type OrderRepository interface {
	// CreateOrder persists the order and its items in one transaction,
	// decrementing product stock with a conditional update; a failed
	// decrement yields domain.ErrInsufficientStock and rolls back
	CreateOrder(ctx context.Context, order *domain.Order) error

	// GetOrder retrieves an order with its items
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	// ListOrdersByUser returns a user's orders with items, newest first
	ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)

	// UpdateOrderStatus applies a status transition and returns the updated
	// order; canceling restores the reserved stock in the same transaction
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}
