// Package seed holds the sample storefront dataset loaded by cmd/seed and
// the integration tests. The data is arranged so the catalog price report at
// a threshold of 50 returns exactly four rows: two Apparel products (one of
// them without images) and two Electronics products.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type CategorySpec struct {
	Name        string
	Description string
}

type ProductSpec struct {
	Name        string
	Description string
	Category    string // category name; empty leaves the product uncategorized
	Price       string
	Stock       int
	Images      []string
}

type UserSpec struct {
	Username string
	Email    string
	Password string // plaintext here; Load stores the bcrypt hash
}

type ItemSpec struct {
	Product  string
	Quantity int
}

type OrderSpec struct {
	User   string
	Status domain.OrderStatus
	Items  []ItemSpec
}

type Dataset struct {
	Categories []CategorySpec
	Products   []ProductSpec
	Users      []UserSpec
	Orders     []OrderSpec
}

// Default returns the sample dataset: 3 categories, 7 products, 8 images,
// 2 users and 3 orders covering all three order statuses.
func Default() Dataset {
	return Dataset{
		Categories: []CategorySpec{
			{Name: "Apparel", Description: "Clothing and footwear"},
			{Name: "Electronics", Description: "Gadgets and peripherals"},
			{Name: "Home & Kitchen", Description: "Everyday household goods"},
		},
		Products: []ProductSpec{
			{
				Name:        "Denim Jacket",
				Description: "Classic mid-wash denim jacket",
				Category:    "Apparel",
				Price:       "79.00",
				Stock:       40,
				Images: []string{
					"https://img.example.com/p/denim-jacket-front.jpg",
					"https://img.example.com/p/denim-jacket-back.jpg",
				},
			},
			{
				Name:        "Trail Running Shoes",
				Description: "Lightweight shoes with aggressive grip",
				Category:    "Apparel",
				Price:       "139.00",
				Stock:       25,
			},
			{
				Name:        "Mechanical Keyboard",
				Description: "Tenkeyless board with hot-swappable switches",
				Category:    "Electronics",
				Price:       "89.50",
				Stock:       30,
				Images: []string{
					"https://img.example.com/p/mech-keyboard.jpg",
				},
			},
			{
				Name:        "Wireless Headphones",
				Description: "Over-ear headphones with active noise canceling",
				Category:    "Electronics",
				Price:       "129.99",
				Stock:       50,
				Images: []string{
					"https://img.example.com/p/headphones-black.jpg",
					"https://img.example.com/p/headphones-case.jpg",
				},
			},
			{
				Name:        "USB-C Cable",
				Description: "1m braided charging cable",
				Category:    "Electronics",
				Price:       "12.90",
				Stock:       200,
				Images: []string{
					"https://img.example.com/p/usb-c-cable.jpg",
				},
			},
			{
				Name:        "Ceramic Mug",
				Description: "350ml stoneware mug",
				Category:    "Home & Kitchen",
				Price:       "18.50",
				Stock:       120,
				Images: []string{
					"https://img.example.com/p/ceramic-mug.jpg",
				},
			},
			{
				Name:        "French Press",
				Description: "8-cup borosilicate glass press",
				Category:    "Home & Kitchen",
				Price:       "49.99",
				Stock:       60,
				Images: []string{
					"https://img.example.com/p/french-press.jpg",
				},
			},
		},
		Users: []UserSpec{
			{Username: "alice", Email: "alice@example.com", Password: "correct-horse"},
			{Username: "bob", Email: "bob@example.com", Password: "battery-staple"},
		},
		Orders: []OrderSpec{
			{
				User:   "alice",
				Status: domain.OrderStatusCompleted,
				Items: []ItemSpec{
					{Product: "Wireless Headphones", Quantity: 1},
					{Product: "Ceramic Mug", Quantity: 2},
				},
			},
			{
				User:   "bob",
				Status: domain.OrderStatusPending,
				Items: []ItemSpec{
					{Product: "Mechanical Keyboard", Quantity: 2},
				},
			},
			{
				User:   "alice",
				Status: domain.OrderStatusCanceled,
				Items: []ItemSpec{
					{Product: "Denim Jacket", Quantity: 1},
				},
			},
		},
	}
}

// Load inserts the dataset through the repositories. Orders are created
// pending and then moved to their target status, so canceled orders leave
// stock levels untouched, exactly as the live flow would.
func Load(ctx context.Context, ds Dataset, users port.UserRepository, catalog port.CatalogRepository, orders port.OrderRepository) error {
	categoryIDs := make(map[string]int64, len(ds.Categories))
	for _, spec := range ds.Categories {
		category := &domain.Category{Name: spec.Name, Description: spec.Description}
		if err := catalog.CreateCategory(ctx, category); err != nil {
			return fmt.Errorf("seed category %q: %w", spec.Name, err)
		}
		categoryIDs[spec.Name] = category.ID
	}

	products := make(map[string]*domain.Product, len(ds.Products))
	for _, spec := range ds.Products {
		price, err := decimal.NewFromString(spec.Price)
		if err != nil {
			return fmt.Errorf("seed product %q: bad price %q: %w", spec.Name, spec.Price, err)
		}

		product := &domain.Product{
			Name:          spec.Name,
			Description:   spec.Description,
			Price:         price,
			StockQuantity: spec.Stock,
			CreatedAt:     time.Now().UTC(),
		}
		if spec.Category != "" {
			id, ok := categoryIDs[spec.Category]
			if !ok {
				return fmt.Errorf("seed product %q: unknown category %q", spec.Name, spec.Category)
			}
			product.CategoryID = &id
		}
		if err := catalog.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("seed product %q: %w", spec.Name, err)
		}
		products[spec.Name] = product

		for _, url := range spec.Images {
			image := &domain.ProductImage{ProductID: product.ID, ImageURL: url}
			if err := catalog.AddProductImage(ctx, image); err != nil {
				return fmt.Errorf("seed image for %q: %w", spec.Name, err)
			}
		}
	}

	userIDs := make(map[string]int64, len(ds.Users))
	for _, spec := range ds.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(spec.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", spec.Username, err)
		}

		user := &domain.User{
			Username:  spec.Username,
			Email:     spec.Email,
			Password:  string(hash),
			CreatedAt: time.Now().UTC(),
		}
		if err := users.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %q: %w", spec.Username, err)
		}
		userIDs[spec.Username] = user.ID
	}

	for i, spec := range ds.Orders {
		userID, ok := userIDs[spec.User]
		if !ok {
			return fmt.Errorf("seed order %d: unknown user %q", i, spec.User)
		}

		order := &domain.Order{
			UserID:    userID,
			OrderDate: time.Now().UTC(),
			Status:    domain.OrderStatusPending,
		}
		for _, item := range spec.Items {
			product, ok := products[item.Product]
			if !ok {
				return fmt.Errorf("seed order %d: unknown product %q", i, item.Product)
			}
			order.Items = append(order.Items, domain.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
		}
		order.TotalAmount = order.ComputeTotal()

		if err := orders.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("seed order %d: %w", i, err)
		}
		if spec.Status != domain.OrderStatusPending {
			if _, err := orders.UpdateOrderStatus(ctx, order.ID, spec.Status); err != nil {
				return fmt.Errorf("seed order %d status: %w", i, err)
			}
		}
	}

	return nil
}

// Reset wipes all six tables in foreign-key order so Load can run against a
// clean database.
func Reset(ctx context.Context, db *sql.DB) error {
	tables := []string{
		"order_items",
		"orders",
		"product_images",
		"products",
		"categories",
		"users",
	}
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
