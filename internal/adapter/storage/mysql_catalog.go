package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const defaultProductPageSize = 50

func (m *MySQLAdapter) CreateCategory(ctx context.Context, category *domain.Category) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO categories (name, description) VALUES (?, ?)`,
		category.Name, nullString(category.Description),
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}

	category.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("category insert id: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	var description sql.NullString
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, description FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}

	c.Description = description.String
	return &c, nil
}

func (m *MySQLAdapter) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (m *MySQLAdapter) CreateProduct(ctx context.Context, product *domain.Product) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO products (name, description, price, stock_quantity, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		product.Name, nullString(product.Description), product.Price,
		product.StockQuantity, nullInt64(product.CategoryID), product.CreatedAt,
	)
	if err != nil {
		if isMySQLErr(err, mysqlErrNoReferencedRow) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}

	product.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("product insert id: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	var description sql.NullString
	var categoryID sql.NullInt64
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, stock_quantity, category_id, created_at
		FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &description, &p.Price, &p.StockQuantity, &categoryID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	p.Description = description.String
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	return &p, nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultProductPageSize
	}

	query := `
		SELECT id, name, description, price, stock_quantity, category_id, created_at
		FROM products`
	args := []any{}
	if filter.CategoryID > 0 {
		query += ` WHERE category_id = ?`
		args = append(args, filter.CategoryID)
	}
	query += ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var description sql.NullString
		var categoryID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.Price, &p.StockQuantity, &categoryID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Description = description.String
		if categoryID.Valid {
			p.CategoryID = &categoryID.Int64
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) UpdateProductStock(ctx context.Context, productID int64, delta int) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE products SET stock_quantity = stock_quantity + ?
		WHERE id = ? AND stock_quantity + ? >= 0`,
		delta, productID, delta,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var one int
		err := m.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, productID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("query product: %w", err)
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (m *MySQLAdapter) AddProductImage(ctx context.Context, image *domain.ProductImage) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO product_images (product_id, image_url) VALUES (?, ?)`,
		image.ProductID, image.ImageURL,
	)
	if err != nil {
		if isMySQLErr(err, mysqlErrNoReferencedRow) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("insert product image: %w", err)
	}

	image.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("product image insert id: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, product_id, image_url
		FROM product_images WHERE product_id = ? ORDER BY id`, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("query product images: %w", err)
	}
	defer rows.Close()

	var images []domain.ProductImage
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// PriceReport is the catalog report: categories joined to their products
// above the threshold, images concatenated per product. Products without a
// category are not part of the report (inner join).
func (m *MySQLAdapter) PriceReport(ctx context.Context, minPrice decimal.Decimal) ([]domain.PriceReportRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT c.name AS category_name,
		       p.name AS product_name,
		       p.price,
		       GROUP_CONCAT(pi.image_url ORDER BY pi.id SEPARATOR ',') AS image_urls
		FROM categories c
		JOIN products p ON p.category_id = c.id
		LEFT JOIN product_images pi ON pi.product_id = p.id
		WHERE p.price > ?
		GROUP BY c.id, c.name, p.id, p.name, p.price
		ORDER BY c.name, p.name`, minPrice,
	)
	if err != nil {
		return nil, fmt.Errorf("query price report: %w", err)
	}
	defer rows.Close()

	var report []domain.PriceReportRow
	for rows.Next() {
		var row domain.PriceReportRow
		var imageURLs sql.NullString
		if err := rows.Scan(&row.CategoryName, &row.ProductName, &row.Price, &imageURLs); err != nil {
			return nil, fmt.Errorf("scan price report row: %w", err)
		}
		if imageURLs.Valid {
			row.ImageURLs = strings.Split(imageURLs.String, ",")
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
