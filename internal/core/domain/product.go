package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	CategoryID    *int64 // nil for uncategorized products
	CreatedAt     time.Time
}

type ProductImage struct {
	ID        int64
	ProductID int64
	ImageURL  string
}
