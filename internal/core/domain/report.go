package domain

import "github.com/shopspring/decimal"

// PriceReportRow is one line of the catalog price report: a product above the
// price threshold with its category and the concatenated image URLs.
// ImageURLs is nil for products without images (left join).
type PriceReportRow struct {
	CategoryName string          `json:"category_name"`
	ProductName  string          `json:"product_name"`
	Price        decimal.Decimal `json:"price"`
	ImageURLs    []string        `json:"image_urls"`
}
