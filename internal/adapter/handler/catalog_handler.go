package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

type CatalogHandler struct {
	catalog *service.CatalogService
	logger  zerolog.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

type createProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    *int64          `json:"category_id"`
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

type addImageRequest struct {
	ImageURL string `json:"image_url"`
}

type imageResponse struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
}

type productResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    *int64          `json:"category_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Images        []imageResponse `json:"images,omitempty"`
}

func toProductResponse(p *domain.Product, images []domain.ProductImage) productResponse {
	resp := productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		CategoryID:    p.CategoryID,
		CreatedAt:     p.CreatedAt,
	}
	for _, img := range images {
		resp.Images = append(resp.Images, imageResponse{ID: img.ID, ImageURL: img.ImageURL})
	}
	return resp
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		respondError(w, h.logger, err, "create category")
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "list categories")
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, toCategoryResponse(&categories[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "get category")
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), service.NewProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		respondError(w, h.logger, err, "create product")
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product, nil))
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := productFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err, "list products")
		return
	}

	resp := make([]productResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i], nil))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "productID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, images, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "get product")
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product, images))
}

func (h *CatalogHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "productID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		respondError(w, h.logger, err, "adjust stock")
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product, nil))
}

func (h *CatalogHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "productID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req addImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	image, err := h.catalog.AddImage(r.Context(), id, req.ImageURL)
	if err != nil {
		respondError(w, h.logger, err, "add product image")
		return
	}

	writeJSON(w, http.StatusCreated, imageResponse{ID: image.ID, ImageURL: image.ImageURL})
}

func (h *CatalogHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "productID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	images, err := h.catalog.ListImages(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "list product images")
		return
	}

	resp := make([]imageResponse, 0, len(images))
	for _, img := range images {
		resp = append(resp, imageResponse{ID: img.ID, ImageURL: img.ImageURL})
	}
	writeJSON(w, http.StatusOK, resp)
}

// PriceReport handles GET /api/reports/catalog?min_price=. A missing
// min_price means zero, i.e. every categorized product.
func (h *CatalogHandler) PriceReport(w http.ResponseWriter, r *http.Request) {
	minPrice := decimal.Zero
	if raw := r.URL.Query().Get("min_price"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid min_price")
			return
		}
		minPrice = parsed
	}

	rows, err := h.catalog.PriceReport(r.Context(), minPrice)
	if err != nil {
		respondError(w, h.logger, err, "price report")
		return
	}

	if rows == nil {
		rows = []domain.PriceReportRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func productFilterFromQuery(r *http.Request) (port.ProductFilter, error) {
	var filter port.ProductFilter
	query := r.URL.Query()

	if raw := query.Get("category_id"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value <= 0 {
			return filter, fmt.Errorf("invalid category_id")
		}
		filter.CategoryID = value
	}
	if raw := query.Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return filter, fmt.Errorf("invalid limit")
		}
		filter.Limit = value
	}
	if raw := query.Get("offset"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return filter, fmt.Errorf("invalid offset")
		}
		filter.Offset = value
	}
	return filter, nil
}
