package service

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// Mock UserRepository
type mockUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*domain.User)}
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return domain.ErrDuplicateUser
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Mock CatalogRepository
type mockCatalogRepo struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]*domain.Category
	products   map[int64]*domain.Product
	images     map[int64][]domain.ProductImage
	reportHits int
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		categories: make(map[int64]*domain.Category),
		products:   make(map[int64]*domain.Product),
		images:     make(map[int64][]domain.ProductImage),
	}
}

func (m *mockCatalogRepo) CreateCategory(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	category.ID = m.nextID
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *mockCatalogRepo) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	category, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	found := *category
	return &found, nil
}

func (m *mockCatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Category, 0, len(m.categories))
	for _, category := range m.categories {
		out = append(out, *category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCatalogRepo) CreateProduct(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if product.CategoryID != nil {
		if _, ok := m.categories[*product.CategoryID]; !ok {
			return domain.ErrCategoryNotFound
		}
	}
	m.nextID++
	product.ID = m.nextID
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockCatalogRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	found := *product
	return &found, nil
}

func (m *mockCatalogRepo) ListProducts(ctx context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Product, 0, len(m.products))
	for _, product := range m.products {
		if filter.CategoryID != 0 {
			if product.CategoryID == nil || *product.CategoryID != filter.CategoryID {
				continue
			}
		}
		out = append(out, *product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCatalogRepo) UpdateProductStock(ctx context.Context, productID int64, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if product.StockQuantity+delta < 0 {
		return domain.ErrInsufficientStock
	}
	product.StockQuantity += delta
	return nil
}

func (m *mockCatalogRepo) AddProductImage(ctx context.Context, image *domain.ProductImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[image.ProductID]; !ok {
		return domain.ErrProductNotFound
	}
	m.nextID++
	image.ID = m.nextID
	m.images[image.ProductID] = append(m.images[image.ProductID], *image)
	return nil
}

func (m *mockCatalogRepo) ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.ProductImage, len(m.images[productID]))
	copy(out, m.images[productID])
	return out, nil
}

func (m *mockCatalogRepo) PriceReport(ctx context.Context, minPrice decimal.Decimal) ([]domain.PriceReportRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reportHits++
	var rows []domain.PriceReportRow
	for _, product := range m.products {
		if product.CategoryID == nil || !product.Price.GreaterThan(minPrice) {
			continue
		}
		row := domain.PriceReportRow{
			CategoryName: m.categories[*product.CategoryID].Name,
			ProductName:  product.Name,
			Price:        product.Price,
		}
		for _, image := range m.images[product.ID] {
			row.ImageURLs = append(row.ImageURLs, image.ImageURL)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CategoryName != rows[j].CategoryName {
			return rows[i].CategoryName < rows[j].CategoryName
		}
		return rows[i].ProductName < rows[j].ProductName
	})
	return rows, nil
}

// Mock OrderRepository
type mockOrderRepo struct {
	mu        sync.Mutex
	nextID    int64
	orders    map[int64]*domain.Order
	created   int
	createErr error // when set, CreateOrder fails with it
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[int64]*domain.Order)}
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	order.ID = m.nextID
	for i := range order.Items {
		m.nextID++
		order.Items[i].ID = m.nextID
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = make([]domain.OrderItem, len(order.Items))
	copy(stored.Items, order.Items)
	m.orders[order.ID] = &stored
	m.created++
	return nil
}

func (m *mockOrderRepo) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrderLocked(id)
}

func (m *mockOrderRepo) getOrderLocked(id int64) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	found := *order
	found.Items = make([]domain.OrderItem, len(order.Items))
	copy(found.Items, order.Items)
	return &found, nil
}

func (m *mockOrderRepo) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Order
	for _, order := range m.orders {
		if order.UserID != userID {
			continue
		}
		found, _ := m.getOrderLocked(order.ID)
		out = append(out, *found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockOrderRepo) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}
	order.Status = status
	return m.getOrderLocked(id)
}

// Mock CacheRepository
type mockCacheRepo struct {
	mu          sync.Mutex
	idempotency map[string]bool
	released    []string
	reports     map[string][]domain.PriceReportRow
	reportSets  int
	invalidated int
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{
		idempotency: make(map[string]bool),
		reports:     make(map[string][]domain.PriceReportRow),
	}
}

func (m *mockCacheRepo) GetPriceReport(ctx context.Context, minPrice decimal.Decimal) ([]domain.PriceReportRow, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.reports[minPrice.String()]
	return rows, ok, nil
}

func (m *mockCacheRepo) SetPriceReport(ctx context.Context, minPrice decimal.Decimal, rows []domain.PriceReportRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reports[minPrice.String()] = rows
	m.reportSets++
	return nil
}

func (m *mockCacheRepo) InvalidatePriceReports(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reports = make(map[string][]domain.PriceReportRow)
	m.invalidated++
	return nil
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idempotency[key] {
		return false, nil
	}
	m.idempotency[key] = true
	return true, nil
}

func (m *mockCacheRepo) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.idempotency, key)
	m.released = append(m.released, key)
	return nil
}
