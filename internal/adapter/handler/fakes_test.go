package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// memStore is an in-memory stand-in for the MySQL adapter, good enough to
// drive the HTTP handlers end to end.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]*domain.User
	categories map[int64]*domain.Category
	products   map[int64]*domain.Product
	images     map[int64][]domain.ProductImage
	orders     map[int64]*domain.Order
}

var (
	_ port.UserRepository    = (*memStore)(nil)
	_ port.CatalogRepository = (*memStore)(nil)
	_ port.OrderRepository   = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int64]*domain.User),
		categories: make(map[int64]*domain.Category),
		products:   make(map[int64]*domain.Product),
		images:     make(map[int64][]domain.ProductImage),
		orders:     make(map[int64]*domain.Order),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return domain.ErrDuplicateUser
		}
	}
	user.ID = s.id()
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *memStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

func (s *memStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memStore) CreateCategory(ctx context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = s.id()
	stored := *category
	s.categories[category.ID] = &stored
	return nil
}

func (s *memStore) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	found := *category
	return &found, nil
}

func (s *memStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Category, 0, len(s.categories))
	for _, category := range s.categories {
		out = append(out, *category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.CategoryID != nil {
		if _, ok := s.categories[*product.CategoryID]; !ok {
			return domain.ErrCategoryNotFound
		}
	}
	product.ID = s.id()
	stored := *product
	s.products[product.ID] = &stored
	return nil
}

func (s *memStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	found := *product
	return &found, nil
}

func (s *memStore) ListProducts(ctx context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		if filter.CategoryID != 0 {
			if product.CategoryID == nil || *product.CategoryID != filter.CategoryID {
				continue
			}
		}
		out = append(out, *product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memStore) UpdateProductStock(ctx context.Context, productID int64, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustStockLocked(productID, delta)
}

func (s *memStore) adjustStockLocked(productID int64, delta int) error {
	product, ok := s.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if product.StockQuantity+delta < 0 {
		return domain.ErrInsufficientStock
	}
	product.StockQuantity += delta
	return nil
}

func (s *memStore) AddProductImage(ctx context.Context, image *domain.ProductImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[image.ProductID]; !ok {
		return domain.ErrProductNotFound
	}
	image.ID = s.id()
	s.images[image.ProductID] = append(s.images[image.ProductID], *image)
	return nil
}

func (s *memStore) ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ProductImage, len(s.images[productID]))
	copy(out, s.images[productID])
	return out, nil
}

func (s *memStore) PriceReport(ctx context.Context, minPrice decimal.Decimal) ([]domain.PriceReportRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []domain.PriceReportRow
	for _, product := range s.products {
		if product.CategoryID == nil || !product.Price.GreaterThan(minPrice) {
			continue
		}
		row := domain.PriceReportRow{
			CategoryName: s.categories[*product.CategoryID].Name,
			ProductName:  product.Name,
			Price:        product.Price,
		}
		for _, image := range s.images[product.ID] {
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

func (s *memStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// All-or-nothing stock decrement, mirroring the SQL transaction.
	for i, item := range order.Items {
		if err := s.adjustStockLocked(item.ProductID, -item.Quantity); err != nil {
			for _, done := range order.Items[:i] {
				_ = s.adjustStockLocked(done.ProductID, done.Quantity)
			}
			return err
		}
	}
	if _, ok := s.users[order.UserID]; !ok {
		for _, done := range order.Items {
			_ = s.adjustStockLocked(done.ProductID, done.Quantity)
		}
		return domain.ErrUserNotFound
	}

	order.ID = s.id()
	for i := range order.Items {
		order.Items[i].ID = s.id()
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = make([]domain.OrderItem, len(order.Items))
	copy(stored.Items, order.Items)
	s.orders[order.ID] = &stored
	return nil
}

func (s *memStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrderLocked(id)
}

func (s *memStore) getOrderLocked(id int64) (*domain.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	found := *order
	found.Items = make([]domain.OrderItem, len(order.Items))
	copy(found.Items, order.Items)
	return &found, nil
}

func (s *memStore) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Order
	for _, order := range s.orders {
		if order.UserID != userID {
			continue
		}
		found, _ := s.getOrderLocked(order.ID)
		out = append(out, *found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}
	order.Status = status
	if status == domain.OrderStatusCanceled {
		for _, item := range order.Items {
			_ = s.adjustStockLocked(item.ProductID, item.Quantity)
		}
	}
	return s.getOrderLocked(id)
}

// memCache is an in-memory port.CacheRepository.
type memCache struct {
	mu          sync.Mutex
	reports     map[string][]domain.PriceReportRow
	idempotency map[string]bool
}

var _ port.CacheRepository = (*memCache)(nil)

func newMemCache() *memCache {
	return &memCache{
		reports:     make(map[string][]domain.PriceReportRow),
		idempotency: make(map[string]bool),
	}
}

func (c *memCache) GetPriceReport(ctx context.Context, minPrice decimal.Decimal) ([]domain.PriceReportRow, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, ok := c.reports[minPrice.String()]
	return rows, ok, nil
}

func (c *memCache) SetPriceReport(ctx context.Context, minPrice decimal.Decimal, rows []domain.PriceReportRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports[minPrice.String()] = rows
	return nil
}

func (c *memCache) InvalidatePriceReports(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports = make(map[string][]domain.PriceReportRow)
	return nil
}

func (c *memCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.idempotency[key] {
		return false, nil
	}
	c.idempotency[key] = true
	return true, nil
}

func (c *memCache) ReleaseIdempotency(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.idempotency, key)
	return nil
}
