package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

type OrderHandler struct {
	orders *service.OrderService
	logger zerolog.Logger
}

func NewOrderHandler(orders *service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type placeOrderRequest struct {
	RequestID string             `json:"request_id"`
	UserID    int64              `json:"user_id"`
	Items     []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderResponse struct {
	ID          int64               `json:"id"`
	UserID      int64               `json:"user_id"`
	OrderDate   time.Time           `json:"order_date"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      domain.OrderStatus  `json:"status"`
	Items       []orderItemResponse `json:"items"`
}

func toOrderResponse(order *domain.Order) orderResponse {
	resp := orderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		Items:       make([]orderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return resp
}

// PlaceOrder handles POST /api/orders. The idempotency key comes from the
// body, then the X-Request-ID header; without either one a fresh UUID is
// used, which effectively disables retry protection for that call.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = r.Header.Get("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orders.PlaceOrder(r.Context(), requestID, req.UserID, items)
	if err != nil {
		respondError(w, h.logger, err, "place order")
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "get order")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, status)
	if err != nil {
		respondError(w, h.logger, err, "update order status")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.orders.ListUserOrders(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err, "list user orders")
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
