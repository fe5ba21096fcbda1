package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/floraworks/floraorders/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderService interface {
	// CreateOrder creates new unassigned order in caller's organization
	CreateOrder(ctx context.Context, actor models.TokenPayload, order *models.Order) (*models.Order, error)
	// ListOrders returns orders visible to caller
	ListOrders(ctx context.Context, actor models.TokenPayload, statusCsv string) ([]models.Order, error)
	// ListAvailableOrders returns the caller role's unclaimed pool
	ListAvailableOrders(ctx context.Context, actor models.TokenPayload) ([]models.Order, error)
	// GetOrder returns a single order if it is visible to caller
	GetOrder(ctx context.Context, actor models.TokenPayload, orderID uuid.UUID) (*models.Order, error)
	// AssignSelf claims a single unassigned order for the caller
	AssignSelf(ctx context.Context, actor models.TokenPayload, orderID uuid.UUID) (*models.Order, error)
	// BatchAssign claims each order independently and aggregates successes
	BatchAssign(ctx context.Context, actor models.TokenPayload, orderIDs []uuid.UUID) (*service.BatchAssignResult, error)
	// AssignStaff lets owner or manager set assignees directly
	AssignStaff(ctx context.Context, actor models.TokenPayload, orderID uuid.UUID, floristID, courierID *uuid.UUID) (*models.Order, error)
	// UpdateStatus moves order along the lifecycle
	UpdateStatus(ctx context.Context, actor models.TokenPayload, orderID uuid.UUID, to string) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderResponse struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	CustomerName  string   `json:"customerName"`
	CustomerPhone string   `json:"customerPhone"`
	Address       string   `json:"address"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	FloristID     *string  `json:"floristId"`
	CourierID     *string  `json:"courierId"`
	ManagerID     *string  `json:"managerId"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	DeliveryAt    string   `json:"deliveryDateTime"`
	CreatedAt     string   `json:"createdAt"`
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:            order.ID.String(),
		Status:        order.Status,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Address:       order.Address,
		Description:   order.Description,
		Price:         order.Price,
		FloristID:     uuidString(order.FloristID),
		CourierID:     uuidString(order.CourierID),
		ManagerID:     uuidString(order.ManagerID),
		Latitude:      order.Latitude,
		Longitude:     order.Longitude,
		DeliveryAt:    order.DeliveryAt.Format(time.RFC3339),
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
}

func newOrderListResponse(orders []models.Order) []orderResponse {
	resp := []orderResponse{}
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i]))
	}
	return resp
}

// orderErrorStatus maps service errors to HTTP status codes
func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrRoleMismatch):
		return http.StatusForbidden
	case errors.Is(err, models.ErrDataNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyAssigned), errors.Is(err, models.ErrConflictData):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidStatus), errors.Is(err, models.ErrEmptyBatch), errors.Is(err, models.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrInactiveUser):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}

type createOrderRequest struct {
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	Address       string  `json:"address"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	DeliveryAt    string  `json:"deliveryDateTime"`
}

// CreateOrder creates new order
// 200 — заказ создан;
// 400 — неверный формат запроса;
// 401 — пользователь не аутентифицирован;
// 403 — роль не позволяет создавать заказы;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.CustomerName == "" {
			http.Error(w, "customer name is required", http.StatusBadRequest)
			return
		}

		deliveryAt, err := time.Parse(time.RFC3339, req.DeliveryAt)
		if err != nil {
			http.Error(w, "invalid delivery date", http.StatusBadRequest)
			return
		}

		order := models.Order{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Address:       req.Address,
			Description:   req.Description,
			Price:         req.Price,
			DeliveryAt:    deliveryAt,
		}

		created, err := oh.svc.CreateOrder(r.Context(), *payload, &order)
		if err != nil {
			http.Error(w, err.Error(), orderErrorStatus(err))
			return
		}

		writeJSON(w, newOrderResponse(created))
	}
}

// ListOrders returns orders visible to caller, optionally narrowed by status
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := oh.svc.ListOrders(r.Context(), *payload, r.URL.Query().Get("status"))
		if err != nil {
			http.Error(w, err.Error(), orderErrorStatus(err))
			return
		}

		writeJSON(w, newOrderListResponse(orders))
	}
}

// ListAvailableOrders returns the caller role's unclaimed pool
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 403 — роль не имеет пула заказов;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListAvailableOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := oh.svc.ListAvailableOrders(r.Context(), *payload)
		if err != nil {
			http.Error(w, err.Error(), orderErrorStatus(err))
			return
		}

		writeJSON(w, newOrderListResponse(orders))
	}
}

// GetOrder returns single order
// 200 — успешная обработка запроса;
// 400 — неверный идентификатор заказа;
// 401 — пользователь не аутентифицирован;
// 404 — заказ не найден или недоступен;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.GetOrder(r.Context(), *payload, orderID)
		if err != nil {
			http.Error(w, err.Error(), orderErrorStatus(err))
			return
		}

		writeJSON(w, newOrderResponse(order))
	}
}

// AssignSelf claims order for the caller
// 200 — заказ закреплён за пользователем;
// 400 — неверный идентификатор заказа;
// 401 — пользователь не аутентифицирован;
// 403 — роль не позволяет брать заказ;
// 404 — заказ не найден;
// 409 — заказ уже занят;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) AssignSelf() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.AssignSelf(r.Context(), *payload, orderID)
		if err != nil {
			http.Error(w, err.Error(), orderErrorStatus(err))
			return
		}

		writeJSON(w, newOrderResponse(order))
	}
}

type batchAssignRequest struct {
	OrderIDs []string `json:"orderIds"`
}

type batchAssignResponse struct {
	Assigned int             `json:"assigned"`
	Orders   []orderResponse `json:"orders"`
}

// BatchAssign claims a list of orders for the caller
// 200 — пакет обработан, в теле количество закреплённых заказов;
// 400 — неверный формат запроса или пустой пакет;
// 401 — пользователь не аутентифицирован;
// 403 — роль не позволяет брать заказы;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) BatchAssign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req batchAssignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		orderIDs := make([]uuid.UUID, 0, len(req.OrderIDs))
		for _, raw := range req.OrderIDs {
			orderID, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "invalid order id", http.StatusBadRequest)
				return
			}
			orderIDs = append(orderIDs, orderID)
		}

		result, err := oh.svc.BatchAssign(r.Context(), *payload, orderIDs)
		if err != nil {
			http.Error(w, err.Error(), orderErrorStatus(err))
			return
		}

		writeJSON(w, batchAssignResponse{
			Assigned: result.Assigned,
			Orders:   newOrderListResponse(result.Orders),
		})
	}
}

type assignStaffRequest struct {
	FloristID *string `json:"floristId"`
	CourierID *string `json:"courierId"`
}

// AssignStaff sets order assignees directly
// 200 — назначение выполнено;
// 400 — неверный формат запроса;
// 401 — пользователь не аутентифицирован;
// 403 — роль не позволяет назначать исполнителей;
// 404 — заказ или сотрудник не найдены;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) AssignStaff() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		var req assignStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.FloristID == nil && req.CourierID == nil {
			http.Error(w, "nothing to assign", http.StatusBadRequest)
			return
		}

		var floristID, courierID *uuid.UUID
		if req.FloristID != nil {
			id, err := uuid.Parse(*req.FloristID)
			if err != nil {
				http.Error(w, "invalid florist id", http.StatusBadRequest)
				return
			}
			floristID = &id
		}
		if req.CourierID != nil {
			id, err := uuid.Parse(*req.CourierID)
			if err != nil {
				http.Error(w, "invalid courier id", http.StatusBadRequest)
				return
			}
			courierID = &id
		}

		order, err := oh.svc.AssignStaff(r.Context(), *payload, orderID, floristID, courierID)
		if err != nil {
			http.Error(w, err.Error(), orderErrorStatus(err))
			return
		}

		writeJSON(w, newOrderResponse(order))
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves order along the lifecycle
// 200 — переход выполнен;
// 400 — неверный формат запроса или неизвестный статус;
// 401 — пользователь не аутентифицирован;
// 403 — роль не позволяет выполнить переход;
// 404 — заказ не найден;
// 409 — конкурирующий переход;
// 422 — переход нарушает жизненный цикл;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, err := oh.svc.UpdateStatus(r.Context(), *payload, orderID, req.Status)
		if err != nil {
			http.Error(w, err.Error(), orderErrorStatus(err))
			return
		}

		writeJSON(w, newOrderResponse(order))
	}
}
