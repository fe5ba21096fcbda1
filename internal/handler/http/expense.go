package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/floraworks/floraorders/internal/models"
)

type ExpenseService interface {
	// CreateExpense records expense in caller's organization
	CreateExpense(ctx context.Context, actor models.TokenPayload, expense *models.Expense) (*models.Expense, error)
	// ListExpenses returns caller organization's expenses
	ListExpenses(ctx context.Context, actor models.TokenPayload) ([]models.Expense, error)
}

// ExpenseHandler represents HTTP handler for expense-related requests
type ExpenseHandler struct {
	svc ExpenseService
}

// NewExpenseHandler creates new ExpenseHandler instance
func NewExpenseHandler(svc ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

type createExpenseRequest struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Comment  string  `json:"comment"`
}

type expenseResponse struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	Comment   string  `json:"comment"`
	CreatedAt string  `json:"createdAt"`
}

func newExpenseResponse(expense *models.Expense) expenseResponse {
	return expenseResponse{
		ID:        expense.ID.String(),
		Amount:    expense.Amount,
		Category:  expense.Category,
		Comment:   expense.Comment,
		CreatedAt: expense.CreatedAt.Format(time.RFC3339),
	}
}

// CreateExpense records expense
// 200 — расход записан;
// 400 — неверный формат запроса;
// 401 — пользователь не аутентифицирован;
// 403 — роль не позволяет записывать расходы;
// 500 — внутренняя ошибка сервера.
func (eh *ExpenseHandler) CreateExpense() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createExpenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Amount <= 0 || req.Category == "" {
			http.Error(w, "amount and category are required", http.StatusBadRequest)
			return
		}

		expense := models.Expense{
			Amount:   req.Amount,
			Category: req.Category,
			Comment:  req.Comment,
		}

		created, err := eh.svc.CreateExpense(r.Context(), *payload, &expense)
		if err != nil {
			if errors.Is(err, models.ErrRoleMismatch) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, newExpenseResponse(created))
	}
}

// ListExpenses returns organization expenses
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 403 — роль не позволяет просматривать расходы;
// 500 — внутренняя ошибка сервера.
func (eh *ExpenseHandler) ListExpenses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		expenses, err := eh.svc.ListExpenses(r.Context(), *payload)
		if err != nil {
			if errors.Is(err, models.ErrRoleMismatch) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := []expenseResponse{}
		for i := range expenses {
			resp = append(resp, newExpenseResponse(&expenses[i]))
		}

		writeJSON(w, resp)
	}
}
