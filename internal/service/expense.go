package service

import (
	"context"
	"time"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/google/uuid"
)

// ExpenseRepository is interface for interacting with expense-related data
type ExpenseRepository interface {
	// CreateExpense creates new expense
	CreateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	// GetExpenses returns organization expenses
	GetExpenses(ctx context.Context, orgID uuid.UUID) ([]models.Expense, error)
	// GetExpenseTotal returns expense total for a date range
	GetExpenseTotal(ctx context.Context, orgID uuid.UUID, from, to time.Time) (float64, error)
}

// ExpenseService implements ExpenseService interface
type ExpenseService struct {
	repo ExpenseRepository
}

// NewExpenseService creates new ExpenseService instance
func NewExpenseService(repo ExpenseRepository) *ExpenseService {
	return &ExpenseService{repo: repo}
}

// CreateExpense records expense in caller's organization
func (es *ExpenseService) CreateExpense(ctx context.Context, actor models.TokenPayload, expense *models.Expense) (*models.Expense, error) {
	if actor.Role == models.RoleCourier {
		return nil, models.ErrRoleMismatch
	}

	expense.OrganizationID = actor.OrganizationID
	expense.UserID = actor.UserID

	return es.repo.CreateExpense(ctx, expense)
}

// ListExpenses returns caller organization's expenses
func (es *ExpenseService) ListExpenses(ctx context.Context, actor models.TokenPayload) ([]models.Expense, error) {
	if actor.Role != models.RoleOwner && actor.Role != models.RoleManager {
		return nil, models.ErrRoleMismatch
	}

	return es.repo.GetExpenses(ctx, actor.OrganizationID)
}
