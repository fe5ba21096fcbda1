package repository

import (
	"context"
	"time"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/floraworks/floraorders/internal/repository/postgres"
	"github.com/google/uuid"
)

const (
	insertExpenseQuery = `
						INSERT INTO expenses (organization_id, user_id, amount, category, comment)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING id, organization_id, user_id, amount, category, comment, created_at
`
	selectExpensesQuery = `
						SELECT id, organization_id, user_id, amount, category, comment, created_at FROM expenses
						WHERE organization_id = $1
						ORDER BY created_at DESC
`
	selectExpenseTotalQuery = `
						SELECT COALESCE(sum(amount), 0) FROM expenses
						WHERE organization_id = $1 AND created_at >= $2 AND created_at < $3
`
)

// ExpenseRepository implements ExpenseRepository interface
type ExpenseRepository struct {
	db *postgres.DB
}

// NewExpenseRepository creates new expense repository instance
func NewExpenseRepository(db *postgres.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// CreateExpense creates new expense
func (er *ExpenseRepository) CreateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	err := er.db.QueryRow(ctx, insertExpenseQuery,
		expense.OrganizationID, expense.UserID, expense.Amount, expense.Category, expense.Comment).
		Scan(&expense.ID, &expense.OrganizationID, &expense.UserID, &expense.Amount, &expense.Category, &expense.Comment, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// GetExpenses returns organization expenses, newest first
func (er *ExpenseRepository) GetExpenses(ctx context.Context, orgID uuid.UUID) ([]models.Expense, error) {
	rows, err := er.db.Query(ctx, selectExpensesQuery, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense

	for rows.Next() {
		expense := models.Expense{}
		err = rows.Scan(&expense.ID, &expense.OrganizationID, &expense.UserID, &expense.Amount, &expense.Category, &expense.Comment, &expense.CreatedAt)
		if err != nil {
			continue
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return expenses, nil
}

// GetExpenseTotal returns expense total for a date range
func (er *ExpenseRepository) GetExpenseTotal(ctx context.Context, orgID uuid.UUID, from, to time.Time) (float64, error) {
	var total float64
	if err := er.db.QueryRow(ctx, selectExpenseTotalQuery, orgID, from, to).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}
