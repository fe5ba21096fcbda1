package service

import (
	"context"
	"time"

	"github.com/floraworks/floraorders/internal/models"
)

// ReportService aggregates orders and expenses into summary reports
type ReportService struct {
	orders   OrderRepository
	expenses ExpenseRepository
}

// NewReportService creates new ReportService instance
func NewReportService(orders OrderRepository, expenses ExpenseRepository) *ReportService {
	return &ReportService{
		orders:   orders,
		expenses: expenses,
	}
}

// Summary returns org activity summary for a date range
func (rs *ReportService) Summary(ctx context.Context, actor models.TokenPayload, from, to time.Time) (*models.ReportSummary, error) {
	if actor.Role != models.RoleOwner && actor.Role != models.RoleManager {
		return nil, models.ErrRoleMismatch
	}

	counts, revenue, err := rs.orders.GetOrderStats(ctx, actor.OrganizationID, from, to)
	if err != nil {
		return nil, err
	}

	expenseTotal, err := rs.expenses.GetExpenseTotal(ctx, actor.OrganizationID, from, to)
	if err != nil {
		return nil, err
	}

	return &models.ReportSummary{
		OrdersByStatus: counts,
		Revenue:        revenue,
		ExpenseTotal:   expenseTotal,
	}, nil
}
