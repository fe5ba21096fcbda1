package models

import (
	"time"

	"github.com/google/uuid"
)

// Expense is organization expense entity
type Expense struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Amount         float64
	Category       string
	Comment        string
	CreatedAt      time.Time
}

// ReportSummary aggregates organization activity over a date range
type ReportSummary struct {
	OrdersByStatus map[string]int64
	Revenue        float64
	ExpenseTotal   float64
}
