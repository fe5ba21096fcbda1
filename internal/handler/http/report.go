package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/floraworks/floraorders/internal/models"
)

type ReportService interface {
	// Summary returns org activity summary for a date range
	Summary(ctx context.Context, actor models.TokenPayload, from, to time.Time) (*models.ReportSummary, error)
}

// ReportHandler represents HTTP handler for report requests
type ReportHandler struct {
	svc ReportService
}

// NewReportHandler creates new ReportHandler instance
func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type summaryResponse struct {
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	Revenue        float64          `json:"revenue"`
	ExpenseTotal   float64          `json:"expenseTotal"`
}

// Summary returns organization summary report
// 200 — успешная обработка запроса;
// 400 — неверный диапазон дат;
// 401 — пользователь не аутентифицирован;
// 403 — роль не позволяет просматривать отчёты;
// 500 — внутренняя ошибка сервера.
func (rh *ReportHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// default range is the last 30 days
		to := time.Now()
		from := to.AddDate(0, 0, -30)

		if raw := r.URL.Query().Get("from"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				http.Error(w, "invalid from date", http.StatusBadRequest)
				return
			}
			from = parsed
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				http.Error(w, "invalid to date", http.StatusBadRequest)
				return
			}
			to = parsed
		}

		if !from.Before(to) {
			http.Error(w, "invalid date range", http.StatusBadRequest)
			return
		}

		summary, err := rh.svc.Summary(r.Context(), *payload, from, to)
		if err != nil {
			if errors.Is(err, models.ErrRoleMismatch) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, summaryResponse{
			OrdersByStatus: summary.OrdersByStatus,
			Revenue:        summary.Revenue,
			ExpenseTotal:   summary.ExpenseTotal,
		})
	}
}
