package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/floraworks/floraorders/internal/models"
)

type LocationService interface {
	// RecordLocation stores courier GPS ping
	RecordLocation(ctx context.Context, actor models.TokenPayload, lat, lon float64) (*models.CourierLocation, error)
	// ListLatestLocations returns the latest ping per courier
	ListLatestLocations(ctx context.Context, actor models.TokenPayload) ([]models.CourierLocation, error)
}

// LocationHandler represents HTTP handler for courier location requests
type LocationHandler struct {
	svc LocationService
}

// NewLocationHandler creates new LocationHandler instance
func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{svc: svc}
}

type recordLocationRequest struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

type locationResponse struct {
	CourierID  string  `json:"courierId"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	RecordedAt string  `json:"recordedAt"`
}

func newLocationResponse(loc *models.CourierLocation) locationResponse {
	return locationResponse{
		CourierID:  loc.CourierID.String(),
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		RecordedAt: loc.RecordedAt.Format(time.RFC3339),
	}
}

// RecordLocation stores courier GPS ping
// 200 — координаты записаны;
// 400 — неверный формат запроса;
// 401 — пользователь не аутентифицирован;
// 403 — запись координат доступна только курьерам;
// 500 — внутренняя ошибка сервера.
func (lh *LocationHandler) RecordLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req recordLocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
			http.Error(w, "invalid coordinates", http.StatusBadRequest)
			return
		}

		loc, err := lh.svc.RecordLocation(r.Context(), *payload, req.Latitude, req.Longitude)
		if err != nil {
			if errors.Is(err, models.ErrRoleMismatch) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, newLocationResponse(loc))
	}
}

// ListLatestLocations returns the latest ping per courier for the map view
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 403 — просмотр координат доступен владельцу и менеджеру;
// 500 — внутренняя ошибка сервера.
func (lh *LocationHandler) ListLatestLocations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		locations, err := lh.svc.ListLatestLocations(r.Context(), *payload)
		if err != nil {
			if errors.Is(err, models.ErrRoleMismatch) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := []locationResponse{}
		for i := range locations {
			resp = append(resp, newLocationResponse(&locations[i]))
		}

		writeJSON(w, resp)
	}
}
