package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/floraworks/floraorders/internal/models"
)

type UserService interface {
	// Register creates new organization with its owner account and returns auth token
	Register(ctx context.Context, login, password, orgName string) (string, error)
	// CreateStaff creates staff account within caller's organization
	CreateStaff(ctx context.Context, actor models.TokenPayload, login, password, role string) (*models.User, error)
	// Login authenticates user and returns auth token
	Login(ctx context.Context, login, password string) (string, error)
}

// UserHandler represents HTTP handler for auth and staff requests
type UserHandler struct {
	svc UserService
}

// NewUserHandler creates new UserHandler instance
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerRequest struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register registers new organization and its owner
// 200 — организация и владелец зарегистрированы;
// 400 — неверный формат запроса;
// 409 — логин уже занят;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Login == "" || req.Password == "" || req.Organization == "" {
			http.Error(w, "login, password and organization are required", http.StatusBadRequest)
			return
		}

		token, err := uh.svc.Register(r.Context(), req.Login, req.Password, req.Organization)
		if err != nil {
			if errors.Is(err, models.ErrConflictData) {
				http.Error(w, "login is already taken", http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, tokenResponse{Token: token})
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login authenticates user
// 200 — пользователь аутентифицирован;
// 400 — неверный формат запроса;
// 401 — неверная пара логин/пароль или пользователь деактивирован;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		token, err := uh.svc.Login(r.Context(), req.Login, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrInactiveUser):
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, tokenResponse{Token: token})
	}
}

type createStaffRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type staffResponse struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

// CreateStaff creates staff account within caller's organization
// 200 — сотрудник создан;
// 400 — неверный формат запроса или неизвестная роль;
// 401 — пользователь не аутентифицирован;
// 403 — роль не позволяет создавать сотрудников;
// 409 — логин уже занят;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) CreateStaff() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Login == "" || req.Password == "" {
			http.Error(w, "login and password are required", http.StatusBadRequest)
			return
		}

		user, err := uh.svc.CreateStaff(r.Context(), *payload, req.Login, req.Password, req.Role)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrRoleMismatch):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, models.ErrInvalidRole):
				http.Error(w, "unknown role", http.StatusBadRequest)
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "login is already taken", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, staffResponse{
			ID:        user.ID.String(),
			Login:     user.Login,
			Role:      user.Role,
			IsActive:  user.IsActive,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		})
	}
}
