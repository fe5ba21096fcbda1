package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/floraworks/floraorders/internal/handler/http/mocks"
	"github.com/floraworks/floraorders/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func managerToken() *models.TokenPayload {
	return &models.TokenPayload{
		UserID:         uuid.New(),
		Role:           models.RoleManager,
		OrganizationID: testOrgID,
	}
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	created := models.Expense{
		ID:             uuid.New(),
		OrganizationID: testOrgID,
		Amount:         120,
		Category:       "flowers",
	}

	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockExpenseService
		wantStatusCode int
	}{
		{
			name:  "valid_request_return_200",
			token: managerToken(),
			body:  `{"amount":120,"category":"flowers"}`,
			setup: func(t *testing.T) *mocks.MockExpenseService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockExpenseService(ctrl)
				svcMock.EXPECT().CreateExpense(gomock.Any(), gomock.Any(), gomock.Any()).Return(&created, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "missing_category_return_400",
			token: managerToken(),
			body:  `{"amount":120}`,
			setup: func(t *testing.T) *mocks.MockExpenseService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockExpenseService(ctrl)
				svcMock.EXPECT().CreateExpense(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unauthorized_return_401",
			body: `{"amount":120,"category":"flowers"}`,
			setup: func(t *testing.T) *mocks.MockExpenseService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockExpenseService(ctrl)
				svcMock.EXPECT().CreateExpense(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:  "forbidden_role_return_403",
			token: floristToken(),
			body:  `{"amount":120,"category":"flowers"}`,
			setup: func(t *testing.T) *mocks.MockExpenseService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockExpenseService(ctrl)
				svcMock.EXPECT().CreateExpense(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrRoleMismatch).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(tt.body))
			require.NoError(t, err)

			ctx := req.Context()
			if tt.token != nil {
				ctx = context.WithValue(ctx, authPayloadKey, tt.token)
			}

			w := httptest.NewRecorder()
			st := tt.setup(t)

			h := NewExpenseHandler(st).CreateExpense()
			h(w, req.WithContext(ctx))

			res := w.Result()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			defer res.Body.Close()
		})
	}
}
