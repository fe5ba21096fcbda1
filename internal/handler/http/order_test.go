package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/floraworks/floraorders/internal/handler/http/mocks"
	"github.com/floraworks/floraorders/internal/models"
	"github.com/floraworks/floraorders/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testOrderID   = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	testFloristID = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")
	testOrgID     = uuid.MustParse("6ba7b812-9dad-11d1-80b4-00c04fd430c8")
)

func floristToken() *models.TokenPayload {
	return &models.TokenPayload{
		UserID:         testFloristID,
		Role:           models.RoleFlorist,
		OrganizationID: testOrgID,
	}
}

// withURLParam puts a chi route parameter into the request context
func withURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func TestOrderHandler_AssignSelf(t *testing.T) {
	claimed := models.Order{
		ID:             testOrderID,
		OrganizationID: testOrgID,
		Status:         models.OrderStatusNew,
		FloristID:      &testFloristID,
		DeliveryAt:     time.Now(),
	}

	tests := []struct {
		name           string
		token          *models.TokenPayload
		orderID        string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
	}{
		{
			name:    "claim_succeeds_return_200",
			token:   floristToken(),
			orderID: testOrderID.String(),
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AssignSelf(gomock.Any(), gomock.Any(), testOrderID).Return(&claimed, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:    "unauthorized_return_401",
			orderID: testOrderID.String(),
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AssignSelf(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:    "invalid_order_id_return_400",
			token:   floristToken(),
			orderID: "not-a-uuid",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AssignSelf(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "role_mismatch_return_403",
			token:   floristToken(),
			orderID: testOrderID.String(),
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AssignSelf(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrRoleMismatch).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:    "order_not_found_return_404",
			token:   floristToken(),
			orderID: testOrderID.String(),
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AssignSelf(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrDataNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:    "lost_claim_race_return_409",
			token:   floristToken(),
			orderID: testOrderID.String(),
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AssignSelf(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrAlreadyAssigned).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:    "internal_error_return_500",
			token:   floristToken(),
			orderID: testOrderID.String(),
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().AssignSelf(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/orders/"+tt.orderID+"/assign-self", nil)
			require.NoError(t, err)

			ctx := withURLParam(req.Context(), "id", tt.orderID)
			if tt.token != nil {
				ctx = context.WithValue(ctx, authPayloadKey, tt.token)
			}

			w := httptest.NewRecorder()
			st := tt.setup(t)

			h := NewOrderHandler(st).AssignSelf()
			h(w, req.WithContext(ctx))

			res := w.Result()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			defer res.Body.Close()
		})
	}
}

func TestOrderHandler_BatchAssign(t *testing.T) {
	first := models.Order{ID: testOrderID, OrganizationID: testOrgID, Status: models.OrderStatusNew, FloristID: &testFloristID}

	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantAssigned   int
	}{
		{
			name:  "partial_success_return_200",
			token: floristToken(),
			body:  `{"orderIds":["` + testOrderID.String() + `","6ba7b813-9dad-11d1-80b4-00c04fd430c8"]}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().BatchAssign(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&service.BatchAssignResult{Assigned: 1, Orders: []models.Order{first}}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantAssigned:   1,
		},
		{
			name:  "empty_batch_return_400",
			token: floristToken(),
			body:  `{"orderIds":[]}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().BatchAssign(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrEmptyBatch).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:  "malformed_body_return_400",
			token: floristToken(),
			body:  `{"orderIds":`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().BatchAssign(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:  "invalid_order_id_return_400",
			token: floristToken(),
			body:  `{"orderIds":["not-a-uuid"]}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().BatchAssign(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unauthorized_return_401",
			body: `{"orderIds":["` + testOrderID.String() + `"]}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().BatchAssign(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/orders/batch-assign", strings.NewReader(tt.body))
			require.NoError(t, err)

			ctx := req.Context()
			if tt.token != nil {
				ctx = context.WithValue(ctx, authPayloadKey, tt.token)
			}

			w := httptest.NewRecorder()
			st := tt.setup(t)

			h := NewOrderHandler(st).BatchAssign()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if res.StatusCode == http.StatusOK {
				var resp batchAssignResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
				assert.Equal(t, tt.wantAssigned, resp.Assigned)
				assert.Len(t, resp.Orders, tt.wantAssigned)
			}
		})
	}
}

func TestOrderHandler_ListOrders(t *testing.T) {
	deliveryAt := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{
			ID:             testOrderID,
			OrganizationID: testOrgID,
			CustomerName:   "Anna",
			Status:         models.OrderStatusNew,
			Price:          45.5,
			DeliveryAt:     deliveryAt,
			CreatedAt:      deliveryAt.Add(-24 * time.Hour),
		},
	}
	wantBody := []orderResponse{
		{
			ID:           testOrderID.String(),
			Status:       models.OrderStatusNew,
			CustomerName: "Anna",
			Price:        45.5,
			DeliveryAt:   deliveryAt.Format(time.RFC3339),
			CreatedAt:    deliveryAt.Add(-24 * time.Hour).Format(time.RFC3339),
		},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockOrderService(ctrl)
	svcMock.EXPECT().ListOrders(gomock.Any(), gomock.Any(), "NEW,IN_WORK").Return(orders, nil).Times(1)

	req, err := http.NewRequest(http.MethodGet, "/api/orders?status=NEW,IN_WORK", nil)
	require.NoError(t, err)

	ctx := context.WithValue(req.Context(), authPayloadKey, floristToken())

	w := httptest.NewRecorder()
	h := NewOrderHandler(svcMock).ListOrders()
	h(w, req.WithContext(ctx))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var gotBody []orderResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&gotBody))

	if diff := cmp.Diff(wantBody, gotBody); diff != "" {
		t.Errorf("unexpected body (-want +got):\n%s", diff)
	}
}
