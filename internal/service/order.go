package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/floraworks/floraorders/internal/geo"
	"github.com/floraworks/floraorders/internal/logger"
	"github.com/floraworks/floraorders/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order by id within organization
	GetOrderByID(ctx context.Context, orgID, orderID uuid.UUID) (*models.Order, error)
	// GetOrders returns orders matching filter, newest delivery first
	GetOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	// ClaimFlorist atomically assigns florist to an unclaimed NEW order
	ClaimFlorist(ctx context.Context, orgID, orderID, floristID uuid.UUID) (*models.Order, error)
	// ClaimCourier atomically assigns courier to an unclaimed ASSEMBLED order
	ClaimCourier(ctx context.Context, orgID, orderID, courierID uuid.UUID) (*models.Order, error)
	// AssignStaff sets florist and/or courier directly
	AssignStaff(ctx context.Context, orgID, orderID uuid.UUID, floristID, courierID *uuid.UUID) (*models.Order, error)
	// UpdateStatus moves order between statuses, conditional on the current one
	UpdateStatus(ctx context.Context, orgID, orderID uuid.UUID, from, to string) (*models.Order, error)
	// GetOrderStats returns order counts by status and delivered revenue for a date range
	GetOrderStats(ctx context.Context, orgID uuid.UUID, from, to time.Time) (map[string]int64, float64, error)
}

// StaffRepository is interface for looking up staff members
type StaffRepository interface {
	// GetUserByID returns user by id within organization
	GetUserByID(ctx context.Context, orgID, userID uuid.UUID) (*models.User, error)
}

// Geocoder resolves delivery addresses to coordinates
type Geocoder interface {
	Resolve(ctx context.Context, address string) (*geo.Point, error)
}

// BatchAssignResult aggregates batch claim outcome
type BatchAssignResult struct {
	Assigned int
	Orders   []models.Order
}

// OrderService implements OrderService interface
type OrderService struct {
	repo     OrderRepository
	staff    StaffRepository
	geocoder Geocoder
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, staff StaffRepository, geocoder Geocoder) *OrderService {
	return &OrderService{
		repo:     repo,
		staff:    staff,
		geocoder: geocoder,
	}
}

// visibilityFilter maps caller identity and an optional status narrowing to
// the tenant-scoped order selection the caller is authorized to see.
// Owners and managers see the whole organization; florists and couriers see
// their own assignments plus the role's unclaimed pool.
func visibilityFilter(actor models.TokenPayload, statuses []string, availableOnly bool) models.OrderFilter {
	filter := models.OrderFilter{
		OrganizationID: actor.OrganizationID,
		Statuses:       statuses,
		AvailableOnly:  availableOnly,
	}

	switch actor.Role {
	case models.RoleFlorist, models.RoleCourier:
		filter.ClaimantRole = actor.Role
		filter.ClaimantID = actor.UserID
	}

	return filter
}

// parseStatusCsv splits a comma-separated status list. Unknown tokens are
// kept as-is and simply match no rows downstream.
func parseStatusCsv(statusCsv string) []string {
	if statusCsv == "" {
		return nil
	}

	var statuses []string
	for _, token := range strings.Split(statusCsv, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		statuses = append(statuses, token)
	}

	return statuses
}

// CreateOrder creates new unassigned order in caller's organization.
// Geocoding of the delivery address is best-effort and never fails creation.
func (os *OrderService) CreateOrder(ctx context.Context, actor models.TokenPayload, order *models.Order) (*models.Order, error) {
	if actor.Role != models.RoleOwner && actor.Role != models.RoleManager {
		return nil, models.ErrRoleMismatch
	}

	order.OrganizationID = actor.OrganizationID
	order.ManagerID = &actor.UserID
	order.Status = models.OrderStatusNew

	if os.geocoder != nil && order.Address != "" {
		point, err := os.geocoder.Resolve(ctx, order.Address)
		if err != nil {
			logger.Log.Debug("geocoding failed", zap.String("address", order.Address), zap.Error(err))
		} else {
			order.Latitude = &point.Latitude
			order.Longitude = &point.Longitude
		}
	}

	return os.repo.CreateOrder(ctx, order)
}

// ListOrders returns orders visible to caller, optionally narrowed by status csv
func (os *OrderService) ListOrders(ctx context.Context, actor models.TokenPayload, statusCsv string) ([]models.Order, error) {
	filter := visibilityFilter(actor, parseStatusCsv(statusCsv), false)
	return os.repo.GetOrders(ctx, filter)
}

// ListAvailableOrders returns the caller role's unclaimed pool
func (os *OrderService) ListAvailableOrders(ctx context.Context, actor models.TokenPayload) ([]models.Order, error) {
	if actor.Role != models.RoleFlorist && actor.Role != models.RoleCourier {
		return nil, models.ErrRoleMismatch
	}

	filter := visibilityFilter(actor, nil, true)
	return os.repo.GetOrders(ctx, filter)
}

// GetOrder returns a single order if it is visible to caller. An order the
// caller is not authorized to see is indistinguishable from a missing one.
func (os *OrderService) GetOrder(ctx context.Context, actor models.TokenPayload, orderID uuid.UUID) (*models.Order, error) {
	order, err := os.repo.GetOrderByID(ctx, actor.OrganizationID, orderID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleOwner, models.RoleManager:
		return order, nil
	case models.RoleFlorist, models.RoleCourier:
		if order.ClaimedBy(actor.Role, actor.UserID) || order.AvailableForClaim(actor.Role) {
			return order, nil
		}
	}

	return nil, models.ErrDataNotFound
}

// AssignSelf claims a single unassigned order for the caller.
// The claim is a single conditional update, so of N racing claimants exactly
// one succeeds. A zero-row update is re-read once to tell a missing order
// from a lost race, and to make re-claiming an already owned order a no-op.
func (os *OrderService) AssignSelf(ctx context.Context, actor models.TokenPayload, orderID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	var err error

	switch actor.Role {
	case models.RoleFlorist:
		order, err = os.repo.ClaimFlorist(ctx, actor.OrganizationID, orderID, actor.UserID)
	case models.RoleCourier:
		order, err = os.repo.ClaimCourier(ctx, actor.OrganizationID, orderID, actor.UserID)
	default:
		return nil, models.ErrRoleMismatch
	}

	if err == nil {
		logger.Log.Debug("order claimed",
			zap.String("order", orderID.String()),
			zap.String("user", actor.UserID.String()),
			zap.String("role", actor.Role))
		return order, nil
	}
	if !errors.Is(err, models.ErrDataNotFound) {
		return nil, err
	}

	cur, err := os.repo.GetOrderByID(ctx, actor.OrganizationID, orderID)
	if err != nil {
		return nil, err
	}

	if cur.ClaimedBy(actor.Role, actor.UserID) {
		return cur, nil
	}

	return nil, models.ErrAlreadyAssigned
}

// BatchAssign claims each order independently and aggregates successes.
// Per-order failures are expected between listing and submission and do not
// abort the batch.
func (os *OrderService) BatchAssign(ctx context.Context, actor models.TokenPayload, orderIDs []uuid.UUID) (*BatchAssignResult, error) {
	if actor.Role != models.RoleFlorist && actor.Role != models.RoleCourier {
		return nil, models.ErrRoleMismatch
	}
	if len(orderIDs) == 0 {
		return nil, models.ErrEmptyBatch
	}

	result := BatchAssignResult{Orders: []models.Order{}}

	for _, orderID := range orderIDs {
		order, err := os.AssignSelf(ctx, actor, orderID)
		if err != nil {
			logger.Log.Debug("batch claim failed",
				zap.String("order", orderID.String()),
				zap.Error(err))
			continue
		}
		result.Assigned++
		result.Orders = append(result.Orders, *order)
	}

	return &result, nil
}

// AssignStaff lets owner or manager set assignees directly.
// Each assignee must be an active staff member of the caller's organization
// holding the role matching the slot.
func (os *OrderService) AssignStaff(ctx context.Context, actor models.TokenPayload, orderID uuid.UUID, floristID, courierID *uuid.UUID) (*models.Order, error) {
	if actor.Role != models.RoleOwner && actor.Role != models.RoleManager {
		return nil, models.ErrRoleMismatch
	}

	if floristID != nil {
		if err := os.checkAssignee(ctx, actor.OrganizationID, *floristID, models.RoleFlorist); err != nil {
			return nil, err
		}
	}
	if courierID != nil {
		if err := os.checkAssignee(ctx, actor.OrganizationID, *courierID, models.RoleCourier); err != nil {
			return nil, err
		}
	}

	return os.repo.AssignStaff(ctx, actor.OrganizationID, orderID, floristID, courierID)
}

func (os *OrderService) checkAssignee(ctx context.Context, orgID, userID uuid.UUID, role string) error {
	user, err := os.staff.GetUserByID(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if user.Role != role {
		return models.ErrRoleMismatch
	}
	if !user.IsActive {
		return models.ErrInactiveUser
	}

	return nil
}

// UpdateStatus moves order along the lifecycle. Owners and managers may
// apply any allowed transition; florists and couriers only move their own
// orders through their stage of the flow.
func (os *OrderService) UpdateStatus(ctx context.Context, actor models.TokenPayload, orderID uuid.UUID, to string) (*models.Order, error) {
	if !models.IsOrderStatus(to) {
		return nil, models.ErrInvalidStatus
	}

	order, err := os.repo.GetOrderByID(ctx, actor.OrganizationID, orderID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleOwner, models.RoleManager:
	case models.RoleFlorist:
		if !order.ClaimedBy(actor.Role, actor.UserID) {
			return nil, models.ErrRoleMismatch
		}
		if to != models.OrderStatusInWork && to != models.OrderStatusAssembled {
			return nil, models.ErrRoleMismatch
		}
	case models.RoleCourier:
		if !order.ClaimedBy(actor.Role, actor.UserID) {
			return nil, models.ErrRoleMismatch
		}
		if to != models.OrderStatusOnDelivery && to != models.OrderStatusDelivered {
			return nil, models.ErrRoleMismatch
		}
	default:
		return nil, models.ErrRoleMismatch
	}

	if !models.CanTransition(order.Status, to) {
		return nil, models.ErrInvalidTransition
	}

	updated, err := os.repo.UpdateStatus(ctx, actor.OrganizationID, orderID, order.Status, to)
	if err != nil {
		// conditional update lost to a concurrent transition
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return updated, nil
}
