package models

import (
	"time"

	"github.com/google/uuid"
)

// order status
const (
	OrderStatusNew        = "NEW"
	OrderStatusInWork     = "IN_WORK"
	OrderStatusAssembled  = "ASSEMBLED"
	OrderStatusOnDelivery = "ON_DELIVERY"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCanceled   = "CANCELED"
)

// Order is order entity
type Order struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	CustomerName   string
	CustomerPhone  string
	Address        string
	Description    string
	Status         string
	Price          float64
	FloristID      *uuid.UUID
	CourierID      *uuid.UUID
	ManagerID      *uuid.UUID
	Latitude       *float64
	Longitude      *float64
	DeliveryAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderFilter is a tenant-scoped selection of orders. Claimant fields narrow
// the result to the claimant's own assignments plus the role's unclaimed
// pool; AvailableOnly keeps the unclaimed pool alone.
type OrderFilter struct {
	OrganizationID uuid.UUID
	Statuses       []string
	ClaimantRole   string
	ClaimantID     uuid.UUID
	AvailableOnly  bool
}

// IsTerminalStatus reports whether status is DELIVERED or CANCELED.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCanceled
}

// IsOrderStatus reports whether status is a known order status.
func IsOrderStatus(status string) bool {
	switch status {
	case OrderStatusNew, OrderStatusInWork, OrderStatusAssembled,
		OrderStatusOnDelivery, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// nextStatus maps each status to the next one in the normal flow.
var nextStatus = map[string]string{
	OrderStatusNew:        OrderStatusInWork,
	OrderStatusInWork:     OrderStatusAssembled,
	OrderStatusAssembled:  OrderStatusOnDelivery,
	OrderStatusOnDelivery: OrderStatusDelivered,
}

// CanTransition reports whether an order may move from one status to another.
// The normal flow is forward-moving one step at a time; CANCELED is reachable
// from any non-terminal status.
func CanTransition(from, to string) bool {
	if to == OrderStatusCanceled {
		return !IsTerminalStatus(from)
	}
	return nextStatus[from] == to
}

// AvailableForClaim reports whether the order belongs to the unclaimed pool
// for the given role: unassigned NEW for florists, unassigned ASSEMBLED for
// couriers.
func (o *Order) AvailableForClaim(role string) bool {
	switch role {
	case RoleFlorist:
		return o.Status == OrderStatusNew && o.FloristID == nil
	case RoleCourier:
		return o.Status == OrderStatusAssembled && o.CourierID == nil
	}
	return false
}

// ClaimedBy reports whether userID already holds the role's assignment slot.
func (o *Order) ClaimedBy(role string, userID uuid.UUID) bool {
	switch role {
	case RoleFlorist:
		return o.FloristID != nil && *o.FloristID == userID
	case RoleCourier:
		return o.CourierID != nil && *o.CourierID == userID
	}
	return false
}
