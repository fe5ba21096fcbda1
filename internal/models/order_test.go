package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{OrderStatusNew, OrderStatusInWork, true},
		{OrderStatusInWork, OrderStatusAssembled, true},
		{OrderStatusAssembled, OrderStatusOnDelivery, true},
		{OrderStatusOnDelivery, OrderStatusDelivered, true},
		{OrderStatusNew, OrderStatusAssembled, false},
		{OrderStatusDelivered, OrderStatusOnDelivery, false},
		{OrderStatusNew, OrderStatusCanceled, true},
		{OrderStatusOnDelivery, OrderStatusCanceled, true},
		{OrderStatusDelivered, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusNew, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOrder_AvailableForClaim(t *testing.T) {
	userID := uuid.New()

	unclaimedNew := Order{Status: OrderStatusNew}
	assert.True(t, unclaimedNew.AvailableForClaim(RoleFlorist))
	assert.False(t, unclaimedNew.AvailableForClaim(RoleCourier))

	claimedNew := Order{Status: OrderStatusNew, FloristID: &userID}
	assert.False(t, claimedNew.AvailableForClaim(RoleFlorist))

	unclaimedAssembled := Order{Status: OrderStatusAssembled}
	assert.False(t, unclaimedAssembled.AvailableForClaim(RoleFlorist))
	assert.True(t, unclaimedAssembled.AvailableForClaim(RoleCourier))

	// owners and managers have no claim pool
	assert.False(t, unclaimedNew.AvailableForClaim(RoleOwner))
	assert.False(t, unclaimedNew.AvailableForClaim(RoleManager))
}

func TestOrder_ClaimedBy(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()

	order := Order{Status: OrderStatusInWork, FloristID: &userID}
	assert.True(t, order.ClaimedBy(RoleFlorist, userID))
	assert.False(t, order.ClaimedBy(RoleFlorist, otherID))
	assert.False(t, order.ClaimedBy(RoleCourier, userID))
}
