package models

import "errors"

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrAlreadyAssigned    = errors.New("order is already assigned")
	ErrRoleMismatch       = errors.New("role is not eligible for operation")
	ErrInvalidRole        = errors.New("unknown role")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidTransition  = errors.New("status transition is not allowed")
	ErrEmptyBatch         = errors.New("batch contains no order ids")
	ErrInternalError      = errors.New("internal error")
)
