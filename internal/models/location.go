package models

import (
	"time"

	"github.com/google/uuid"
)

// CourierLocation is a single courier GPS ping
type CourierLocation struct {
	ID             uint64
	OrganizationID uuid.UUID
	CourierID      uuid.UUID
	Latitude       float64
	Longitude      float64
	RecordedAt     time.Time
}
