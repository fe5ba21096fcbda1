package service

import (
	"context"
	"time"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/google/uuid"
)

// LocationRepository is interface for interacting with courier location data
type LocationRepository interface {
	// CreateLocation records courier GPS ping
	CreateLocation(ctx context.Context, loc *models.CourierLocation) (*models.CourierLocation, error)
	// GetLatestLocations returns the latest ping per courier in organization
	GetLatestLocations(ctx context.Context, orgID uuid.UUID) ([]models.CourierLocation, error)
	// DeleteStaleLocations removes pings recorded before the cutoff
	DeleteStaleLocations(ctx context.Context, cutoff time.Time) (int64, error)
}

// LocationService implements LocationService interface
type LocationService struct {
	repo      LocationRepository
	retention time.Duration
}

// NewLocationService creates new LocationService instance
func NewLocationService(repo LocationRepository, retention time.Duration) *LocationService {
	return &LocationService{
		repo:      repo,
		retention: retention,
	}
}

// RecordLocation stores courier GPS ping
func (ls *LocationService) RecordLocation(ctx context.Context, actor models.TokenPayload, lat, lon float64) (*models.CourierLocation, error) {
	if actor.Role != models.RoleCourier {
		return nil, models.ErrRoleMismatch
	}

	loc := models.CourierLocation{
		OrganizationID: actor.OrganizationID,
		CourierID:      actor.UserID,
		Latitude:       lat,
		Longitude:      lon,
	}

	return ls.repo.CreateLocation(ctx, &loc)
}

// ListLatestLocations returns the latest ping per courier for the map view
func (ls *LocationService) ListLatestLocations(ctx context.Context, actor models.TokenPayload) ([]models.CourierLocation, error) {
	if actor.Role != models.RoleOwner && actor.Role != models.RoleManager {
		return nil, models.ErrRoleMismatch
	}

	return ls.repo.GetLatestLocations(ctx, actor.OrganizationID)
}

// PruneStaleLocations removes pings older than the retention window
func (ls *LocationService) PruneStaleLocations(ctx context.Context) (int64, error) {
	return ls.repo.DeleteStaleLocations(ctx, time.Now().Add(-ls.retention))
}
