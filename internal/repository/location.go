package repository

import (
	"context"
	"time"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/floraworks/floraorders/internal/repository/postgres"
	"github.com/google/uuid"
)

const (
	insertLocationQuery = `
						INSERT INTO courier_locations (organization_id, courier_id, latitude, longitude)
						VALUES ($1, $2, $3, $4)
						RETURNING id, organization_id, courier_id, latitude, longitude, recorded_at
`
	selectLatestLocationsQuery = `
						SELECT DISTINCT ON (courier_id)
							id, organization_id, courier_id, latitude, longitude, recorded_at
						FROM courier_locations
						WHERE organization_id = $1
						ORDER BY courier_id, recorded_at DESC
`
	deleteStaleLocationsQuery = `
						DELETE FROM courier_locations
						WHERE recorded_at < $1
`
)

// LocationRepository implements LocationRepository interface
type LocationRepository struct {
	db *postgres.DB
}

// NewLocationRepository creates new location repository instance
func NewLocationRepository(db *postgres.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// CreateLocation records courier GPS ping
func (lr *LocationRepository) CreateLocation(ctx context.Context, loc *models.CourierLocation) (*models.CourierLocation, error) {
	err := lr.db.QueryRow(ctx, insertLocationQuery, loc.OrganizationID, loc.CourierID, loc.Latitude, loc.Longitude).
		Scan(&loc.ID, &loc.OrganizationID, &loc.CourierID, &loc.Latitude, &loc.Longitude, &loc.RecordedAt)
	if err != nil {
		return nil, err
	}

	return loc, nil
}

// GetLatestLocations returns the latest ping per courier in organization
func (lr *LocationRepository) GetLatestLocations(ctx context.Context, orgID uuid.UUID) ([]models.CourierLocation, error) {
	rows, err := lr.db.Query(ctx, selectLatestLocationsQuery, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []models.CourierLocation

	for rows.Next() {
		loc := models.CourierLocation{}
		err = rows.Scan(&loc.ID, &loc.OrganizationID, &loc.CourierID, &loc.Latitude, &loc.Longitude, &loc.RecordedAt)
		if err != nil {
			continue
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}

// DeleteStaleLocations removes pings recorded before the cutoff, returns removed count
func (lr *LocationRepository) DeleteStaleLocations(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := lr.db.Exec(ctx, deleteStaleLocationsQuery, cutoff)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}
