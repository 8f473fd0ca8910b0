// Package store persists administrations, users, zones and sweet spots.
package store

import (
	"context"

	"geofence-bknd/internal/models"
)

// Store defines the persistence operations the geofence services rely on.
// Lookups that find nothing return an apperr.ErrNotFound error.
type Store interface {
	// CreateAdministration inserts a new administration with a unique name.
	CreateAdministration(ctx context.Context, name string) (*models.Administration, error)

	// GetAdministration retrieves an administration by id.
	GetAdministration(ctx context.Context, id int64) (*models.Administration, error)

	// GetAdministrationByIDAndName requires both keys to match.
	GetAdministrationByIDAndName(ctx context.Context, id int64, name string) (*models.Administration, error)

	// ListAdministrations returns every administration ordered by id.
	ListAdministrations(ctx context.Context) ([]models.Administration, error)

	// DeleteAdministration removes an administration; users, zones and sweet spots cascade.
	DeleteAdministration(ctx context.Context, id int64) error

	// CreateUser inserts a user. The administration must already exist.
	CreateUser(ctx context.Context, u *models.User) error

	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// GetUserInAdministration retrieves a user only if it belongs to the administration.
	GetUserInAdministration(ctx context.Context, userID, adminID int64) (*models.User, error)

	// CreateZone inserts a zone; geometry fields hold WKT.
	CreateZone(ctx context.Context, z *models.Zone) error

	// GetZoneByAdministration returns the administration's first zone with geometries as WKT.
	GetZoneByAdministration(ctx context.Context, adminID int64) (*models.Zone, error)

	// ZoneFeatures returns the administration's zone geometries as GeoJSON features.
	ZoneFeatures(ctx context.Context, adminID int64) (*models.FeatureCollection, error)

	// CreateSweetSpot inserts a sweet spot.
	CreateSweetSpot(ctx context.Context, s *models.SweetSpot) error

	// ListSweetSpots returns sweet spots, filtered by admin ids when any are given.
	ListSweetSpots(ctx context.Context, params models.SweetSpotQueryParams) ([]models.SweetSpot, error)
}
