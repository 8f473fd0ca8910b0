package services

import (
	"fmt"
	"math"
	"strings"

	"geofence-bknd/internal/apperr"
	"geofence-bknd/internal/geofence"
	"geofence-bknd/internal/models"
)

// ValidateUserInput rejects a user before anything is persisted. It returns the
// trimmed name and the contacts reduced to phone numbers.
func ValidateUserInput(req models.CreateUserRequest) (string, []string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", nil, apperr.Validation("User name cannot be empty")
	}
	if len(req.EmergencyContacts) > models.MaxEmergencyContacts {
		return "", nil, apperr.Validation(fmt.Sprintf("Maximum %d emergency contacts allowed", models.MaxEmergencyContacts))
	}
	if req.AdministrationID <= 0 {
		return "", nil, apperr.Validation("administration_id is required")
	}

	phones := req.Phones()
	if phones == nil {
		phones = []string{}
	}
	for i, p := range phones {
		if p == "" {
			return "", nil, apperr.Validation(fmt.Sprintf("emergency contact %d has no phone number", i+1))
		}
	}
	return name, phones, nil
}

// ValidateAdministrationInput returns the trimmed administration name.
func ValidateAdministrationInput(req models.CreateAdministrationRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", apperr.Validation("Administration name cannot be empty")
	}
	return name, nil
}

// ValidateZoneInput checks every supplied WKT against its column type and returns
// the zone with geometries in canonical form.
func ValidateZoneInput(req models.CreateZoneRequest) (*models.Zone, error) {
	if req.AdministrationID <= 0 {
		return nil, apperr.Validation("administration_id is required")
	}

	boundary, err := geofence.NormalizeWKT(geofence.KindPolygon, req.Boundary)
	if err != nil {
		return nil, fieldErr("boundary", err)
	}
	danger, err := geofence.NormalizeWKT(geofence.KindMultiPolygon, req.DangerZone)
	if err != nil {
		return nil, fieldErr("danger_zone", err)
	}
	path, err := geofence.NormalizeWKT(geofence.KindMultiLineString, req.PathZone)
	if err != nil {
		return nil, fieldErr("path_zone", err)
	}

	return &models.Zone{
		AdministrationID: req.AdministrationID,
		Boundary:         boundary,
		DangerZone:       danger,
		PathZone:         path,
	}, nil
}

// ValidateSweetSpotInput checks the name and the optional polygon.
func ValidateSweetSpotInput(req models.CreateSweetSpotRequest) (*models.SweetSpot, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Sweet spot name cannot be empty")
	}
	if req.AdminID <= 0 {
		return nil, apperr.Validation("admin_id is required")
	}
	zone, err := geofence.NormalizeWKT(geofence.KindPolygon, req.Zone)
	if err != nil {
		return nil, fieldErr("sweet_spot_zone", err)
	}
	return &models.SweetSpot{AdminID: req.AdminID, Name: name, Zone: zone}, nil
}

// ValidateCoordinates checks WGS-84 ranges.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return apperr.Validation("coordinates must be numbers")
	}
	if lat < -90 || lat > 90 {
		return apperr.Validation("lat must be within [-90, 90]")
	}
	if lon < -180 || lon > 180 {
		return apperr.Validation("lon must be within [-180, 180]")
	}
	return nil
}

// ValidateDeviceReport requires every field of an SOS report.
func ValidateDeviceReport(r models.DeviceReport) error {
	if r.UserID <= 0 {
		return apperr.Validation("user_id is required")
	}
	if strings.TrimSpace(r.DeviceID) == "" {
		return apperr.Validation("device_id is required")
	}
	if r.Time.IsZero() {
		return apperr.Validation("time is required")
	}
	return ValidateCoordinates(r.Lat, r.Lon)
}

func fieldErr(field string, err error) error {
	return apperr.Validation(fmt.Sprintf("%s: %s", field, apperr.Message(err)))
}
