package services

import (
	"context"

	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/models"
	"geofence-bknd/internal/store"

	"go.uber.org/zap"
)

type ZoneService struct {
	store store.Store
	logr  *logger.Logger
}

func NewZoneService(st store.Store, logr *logger.Logger) *ZoneService {
	return &ZoneService{store: st, logr: logr}
}

func (s *ZoneService) Create(ctx context.Context, req models.CreateZoneRequest) (*models.ZoneResponse, error) {
	z, err := ValidateZoneInput(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetAdministration(ctx, req.AdministrationID); err != nil {
		return nil, err
	}
	if err := s.store.CreateZone(ctx, z); err != nil {
		return nil, err
	}

	s.logr.Info("zone created",
		zap.Int64("zone_id", z.ID),
		zap.Int64("administration_id", z.AdministrationID),
		zap.Bool("boundary", z.Boundary != nil),
		zap.Bool("danger_zone", z.DangerZone != nil),
		zap.Bool("path_zone", z.PathZone != nil))

	return &models.ZoneResponse{ID: z.ID, AdministrationID: z.AdministrationID, CreatedAt: z.CreatedAt}, nil
}

func (s *ZoneService) GetByAdministration(ctx context.Context, adminID int64) (*models.Zone, error) {
	return s.store.GetZoneByAdministration(ctx, adminID)
}

// Features renders the administration's zone geometries as a GeoJSON FeatureCollection.
func (s *ZoneService) Features(ctx context.Context, adminID int64) (*models.FeatureCollection, error) {
	if _, err := s.store.GetAdministration(ctx, adminID); err != nil {
		return nil, err
	}
	return s.store.ZoneFeatures(ctx, adminID)
}
