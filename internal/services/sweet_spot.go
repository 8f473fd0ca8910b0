package services

import (
	"context"

	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/models"
	"geofence-bknd/internal/store"

	"go.uber.org/zap"
)

type SweetSpotService struct {
	store store.Store
	logr  *logger.Logger
}

func NewSweetSpotService(st store.Store, logr *logger.Logger) *SweetSpotService {
	return &SweetSpotService{store: st, logr: logr}
}

func (s *SweetSpotService) Create(ctx context.Context, req models.CreateSweetSpotRequest) (*models.SweetSpot, error) {
	spot, err := ValidateSweetSpotInput(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetAdministration(ctx, req.AdminID); err != nil {
		return nil, err
	}
	if err := s.store.CreateSweetSpot(ctx, spot); err != nil {
		return nil, err
	}
	s.logr.Info("sweet spot created", zap.Int64("sweet_spot_id", spot.ID), zap.Int64("admin_id", spot.AdminID))
	return spot, nil
}

func (s *SweetSpotService) List(ctx context.Context, params models.SweetSpotQueryParams) ([]models.SweetSpot, error) {
	return s.store.ListSweetSpots(ctx, params)
}
