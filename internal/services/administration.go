package services

import (
	"context"

	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/models"
	"geofence-bknd/internal/store"

	"go.uber.org/zap"
)

type AdministrationService struct {
	store store.Store
	logr  *logger.Logger
}

func NewAdministrationService(st store.Store, logr *logger.Logger) *AdministrationService {
	return &AdministrationService{store: st, logr: logr}
}

func (s *AdministrationService) Create(ctx context.Context, req models.CreateAdministrationRequest) (*models.Administration, error) {
	name, err := ValidateAdministrationInput(req)
	if err != nil {
		return nil, err
	}
	adm, err := s.store.CreateAdministration(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logr.Info("administration created", zap.Int64("administration_id", adm.ID), zap.String("name", adm.Name))
	return adm, nil
}

func (s *AdministrationService) Get(ctx context.Context, id int64) (*models.Administration, error) {
	return s.store.GetAdministration(ctx, id)
}

func (s *AdministrationService) List(ctx context.Context) ([]models.Administration, error) {
	return s.store.ListAdministrations(ctx)
}

// Delete removes the administration together with its users, zones and sweet spots.
func (s *AdministrationService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteAdministration(ctx, id); err != nil {
		return err
	}
	s.logr.Info("administration deleted", zap.Int64("administration_id", id))
	return nil
}
