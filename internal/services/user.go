package services

import (
	"context"

	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/models"
	"geofence-bknd/internal/store"

	"go.uber.org/zap"
)

type UserService struct {
	store store.Store
	logr  *logger.Logger
}

func NewUserService(st store.Store, logr *logger.Logger) *UserService {
	return &UserService{store: st, logr: logr}
}

// Create validates the request, checks the administration exists and persists the user.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	name, phones, err := ValidateUserInput(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetAdministration(ctx, req.AdministrationID); err != nil {
		return nil, err
	}

	u := &models.User{
		Name:              name,
		AdministrationID:  req.AdministrationID,
		RecentAlerts:      req.RecentAlerts,
		EmergencyContacts: phones,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logr.Info("user created",
		zap.Int64("user_id", u.ID),
		zap.Int64("administration_id", u.AdministrationID),
		zap.Int("contacts", len(u.EmergencyContacts)))
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}
