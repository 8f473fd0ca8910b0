package services

import (
	"context"
	"sync"
	"time"

	"geofence-bknd/internal/geofence"
	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/metrics"
	"geofence-bknd/internal/models"
	"geofence-bknd/internal/realtime"
	"geofence-bknd/internal/store"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// broadcastTimeout bounds a single push to the live dashboards.
const broadcastTimeout = 5 * time.Second

// Broadcaster pushes a payload to every live subscriber.
type Broadcaster interface {
	Broadcast(ctx context.Context, payload any) realtime.BroadcastReport
}

type AdministrationRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CheckResult is the evaluated report. It is both the /check-point response
// and the payload pushed to subscribers.
type CheckResult struct {
	Administration AdministrationRef `json:"administration"`
	User           UserRef           `json:"user"`
	Coordinates    Coordinates       `json:"coordinates"`
	Alerts         geofence.Alerts   `json:"alerts"`
}

type AlertService struct {
	store       store.Store
	broadcaster Broadcaster
	tolerance   float64
	logr        *logger.Logger

	mu     sync.RWMutex
	latest *models.LocationReport
}

func NewAlertService(st store.Store, b Broadcaster, tolerance float64, logr *logger.Logger) *AlertService {
	if tolerance <= 0 {
		tolerance = geofence.DefaultPathTolerance
	}
	if logr == nil {
		logr = logger.Nop()
	}
	return &AlertService{store: st, broadcaster: b, tolerance: tolerance, logr: logr}
}

// CheckPoint resolves the administration by id and name, the user inside it
// and the administration's zone, then evaluates the coordinate.
func (s *AlertService) CheckPoint(ctx context.Context, report models.LocationReport) (*CheckResult, error) {
	if err := ValidateCoordinates(report.Lat, report.Lon); err != nil {
		return nil, err
	}

	adm, err := s.store.GetAdministrationByIDAndName(ctx, report.AdministrationID, report.AdministrationName)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserInAdministration(ctx, report.UserID, adm.ID)
	if err != nil {
		return nil, err
	}
	zone, err := s.store.GetZoneByAdministration(ctx, adm.ID)
	if err != nil {
		return nil, err
	}

	compiled, err := geofence.CompileZone(zone.Boundary, zone.DangerZone, zone.PathZone)
	if err != nil {
		return nil, eris.Wrapf(err, "compile zone %d", zone.ID)
	}

	alerts := geofence.Evaluate(geofence.Point{Lon: report.Lon, Lat: report.Lat}, compiled, s.tolerance)
	for _, a := range alerts {
		metrics.LocationChecksTotal.WithLabelValues(string(a)).Inc()
	}

	return &CheckResult{
		Administration: AdministrationRef{ID: adm.ID, Name: adm.Name},
		User:           UserRef{ID: user.ID, Username: user.Name},
		Coordinates:    Coordinates{Lat: report.Lat, Lon: report.Lon},
		Alerts:         alerts,
	}, nil
}

// HandleReport records the report as the latest coordinates, evaluates it and
// pushes the result to live subscribers unless it is exactly [SAFE].
func (s *AlertService) HandleReport(ctx context.Context, report models.LocationReport) (*CheckResult, error) {
	s.mu.Lock()
	r := report
	s.latest = &r
	s.mu.Unlock()

	res, err := s.CheckPoint(ctx, report)
	if err != nil {
		return nil, err
	}

	if res.Alerts.IsSafe() || s.broadcaster == nil {
		return res, nil
	}

	// The push outlives a client that hangs up right after posting.
	bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), broadcastTimeout)
	defer cancel()
	rep := s.broadcaster.Broadcast(bctx, res)

	s.logr.Info("alert broadcast",
		zap.Int64("administration_id", res.Administration.ID),
		zap.Int64("user_id", res.User.ID),
		zap.Any("alerts", res.Alerts),
		zap.Int("sent", len(rep.Sent)),
		zap.Int("failed", len(rep.Failed)))

	return res, nil
}

// LatestReport returns the most recent report submitted to HandleReport, if any.
func (s *AlertService) LatestReport() (models.LocationReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return models.LocationReport{}, false
	}
	return *s.latest, true
}
