package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/metrics"
	"geofence-bknd/internal/models"
	"geofence-bknd/internal/sms"
	"geofence-bknd/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	StatusSent       = "sent"
	StatusNoContacts = "no_contacts"
)

type SOSOptions struct {
	From               string
	DefaultCountryCode string
	Concurrency        int
}

// SOSResult lists the numbers the provider accepted. Order is not guaranteed.
type SOSResult struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	SentTo  []string `json:"sent_to"`
}

type SOSService struct {
	store  store.Store
	sender sms.Sender
	opts   SOSOptions
	logr   *logger.Logger
}

func NewSOSService(st store.Store, sender sms.Sender, opts SOSOptions, logr *logger.Logger) *SOSService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if logr == nil {
		logr = logger.Nop()
	}
	return &SOSService{store: st, sender: sender, opts: opts, logr: logr}
}

// NotifyContacts texts every emergency contact of the reporting user. Each
// contact gets exactly one attempt; a failed contact is logged and skipped.
func (s *SOSService) NotifyContacts(ctx context.Context, report models.DeviceReport) (*SOSResult, error) {
	if err := ValidateDeviceReport(report); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, report.UserID)
	if err != nil {
		return nil, err
	}

	if len(user.EmergencyContacts) == 0 {
		return &SOSResult{Status: StatusNoContacts, Message: "No emergency contacts found", SentTo: []string{}}, nil
	}

	body := sosMessage(user, report)

	var (
		mu   sync.Mutex
		sent = make([]string, 0, len(user.EmergencyContacts))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for _, contact := range user.EmergencyContacts {
		to := sms.NormalizePhone(contact, s.opts.DefaultCountryCode)
		g.Go(func() error {
			if err := s.sender.Send(gctx, s.opts.From, to, body); err != nil {
				s.logr.Warn("sos sms failed",
					zap.Int64("user_id", user.ID),
					zap.String("to", to),
					zap.Error(err))
				metrics.SMSTotal.WithLabelValues("failed").Inc()
				return nil
			}
			metrics.SMSTotal.WithLabelValues("sent").Inc()
			mu.Lock()
			sent = append(sent, to)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.logr.Info("sos dispatched",
		zap.Int64("user_id", user.ID),
		zap.String("device_id", report.DeviceID),
		zap.Int("contacts", len(user.EmergencyContacts)),
		zap.Int("sent", len(sent)))

	return &SOSResult{Status: StatusSent, SentTo: sent}, nil
}

func sosMessage(user *models.User, report models.DeviceReport) string {
	return fmt.Sprintf("🚨 SOS Alert 🚨\nUser: %s\nDevice ID: %s\nLocation: %s\nTime: %s",
		user.Name, report.DeviceID, MapsLink(report.Lat, report.Lon), report.Time.Format(time.RFC3339))
}

// MapsLink renders a Google Maps link for a coordinate.
func MapsLink(lat, lon float64) string {
	return "https://www.google.com/maps?q=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}
