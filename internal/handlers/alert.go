package handlers

import (
	"net/http"

	"geofence-bknd/internal/models"
	"geofence-bknd/internal/services"

	"go.uber.org/zap"
)

type AlertHandler struct {
	alerts *services.AlertService
	sos    *services.SOSService
	logr   *zap.Logger
}

func NewAlertHandler(alerts *services.AlertService, sos *services.SOSService, logr *zap.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, sos: sos, logr: logr}
}

// CheckPoint handles POST /check-point and returns the full evaluation.
func (h *AlertHandler) CheckPoint(w http.ResponseWriter, r *http.Request) {
	var req models.LocationReport
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.alerts.CheckPoint(r.Context(), req)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SendCoords handles POST /send_coords. Unsafe results are pushed to the dashboards.
func (h *AlertHandler) SendCoords(w http.ResponseWriter, r *http.Request) {
	var req models.LocationReport
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.alerts.HandleReport(r.Context(), req)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "processed", "alerts": res.Alerts})
}

// LatestCoords handles GET /latest-coords
func (h *AlertHandler) LatestCoords(w http.ResponseWriter, r *http.Request) {
	latest, ok := h.alerts.LatestReport()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No coordinates reported yet"})
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

// DeviceAlert handles POST /device-alert/ and texts the user's emergency contacts.
func (h *AlertHandler) DeviceAlert(w http.ResponseWriter, r *http.Request) {
	var req models.DeviceReport
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.sos.NotifyContacts(r.Context(), req)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
