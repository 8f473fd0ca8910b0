package handlers

import (
	"net/http"
	"strconv"

	"geofence-bknd/internal/services"

	"go.uber.org/zap"
)

type PoliceHandler struct {
	service *services.PoliceService
	logr    *zap.Logger
}

func NewPoliceHandler(svc *services.PoliceService, logr *zap.Logger) *PoliceHandler {
	return &PoliceHandler{service: svc, logr: logr}
}

// Nearest handles GET /nearest-police-stations/?lat=..&lon=..
func (h *PoliceHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lat"})
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lon"})
		return
	}

	stations, err := h.service.Nearest(r.Context(), lat, lon)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nearest_police_stations": stations})
}
