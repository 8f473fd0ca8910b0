package handlers

import (
	"net/http"

	"geofence-bknd/internal/models"
	"geofence-bknd/internal/services"

	"go.uber.org/zap"
)

type ZoneHandler struct {
	service *services.ZoneService
	logr    *zap.Logger
}

func NewZoneHandler(svc *services.ZoneService, logr *zap.Logger) *ZoneHandler {
	return &ZoneHandler{service: svc, logr: logr}
}

// Create handles POST /zones/ with WKT geometries.
func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateZoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ZoneHandler) GetByAdministration(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	z, err := h.service.GetByAdministration(r.Context(), id)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

// GeoJSON handles GET /zones/administration/{id}/geojson
func (h *ZoneHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	fc, err := h.service.Features(r.Context(), id)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}
