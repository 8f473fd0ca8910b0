package handlers

import (
	"net/http"

	"geofence-bknd/internal/models"
	"geofence-bknd/internal/services"
	"geofence-bknd/internal/utils"

	"go.uber.org/zap"
)

type SweetSpotHandler struct {
	service *services.SweetSpotService
	logr    *zap.Logger
}

func NewSweetSpotHandler(svc *services.SweetSpotService, logr *zap.Logger) *SweetSpotHandler {
	return &SweetSpotHandler{service: svc, logr: logr}
}

func (h *SweetSpotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSweetSpotRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	spot, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

// List handles GET /sweet-spots/?admin_id=1,2
func (h *SweetSpotHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := utils.ParseQueryIDs(r.URL.Query(), "admin_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.list(w, r, models.SweetSpotQueryParams{AdminIDs: ids})
}

// ListByAdmin handles GET /sweet-spots/admin/{id}
func (h *SweetSpotHandler) ListByAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	h.list(w, r, models.SweetSpotQueryParams{AdminIDs: []int64{id}})
}

func (h *SweetSpotHandler) list(w http.ResponseWriter, r *http.Request, params models.SweetSpotQueryParams) {
	spots, err := h.service.List(r.Context(), params)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	if spots == nil {
		spots = []models.SweetSpot{}
	}
	writeJSON(w, http.StatusOK, spots)
}
