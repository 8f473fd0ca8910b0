package handlers

import (
	"net/http"

	"geofence-bknd/internal/models"
	"geofence-bknd/internal/services"

	"go.uber.org/zap"
)

type AdministrationHandler struct {
	service *services.AdministrationService
	logr    *zap.Logger
}

func NewAdministrationHandler(svc *services.AdministrationService, logr *zap.Logger) *AdministrationHandler {
	return &AdministrationHandler{service: svc, logr: logr}
}

// Create handles POST /administrations/
func (h *AdministrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdministrationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	adm, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, adm)
}

func (h *AdministrationHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	if admins == nil {
		admins = []models.Administration{}
	}
	writeJSON(w, http.StatusOK, admins)
}

func (h *AdministrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	adm, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, adm)
}

// Delete handles DELETE /administrations/{id}; users, zones and sweet spots go with it.
func (h *AdministrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "administration_id": id})
}
