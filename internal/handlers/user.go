package handlers

import (
	"net/http"

	"geofence-bknd/internal/models"
	"geofence-bknd/internal/services"

	"go.uber.org/zap"
)

type UserHandler struct {
	service *services.UserService
	logr    *zap.Logger
}

func NewUserHandler(svc *services.UserService, logr *zap.Logger) *UserHandler {
	return &UserHandler{service: svc, logr: logr}
}

// Create handles POST /users/
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logr, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
