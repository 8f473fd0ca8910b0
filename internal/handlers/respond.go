package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"geofence-bknd/internal/apperr"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}

// writeError renders err with the status of its kind. Missing rows use a
// "detail" body; everything else uses "error".
func writeError(w http.ResponseWriter, logr *zap.Logger, err error) {
	status := apperr.Status(err)
	msg := apperr.Message(err)

	switch {
	case status >= http.StatusInternalServerError && status != http.StatusBadGateway:
		logr.Error("request failed", zap.Error(err))
	case status == http.StatusBadGateway:
		logr.Warn("provider failed", zap.Error(err))
	}

	if status == http.StatusNotFound {
		writeJSON(w, status, map[string]string{"detail": msg})
		return
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
