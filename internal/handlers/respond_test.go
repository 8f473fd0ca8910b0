package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"geofence-bknd/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteError_BodyByKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		key    string
		msg    string
	}{
		{"not found", apperr.NotFound("User not found"), http.StatusNotFound, "detail", "User not found"},
		{"validation", apperr.Validation("User name cannot be empty"), http.StatusBadRequest, "error", "User name cannot be empty"},
		{"provider", apperr.ExternalProvider(errors.New("status 500"), "Failed to fetch from Geoapify"), http.StatusBadGateway, "error", "Failed to fetch from Geoapify"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "error", "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, map[string]string{tt.key: tt.msg}, body)
		})
	}
}
