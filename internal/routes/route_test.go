package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"geofence-bknd/internal/apperr"
	"geofence-bknd/internal/config"
	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/places"
	"geofence-bknd/internal/realtime"
	"geofence-bknd/internal/store"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) Send(_ context.Context, _, to, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

type fakePlaces struct {
	stations []places.Station
	err      error
}

func (f *fakePlaces) Nearby(context.Context, float64, float64) ([]places.Station, error) {
	return f.stations, f.err
}

type fixture struct {
	srv    *httptest.Server
	sender *fakeSender
	places *fakePlaces
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		AllowedOrigins:     []string{"*"},
		PathTolerance:      0.0001,
		WSPingInterval:     time.Minute,
		WSWriteTimeout:     time.Second,
		DefaultCountryCode: "+91",
		SMSConcurrency:     2,
	}
	f := &fixture{sender: &fakeSender{}, places: &fakePlaces{}}
	logr := logger.Nop()

	h := NewRouter(Deps{
		Store:    store.NewMemory(),
		Registry: realtime.NewRegistry(logr),
		SMS:      f.sender,
		Places:   f.places,
	}, cfg, logr)

	f.srv = httptest.NewServer(h)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (f *fixture) doList(t *testing.T, path string) (int, []map[string]any) {
	t.Helper()
	resp, err := f.srv.Client().Get(f.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// seedZoneA creates "Zone-A" with a user and a zone and returns their ids.
func (f *fixture) seedZoneA(t *testing.T) (adminID, userID int64) {
	t.Helper()
	code, adm := f.do(t, http.MethodPost, "/administrations/", map[string]any{"administration_name": "Zone-A"})
	require.Equal(t, http.StatusOK, code)
	adminID = int64(adm["administration_id"].(float64))

	code, user := f.do(t, http.MethodPost, "/users/", map[string]any{
		"user_name":          "asha",
		"administration_id":  adminID,
		"emergency_contacts": []any{"9876543210", map[string]any{"name": "mum", "phone": "+15550001111"}},
	})
	require.Equal(t, http.StatusOK, code)
	userID = int64(user["id"].(float64))

	code, _ = f.do(t, http.MethodPost, "/zones/", map[string]any{
		"administration_id": adminID,
		"boundary":          "POLYGON((-0.5 -0.5, 0.5 -0.5, 0.5 0.5, -0.5 0.5, -0.5 -0.5))",
		"danger_zone":       "MULTIPOLYGON(((0.4 0.4, 0.5 0.4, 0.5 0.5, 0.4 0.5, 0.4 0.4)))",
	})
	require.Equal(t, http.StatusOK, code)
	return adminID, userID
}

func coords(adminID, userID int64, name string, lat, lon float64) map[string]any {
	return map[string]any{
		"lat": lat, "lon": lon,
		"user_id": userID, "administration_id": adminID, "administration_name": name,
	}
}

func TestRouter_Healthz(t *testing.T) {
	f := newFixture(t)
	resp, err := f.srv.Client().Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_CheckPoint(t *testing.T) {
	f := newFixture(t)
	adminID, userID := f.seedZoneA(t)

	code, body := f.do(t, http.MethodPost, "/check-point", coords(adminID, userID, "Zone-A", 0.45, 0.45))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"INSIDE_DANGER_ZONE"}, body["alerts"])
	assert.Equal(t, map[string]any{"id": float64(adminID), "name": "Zone-A"}, body["administration"])
	assert.Equal(t, map[string]any{"id": float64(userID), "username": "asha"}, body["user"])
	assert.Equal(t, map[string]any{"lat": 0.45, "lon": 0.45}, body["coordinates"])

	code, body = f.do(t, http.MethodPost, "/check-point", coords(adminID, userID, "Zone-B", 0, 0))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Administration not found", body["detail"])
}

func TestRouter_SendCoordsPushesUnsafeOnly(t *testing.T) {
	f := newFixture(t)
	adminID, userID := f.seedZoneA(t)

	wsURL := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws/admin"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	// Wait for the handler to register the channel.
	time.Sleep(50 * time.Millisecond)

	code, body := f.do(t, http.MethodPost, "/send_coords", coords(adminID, userID, "Zone-A", 0, 0))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "processed", body["status"])
	assert.Equal(t, []any{"SAFE"}, body["alerts"])

	code, body = f.do(t, http.MethodPost, "/send_coords", coords(adminID, userID, "Zone-A", 2, 2))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"OUTSIDE_BOUNDARY"}, body["alerts"])

	// The first frame on the wire is the unsafe report; the safe one was never pushed.
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var pushed map[string]any
	require.NoError(t, ws.ReadJSON(&pushed))
	assert.Equal(t, []any{"OUTSIDE_BOUNDARY"}, pushed["alerts"])
	assert.Equal(t, map[string]any{"lat": 2.0, "lon": 2.0}, pushed["coordinates"])

	code, latest := f.do(t, http.MethodGet, "/latest-coords", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2.0, latest["lat"])
}

func TestRouter_DeviceAlert(t *testing.T) {
	f := newFixture(t)
	_, userID := f.seedZoneA(t)

	code, body := f.do(t, http.MethodPost, "/device-alert/", map[string]any{
		"lat": 12.97, "lon": 77.59, "user_id": userID, "device_id": "band-7", "time": "2024-05-01T10:00:00Z",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "sent", body["status"])
	assert.ElementsMatch(t, []any{"+919876543210", "+15550001111"}, body["sent_to"])

	code, body = f.do(t, http.MethodPost, "/device-alert/", map[string]any{
		"lat": 1, "lon": 1, "user_id": 999, "device_id": "x", "time": "2024-05-01T10:00:00Z",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body["detail"])
}

func TestRouter_DeviceAlertRejectsMalformedReport(t *testing.T) {
	f := newFixture(t)
	_, userID := f.seedZoneA(t)

	code, body := f.do(t, http.MethodPost, "/device-alert/", map[string]any{
		"lat": 999, "lon": -999, "user_id": userID, "device_id": "band-7", "time": "2024-05-01T10:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "lat must be within [-90, 90]", body["error"])

	code, body = f.do(t, http.MethodPost, "/device-alert/", map[string]any{"lat": 1, "lon": 1, "user_id": userID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "device_id is required", body["error"])
	assert.Empty(t, f.sender.sent)
}

func TestRouter_UserWithoutContacts(t *testing.T) {
	f := newFixture(t)
	adminID, _ := f.seedZoneA(t)

	code, user := f.do(t, http.MethodPost, "/users/", map[string]any{"user_name": "solo", "administration_id": adminID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, user["emergency_contacts"])

	code, body := f.do(t, http.MethodPost, "/device-alert/", map[string]any{
		"lat": 1, "lon": 1, "user_id": user["id"], "device_id": "band-7", "time": "2024-05-01T10:00:00Z",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "no_contacts", body["status"])
	assert.Empty(t, f.sender.sent)
}

func TestRouter_UserValidation(t *testing.T) {
	f := newFixture(t)
	adminID, _ := f.seedZoneA(t)

	code, body := f.do(t, http.MethodPost, "/users/", map[string]any{
		"user_name":          "too-many",
		"administration_id":  adminID,
		"emergency_contacts": []string{"1", "2", "3", "4"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Maximum 3 emergency contacts allowed", body["error"])
	assert.NotContains(t, body, "detail")

	code, _ = f.do(t, http.MethodPost, "/users/", map[string]any{"user_name": "   ", "administration_id": adminID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = f.do(t, http.MethodPost, "/users/", map[string]any{"user_name": "ghost", "administration_id": 999})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Administration not found", body["detail"])
}

func TestRouter_DeleteAdministrationCascades(t *testing.T) {
	f := newFixture(t)
	adminID, userID := f.seedZoneA(t)

	code, _ := f.do(t, http.MethodPost, "/sweet-spots/", map[string]any{"admin_id": adminID, "sweet_spot_name": "temple"})
	require.Equal(t, http.StatusOK, code)

	code, spots := f.doList(t, fmt.Sprintf("/sweet-spots/?admin_id=%d", adminID))
	require.Equal(t, http.StatusOK, code)
	require.Len(t, spots, 1)

	code, _ = f.do(t, http.MethodDelete, fmt.Sprintf("/administrations/%d", adminID), nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodGet, fmt.Sprintf("/users/%d", userID), nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.do(t, http.MethodGet, fmt.Sprintf("/zones/administration/%d", adminID), nil)
	assert.Equal(t, http.StatusNotFound, code)
	_, spots = f.doList(t, fmt.Sprintf("/sweet-spots/admin/%d", adminID))
	assert.Empty(t, spots)
}

func TestRouter_ZoneGeoJSON(t *testing.T) {
	f := newFixture(t)
	adminID, _ := f.seedZoneA(t)

	code, body := f.do(t, http.MethodGet, fmt.Sprintf("/zones/administration/%d/geojson", adminID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "FeatureCollection", body["type"])
	assert.EqualValues(t, 2, body["count"])
}

func TestRouter_PoliceStations(t *testing.T) {
	f := newFixture(t)
	f.places.stations = []places.Station{{Name: "Central", Lat: 12.9, Lon: 77.5, DistanceM: 420.0}}

	code, body := f.do(t, http.MethodGet, "/nearest-police-stations/?lat=12.97&lon=77.59", nil)
	require.Equal(t, http.StatusOK, code)
	stations := body["nearest_police_stations"].([]any)
	require.Len(t, stations, 1)
	assert.Equal(t, "Central", stations[0].(map[string]any)["name"])

	f.places.err = apperr.ExternalProvider(errors.New("status 500"), "Failed to fetch from Geoapify")
	code, body = f.do(t, http.MethodGet, "/nearest-police-stations/?lat=12.97&lon=77.59", nil)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "Failed to fetch from Geoapify", body["error"])

	code, _ = f.do(t, http.MethodGet, "/nearest-police-stations/?lat=abc&lon=77.59", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
