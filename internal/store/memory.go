package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"geofence-bknd/internal/apperr"
	"geofence-bknd/internal/geofence"
	"geofence-bknd/internal/models"

	"github.com/twpayne/go-geom/encoding/geojson"
)

// Memory is a process-local Store. It mirrors the relational constraints of the
// Postgres schema (unique administration names, foreign keys, cascading deletes)
// and backs local runs without a database as well as service tests.
type Memory struct {
	mu sync.RWMutex

	nextID int64

	admins map[int64]models.Administration
	users  map[int64]models.User
	zones  map[int64]models.Zone
	spots  map[int64]models.SweetSpot
}

func NewMemory() *Memory {
	return &Memory{
		admins: make(map[int64]models.Administration),
		users:  make(map[int64]models.User),
		zones:  make(map[int64]models.Zone),
		spots:  make(map[int64]models.SweetSpot),
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) CreateAdministration(_ context.Context, name string) (*models.Administration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.admins {
		if a.Name == name {
			return nil, apperr.Validation("administration name already exists")
		}
	}
	adm := models.Administration{ID: m.id(), Name: name, CreatedAt: time.Now().UTC()}
	m.admins[adm.ID] = adm
	return &adm, nil
}

func (m *Memory) GetAdministration(_ context.Context, id int64) (*models.Administration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	adm, ok := m.admins[id]
	if !ok {
		return nil, apperr.NotFound("Administration not found")
	}
	return &adm, nil
}

func (m *Memory) GetAdministrationByIDAndName(_ context.Context, id int64, name string) (*models.Administration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	adm, ok := m.admins[id]
	if !ok || adm.Name != name {
		return nil, apperr.NotFound("Administration not found")
	}
	return &adm, nil
}

func (m *Memory) ListAdministrations(_ context.Context) ([]models.Administration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Administration, 0, len(m.admins))
	for _, a := range m.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) DeleteAdministration(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.admins[id]; !ok {
		return apperr.NotFound("Administration not found")
	}
	delete(m.admins, id)

	for uid, u := range m.users {
		if u.AdministrationID == id {
			delete(m.users, uid)
		}
	}
	for zid, z := range m.zones {
		if z.AdministrationID == id {
			delete(m.zones, zid)
		}
	}
	for sid, s := range m.spots {
		if s.AdminID == id {
			delete(m.spots, sid)
		}
	}
	return nil
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.admins[u.AdministrationID]; !ok {
		return apperr.NotFound("Administration not found")
	}
	now := time.Now().UTC()
	u.ID = m.id()
	u.CreatedAt = now
	u.UpdatedAt = now

	if u.EmergencyContacts == nil {
		u.EmergencyContacts = []string{}
	}
	stored := *u
	stored.EmergencyContacts = append([]string{}, u.EmergencyContacts...)
	m.users[u.ID] = stored
	return nil
}

func (m *Memory) GetUser(_ context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &u, nil
}

func (m *Memory) GetUserInAdministration(_ context.Context, userID, adminID int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok || u.AdministrationID != adminID {
		return nil, apperr.NotFound("User not found in this administration")
	}
	return &u, nil
}

func (m *Memory) CreateZone(_ context.Context, z *models.Zone) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.admins[z.AdministrationID]; !ok {
		return apperr.NotFound("Administration not found")
	}
	z.ID = m.id()
	z.CreatedAt = time.Now().UTC()
	m.zones[z.ID] = *z
	return nil
}

func (m *Memory) GetZoneByAdministration(_ context.Context, adminID int64) (*models.Zone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *models.Zone
	for _, z := range m.zones {
		if z.AdministrationID != adminID {
			continue
		}
		if found == nil || z.ID < found.ID {
			z := z
			found = &z
		}
	}
	if found == nil {
		return nil, apperr.NotFound("Zones not defined for this administration")
	}
	return found, nil
}

func (m *Memory) ZoneFeatures(_ context.Context, adminID int64) (*models.FeatureCollection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var zones []models.Zone
	for _, z := range m.zones {
		if z.AdministrationID == adminID {
			zones = append(zones, z)
		}
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })

	features := make([]models.Feature, 0, len(zones)*3)
	for _, z := range zones {
		for _, part := range []struct {
			kind  string
			gkind geofence.Kind
			wkt   *string
		}{
			{"boundary", geofence.KindPolygon, z.Boundary},
			{"danger_zone", geofence.KindMultiPolygon, z.DangerZone},
			{"path_zone", geofence.KindMultiLineString, z.PathZone},
		} {
			if part.wkt == nil {
				continue
			}
			geometry, err := wktToGeoJSON(part.gkind, *part.wkt)
			if err != nil {
				continue
			}
			features = append(features, models.Feature{
				ID:       z.ID,
				Type:     "Feature",
				Geometry: geometry,
				Properties: map[string]interface{}{
					"zone_id":           z.ID,
					"administration_id": adminID,
					"kind":              part.kind,
				},
			})
		}
	}

	return &models.FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
		Count:    len(features),
	}, nil
}

func (m *Memory) CreateSweetSpot(_ context.Context, s *models.SweetSpot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.admins[s.AdminID]; !ok {
		return apperr.NotFound("Administration not found")
	}
	s.ID = m.id()
	s.CreatedAt = time.Now().UTC()
	m.spots[s.ID] = *s
	return nil
}

func (m *Memory) ListSweetSpots(_ context.Context, params models.SweetSpotQueryParams) ([]models.SweetSpot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[int64]bool, len(params.AdminIDs))
	for _, id := range params.AdminIDs {
		wanted[id] = true
	}

	out := make([]models.SweetSpot, 0)
	for _, s := range m.spots {
		if len(wanted) > 0 && !wanted[s.AdminID] {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func wktToGeoJSON(kind geofence.Kind, text string) (map[string]interface{}, error) {
	g, err := geofence.ParseWKT(kind, text)
	if err != nil {
		return nil, err
	}
	b, err := geojson.Marshal(g)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
