package store

import (
	"context"
	"testing"

	"geofence-bknd/internal/apperr"
	"geofence-bknd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func seed(t *testing.T, m *Memory, name string) (*models.Administration, *models.User) {
	t.Helper()
	ctx := context.Background()

	adm, err := m.CreateAdministration(ctx, name)
	require.NoError(t, err)

	u := &models.User{Name: "asha", AdministrationID: adm.ID, EmergencyContacts: []string{"9876543210"}}
	require.NoError(t, m.CreateUser(ctx, u))

	require.NoError(t, m.CreateZone(ctx, &models.Zone{
		AdministrationID: adm.ID,
		Boundary:         strp("POLYGON((-0.5 -0.5, 0.5 -0.5, 0.5 0.5, -0.5 0.5, -0.5 -0.5))"),
	}))
	require.NoError(t, m.CreateSweetSpot(ctx, &models.SweetSpot{AdminID: adm.ID, Name: "temple"}))

	return adm, u
}

func TestMemory_DeleteAdministrationCascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	adm, u := seed(t, m, "Zone-A")
	other, otherUser := seed(t, m, "Zone-B")

	require.NoError(t, m.DeleteAdministration(ctx, adm.ID))

	_, err := m.GetAdministration(ctx, adm.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
	_, err = m.GetUser(ctx, u.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
	_, err = m.GetZoneByAdministration(ctx, adm.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
	spots, err := m.ListSweetSpots(ctx, models.SweetSpotQueryParams{AdminIDs: []int64{adm.ID}})
	require.NoError(t, err)
	assert.Empty(t, spots)

	// The other administration is untouched.
	_, err = m.GetUser(ctx, otherUser.ID)
	assert.NoError(t, err)
	_, err = m.GetZoneByAdministration(ctx, other.ID)
	assert.NoError(t, err)

	assert.True(t, apperr.Is(m.DeleteAdministration(ctx, adm.ID), apperr.ErrNotFound))
}

func TestMemory_AdministrationDoubleKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	adm, _ := seed(t, m, "Zone-A")

	got, err := m.GetAdministrationByIDAndName(ctx, adm.ID, "Zone-A")
	require.NoError(t, err)
	assert.Equal(t, adm.ID, got.ID)

	_, err = m.GetAdministrationByIDAndName(ctx, adm.ID, "Zone-B")
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestMemory_UniqueNameAndForeignKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seed(t, m, "Zone-A")

	_, err := m.CreateAdministration(ctx, "Zone-A")
	assert.True(t, apperr.Is(err, apperr.ErrValidation))

	err = m.CreateUser(ctx, &models.User{Name: "ghost", AdministrationID: 999})
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
	err = m.CreateZone(ctx, &models.Zone{AdministrationID: 999})
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
	err = m.CreateSweetSpot(ctx, &models.SweetSpot{AdminID: 999, Name: "x"})
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestMemory_UserScopedToAdministration(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a, u := seed(t, m, "Zone-A")
	b, _ := seed(t, m, "Zone-B")

	_, err := m.GetUserInAdministration(ctx, u.ID, a.ID)
	assert.NoError(t, err)

	_, err = m.GetUserInAdministration(ctx, u.ID, b.ID)
	require.Error(t, err)
	assert.Equal(t, "User not found in this administration", apperr.Message(err))
}

func TestMemory_ZoneFeatures(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	adm, _ := seed(t, m, "Zone-A")

	fc, err := m.ZoneFeatures(ctx, adm.ID)
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Equal(t, 1, fc.Count)
	assert.Equal(t, "Polygon", fc.Features[0].Geometry["type"])
	assert.Equal(t, "boundary", fc.Features[0].Properties["kind"])
}

func TestMemory_UserWithoutContactsStoresEmptyList(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	adm, err := m.CreateAdministration(ctx, "Zone-A")
	require.NoError(t, err)

	u := &models.User{Name: "solo", AdministrationID: adm.ID}
	require.NoError(t, m.CreateUser(ctx, u))

	got, err := m.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.EmergencyContacts)
}
