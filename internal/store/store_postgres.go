package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"geofence-bknd/internal/apperr"
	"geofence-bknd/internal/models"

	"github.com/rotisserie/eris"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Postgres-side error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Postgres implements Store on PostGIS through Bun.
type Postgres struct {
	db *bun.DB
}

// NewPostgres creates a new Postgres store
func NewPostgres(db *bun.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

func (s *Postgres) CreateAdministration(ctx context.Context, name string) (*models.Administration, error) {
	adm := &models.Administration{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.db.NewInsert().Model(adm).Exec(ctx); err != nil {
		if pgCode(err) == codeUniqueViolation {
			return nil, apperr.Validation("administration name already exists")
		}
		return nil, eris.Wrap(err, "store: insert administration")
	}
	return adm, nil
}

func (s *Postgres) GetAdministration(ctx context.Context, id int64) (*models.Administration, error) {
	adm := new(models.Administration)
	err := s.db.NewSelect().
		Model(adm).
		Where("adm.administration_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, "Administration not found", "store: select administration")
	}
	return adm, nil
}

func (s *Postgres) GetAdministrationByIDAndName(ctx context.Context, id int64, name string) (*models.Administration, error) {
	adm := new(models.Administration)
	err := s.db.NewSelect().
		Model(adm).
		Where("adm.administration_id = ?", id).
		Where("adm.administration_name = ?", name).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, "Administration not found", "store: select administration by id and name")
	}
	return adm, nil
}

func (s *Postgres) ListAdministrations(ctx context.Context) ([]models.Administration, error) {
	var admins []models.Administration
	err := s.db.NewSelect().
		Model(&admins).
		OrderExpr("adm.administration_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "store: list administrations")
	}
	return admins, nil
}

func (s *Postgres) DeleteAdministration(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*models.Administration)(nil)).
		Where("administration_id = ?", id).
		Exec(ctx)
	if err != nil {
		return eris.Wrap(err, "store: delete administration")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("Administration not found")
	}
	return nil
}

func (s *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.insertUserQuery(u).Exec(ctx); err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return apperr.NotFound("Administration not found")
		}
		return eris.Wrap(err, "store: insert user")
	}
	return nil
}

// insertUserQuery stores a missing contact list as an empty jsonb array. A nil
// slice would otherwise be encoded as the jsonb scalar null.
func (s *Postgres) insertUserQuery(u *models.User) *bun.InsertQuery {
	if u.EmergencyContacts == nil {
		u.EmergencyContacts = []string{}
	}
	return s.db.NewInsert().Model(u)
}

func (s *Postgres) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := new(models.User)
	err := s.db.NewSelect().
		Model(u).
		Where("u.user_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, "User not found", "store: select user")
	}
	return u, nil
}

func (s *Postgres) GetUserInAdministration(ctx context.Context, userID, adminID int64) (*models.User, error) {
	u := new(models.User)
	err := s.db.NewSelect().
		Model(u).
		Where("u.user_id = ?", userID).
		Where("u.administration_id = ?", adminID).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, "User not found in this administration", "store: select user in administration")
	}
	return u, nil
}

func (s *Postgres) CreateZone(ctx context.Context, z *models.Zone) error {
	z.CreatedAt = time.Now().UTC()

	q := s.db.NewInsert().Model(z)
	if z.Boundary != nil {
		q = q.Value("boundary", "ST_GeomFromText(?, 4326)", *z.Boundary)
	}
	if z.DangerZone != nil {
		q = q.Value("danger_zone", "ST_GeomFromText(?, 4326)", *z.DangerZone)
	}
	if z.PathZone != nil {
		q = q.Value("path_zone", "ST_GeomFromText(?, 4326)", *z.PathZone)
	}

	if _, err := q.Returning("id").Exec(ctx); err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return apperr.NotFound("Administration not found")
		}
		return eris.Wrap(err, "store: insert zone")
	}
	return nil
}

func (s *Postgres) GetZoneByAdministration(ctx context.Context, adminID int64) (*models.Zone, error) {
	z := new(models.Zone)
	err := s.db.NewSelect().
		Model(z).
		Column("z.id", "z.administration_id", "z.created_at").
		ColumnExpr("ST_AsText(z.boundary) AS boundary").
		ColumnExpr("ST_AsText(z.danger_zone) AS danger_zone").
		ColumnExpr("ST_AsText(z.path_zone) AS path_zone").
		Where("z.administration_id = ?", adminID).
		OrderExpr("z.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, "Zones not defined for this administration", "store: select zone")
	}
	return z, nil
}

func (s *Postgres) ZoneFeatures(ctx context.Context, adminID int64) (*models.FeatureCollection, error) {
	var rows []struct {
		ID         int64   `bun:"id"`
		Boundary   *string `bun:"boundary"`
		DangerZone *string `bun:"danger_zone"`
		PathZone   *string `bun:"path_zone"`
	}

	err := s.db.NewSelect().
		Column("id").
		ColumnExpr("ST_AsGeoJSON(boundary) AS boundary").
		ColumnExpr("ST_AsGeoJSON(danger_zone) AS danger_zone").
		ColumnExpr("ST_AsGeoJSON(path_zone) AS path_zone").
		TableExpr("administration_zones").
		Where("administration_id = ?", adminID).
		OrderExpr("id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, eris.Wrap(err, "store: select zone geojson")
	}

	features := make([]models.Feature, 0, len(rows)*3)
	for _, row := range rows {
		for _, part := range []struct {
			kind    string
			geojson *string
		}{
			{"boundary", row.Boundary},
			{"danger_zone", row.DangerZone},
			{"path_zone", row.PathZone},
		} {
			if part.geojson == nil {
				continue
			}
			var geometry map[string]interface{}
			if err := json.Unmarshal([]byte(*part.geojson), &geometry); err != nil {
				// Skip invalid geometries
				continue
			}
			features = append(features, models.Feature{
				ID:       row.ID,
				Type:     "Feature",
				Geometry: geometry,
				Properties: map[string]interface{}{
					"zone_id":           row.ID,
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

func (s *Postgres) CreateSweetSpot(ctx context.Context, spot *models.SweetSpot) error {
	spot.CreatedAt = time.Now().UTC()

	q := s.db.NewInsert().Model(spot)
	if spot.Zone != nil {
		q = q.Value("sweet_spot_zone", "ST_GeomFromText(?, 4326)", *spot.Zone)
	}

	if _, err := q.Returning("sweet_spot_id").Exec(ctx); err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return apperr.NotFound("Administration not found")
		}
		return eris.Wrap(err, "store: insert sweet spot")
	}
	return nil
}

func (s *Postgres) ListSweetSpots(ctx context.Context, params models.SweetSpotQueryParams) ([]models.SweetSpot, error) {
	var spots []models.SweetSpot

	q := s.db.NewSelect().
		Model(&spots).
		ExcludeColumn("sweet_spot_zone")

	if len(params.AdminIDs) > 0 {
		q = q.Where("ss.admin_id IN (?)", bun.In(params.AdminIDs))
	}

	if err := q.OrderExpr("ss.sweet_spot_id ASC").Scan(ctx); err != nil {
		return nil, eris.Wrap(err, "store: list sweet spots")
	}
	return spots, nil
}

func notFoundOr(err error, notFoundMsg, wrapMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(notFoundMsg)
	}
	return eris.Wrap(err, wrapMsg)
}

func pgCode(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	return ""
}
