package database

import (
	"context"
	"fmt"

	"geofence-bknd/internal/models"

	"github.com/rotisserie/eris"
	"github.com/uptrace/bun"
)

// Migrate creates the PostGIS extension and the geofence tables if they are missing.
// Ownership is exclusive: every child table references administrations with ON DELETE CASCADE.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS postgis`); err != nil {
		return eris.Wrap(err, "create postgis extension")
	}

	for _, q := range CreateTableQueries(db) {
		if _, err := q.Exec(ctx); err != nil {
			return eris.Wrap(err, "create table")
		}
	}

	for _, stmt := range postCreateStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrap(err, "post-create statement")
		}
	}
	return nil
}

// CreateTableQueries returns the CREATE TABLE statements in dependency order.
func CreateTableQueries(db *bun.DB) []*bun.CreateTableQuery {
	cascade := `("%s") REFERENCES "administrations" ("administration_id") ON DELETE CASCADE`

	return []*bun.CreateTableQuery{
		db.NewCreateTable().
			Model((*models.Administration)(nil)).
			IfNotExists(),
		db.NewCreateTable().
			Model((*models.User)(nil)).
			IfNotExists().
			ForeignKey(fmt.Sprintf(cascade, "administration_id")),
		db.NewCreateTable().
			Model((*models.Zone)(nil)).
			IfNotExists().
			ForeignKey(fmt.Sprintf(cascade, "administration_id")),
		db.NewCreateTable().
			Model((*models.SweetSpot)(nil)).
			IfNotExists().
			ForeignKey(fmt.Sprintf(cascade, "admin_id")),
	}
}

// Geometry columns are declared as plain geometry in the models; the statements
// below pin each one to its type and SRID.
var postCreateStatements = []string{
	`ALTER TABLE administration_zones ALTER COLUMN boundary TYPE geometry(Polygon, 4326) USING ST_SetSRID(boundary, 4326)`,
	`ALTER TABLE administration_zones ALTER COLUMN danger_zone TYPE geometry(MultiPolygon, 4326) USING ST_SetSRID(ST_Multi(danger_zone), 4326)`,
	`ALTER TABLE administration_zones ALTER COLUMN path_zone TYPE geometry(MultiLineString, 4326) USING ST_SetSRID(ST_Multi(path_zone), 4326)`,
	`ALTER TABLE sweet_spots ALTER COLUMN sweet_spot_zone TYPE geometry(Polygon, 4326) USING ST_SetSRID(sweet_spot_zone, 4326)`,
	`CREATE INDEX IF NOT EXISTS users_administration_id_idx ON users (administration_id)`,
	`CREATE INDEX IF NOT EXISTS administration_zones_administration_id_idx ON administration_zones (administration_id)`,
	`CREATE INDEX IF NOT EXISTS administration_zones_boundary_gix ON administration_zones USING GIST (boundary)`,
	`CREATE INDEX IF NOT EXISTS administration_zones_danger_zone_gix ON administration_zones USING GIST (danger_zone)`,
	`CREATE INDEX IF NOT EXISTS sweet_spots_admin_id_idx ON sweet_spots (admin_id)`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'check_emergency_contacts_limit') THEN
			ALTER TABLE users ADD CONSTRAINT check_emergency_contacts_limit
				CHECK (emergency_contacts IS NULL OR (jsonb_typeof(emergency_contacts) = 'array' AND jsonb_array_length(emergency_contacts) <= 3));
		END IF;
	END $$`,
}
