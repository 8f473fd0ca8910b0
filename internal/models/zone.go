package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Zone holds the geometric policy of one administration. Geometries are kept as
// WKT in Go and stored as PostGIS geometries with SRID 4326; a nil field means
// the corresponding check does not apply.
type Zone struct {
	bun.BaseModel `bun:"table:administration_zones,alias:z"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	AdministrationID int64     `bun:"administration_id,notnull" json:"administration_id"`
	Boundary         *string   `bun:"boundary,type:geometry,nullzero" json:"boundary,omitempty"`
	DangerZone       *string   `bun:"danger_zone,type:geometry,nullzero" json:"danger_zone,omitempty"`
	PathZone         *string   `bun:"path_zone,type:geometry,nullzero" json:"path_zone,omitempty"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// CreateZoneRequest carries WKT text for each optional geometry.
type CreateZoneRequest struct {
	AdministrationID int64   `json:"administration_id"`
	Boundary         *string `json:"boundary,omitempty"`
	DangerZone       *string `json:"danger_zone,omitempty"`
	PathZone         *string `json:"path_zone,omitempty"`
}

// ZoneResponse mirrors what the API returns after creation.
type ZoneResponse struct {
	ID               int64     `json:"id"`
	AdministrationID int64     `json:"administration_id"`
	CreatedAt        time.Time `json:"created_at"`
}
