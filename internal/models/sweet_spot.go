package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SweetSpot is a named informational polygon. It plays no part in containment checks.
type SweetSpot struct {
	bun.BaseModel `bun:"table:sweet_spots,alias:ss"`

	ID        int64     `bun:"sweet_spot_id,pk,autoincrement" json:"sweet_spot_id"`
	AdminID   int64     `bun:"admin_id,notnull" json:"admin_id"`
	Name      string    `bun:"sweet_spot_name,notnull" json:"sweet_spot_name"`
	Zone      *string   `bun:"sweet_spot_zone,type:geometry,nullzero" json:"-"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type CreateSweetSpotRequest struct {
	AdminID int64   `json:"admin_id"`
	Name    string  `json:"sweet_spot_name"`
	Zone    *string `json:"sweet_spot_zone,omitempty"`
}
