package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Administration is the tenant that owns zones, sweet spots and users.
// Deleting one cascades to all three through ON DELETE CASCADE foreign keys.
type Administration struct {
	bun.BaseModel `bun:"table:administrations,alias:adm"`

	ID        int64     `bun:"administration_id,pk,autoincrement" json:"administration_id"`
	Name      string    `bun:"administration_name,notnull,unique" json:"administration_name"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Zones      []*Zone      `bun:"rel:has-many,join:administration_id=administration_id" json:"-"`
	SweetSpots []*SweetSpot `bun:"rel:has-many,join:administration_id=admin_id" json:"-"`
	Users      []*User      `bun:"rel:has-many,join:administration_id=administration_id" json:"-"`
}

// CreateAdministrationRequest represents the request body
type CreateAdministrationRequest struct {
	Name string `json:"administration_name"`
}
