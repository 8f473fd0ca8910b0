package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// MaxEmergencyContacts bounds User.EmergencyContacts.
const MaxEmergencyContacts = 3

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                int64     `bun:"user_id,pk,autoincrement" json:"id"`
	Name              string    `bun:"user_name,notnull" json:"user_name"`
	AdministrationID  int64     `bun:"administration_id,notnull" json:"administration_id"`
	RecentAlerts      *string   `bun:"recent_alerts" json:"recent_alerts"`
	EmergencyContacts []string  `bun:"emergency_contacts,type:jsonb" json:"emergency_contacts"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// EmergencyContact accepts either a bare phone number or an object with a phone field.
type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

func (c *EmergencyContact) UnmarshalJSON(b []byte) error {
	var phone string
	if err := json.Unmarshal(b, &phone); err == nil {
		*c = EmergencyContact{Phone: phone}
		return nil
	}
	type plain EmergencyContact
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = EmergencyContact(p)
	return nil
}

// CreateUserRequest represents the request body
type CreateUserRequest struct {
	Name              string             `json:"user_name"`
	AdministrationID  int64              `json:"administration_id"`
	RecentAlerts      *string            `json:"recent_alerts,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts,omitempty"`
}

// Phones reduces the request contacts to trimmed phone numbers.
func (r CreateUserRequest) Phones() []string {
	if r.EmergencyContacts == nil {
		return nil
	}
	out := make([]string, len(r.EmergencyContacts))
	for i, c := range r.EmergencyContacts {
		out[i] = strings.TrimSpace(c.Phone)
	}
	return out
}
