package models

import "time"

// LocationReport is a coordinate submitted for evaluation against an administration's zone.
type LocationReport struct {
	Lat                float64 `json:"lat"`
	Lon                float64 `json:"lon"`
	UserID             int64   `json:"user_id"`
	AdministrationID   int64   `json:"administration_id"`
	AdministrationName string  `json:"administration_name"`
}

// DeviceReport is the SOS payload sent by a wearable or handset.
type DeviceReport struct {
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	UserID   int64     `json:"user_id"`
	DeviceID string    `json:"device_id"`
	Time     time.Time `json:"time"`
}
