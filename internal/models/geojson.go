package models

// Feature is a GeoJSON feature built from a PostGIS geometry rendered with ST_AsGeoJSON.
type Feature struct {
	ID         int64                  `json:"id"`
	Type       string                 `json:"type"`
	Geometry   map[string]interface{} `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// FeatureCollection represents the API response
type FeatureCollection struct {
	Type     string    `json:"type"` // "FeatureCollection"
	Features []Feature `json:"features"`
	Count    int       `json:"count"`
}

// SweetSpotQueryParams for filtering sweet spots
type SweetSpotQueryParams struct {
	AdminIDs []int64
}
