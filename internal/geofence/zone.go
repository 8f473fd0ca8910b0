package geofence

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Zone is the parsed form of an administration's policy geometries.
// Any field may be nil, which disables the corresponding check.
type Zone struct {
	Boundary   *geom.Polygon
	DangerZone *geom.MultiPolygon
	PathZone   *geom.MultiLineString
}

// CompileZone parses the WKT columns of a stored zone.
func CompileZone(boundary, danger, path *string) (*Zone, error) {
	z := &Zone{}

	if boundary != nil && *boundary != "" {
		g, err := ParseWKT(KindPolygon, *boundary)
		if err != nil {
			return nil, eris.Wrap(err, "boundary")
		}
		z.Boundary = g.(*geom.Polygon)
	}
	if danger != nil && *danger != "" {
		g, err := ParseWKT(KindMultiPolygon, *danger)
		if err != nil {
			return nil, eris.Wrap(err, "danger_zone")
		}
		z.DangerZone = g.(*geom.MultiPolygon)
	}
	if path != nil && *path != "" {
		g, err := ParseWKT(KindMultiLineString, *path)
		if err != nil {
			return nil, eris.Wrap(err, "path_zone")
		}
		z.PathZone = g.(*geom.MultiLineString)
	}

	return z, nil
}
