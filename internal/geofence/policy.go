// Package geofence evaluates coordinates against an administration's boundary,
// danger and path geometries.
package geofence

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// DefaultPathTolerance is the buffer radius around a path, in degrees (~11 m at the equator).
// It is a planar approximation, not a geodesic distance.
const DefaultPathTolerance = 0.0001

type AlertLabel string

const (
	OutsideBoundary  AlertLabel = "OUTSIDE_BOUNDARY"
	InsideDangerZone AlertLabel = "INSIDE_DANGER_ZONE"
	OutsidePathZone  AlertLabel = "OUTSIDE_PATH_ZONE"
	Safe             AlertLabel = "SAFE"
)

// Alerts is the ordered result of an evaluation.
type Alerts []AlertLabel

// IsSafe reports whether the result is exactly [SAFE].
func (a Alerts) IsSafe() bool {
	return len(a) == 1 && a[0] == Safe
}

// Contains reports whether label is present, regardless of position.
func (a Alerts) Contains(label AlertLabel) bool {
	for _, l := range a {
		if l == label {
			return true
		}
	}
	return false
}

// Point is a WGS-84 coordinate. Geometry coordinates are (lon, lat).
type Point struct {
	Lon float64
	Lat float64
}

func (p Point) coord() geom.Coord {
	return geom.Coord{p.Lon, p.Lat}
}

// Evaluate runs every applicable check in a fixed order and never short-circuits:
// boundary, then danger zone, then path. A zone with no geometry yields [SAFE].
func Evaluate(pt Point, z *Zone, tolerance float64) Alerts {
	alerts := make(Alerts, 0, 3)
	if z == nil {
		return Alerts{Safe}
	}

	if z.Boundary != nil && !polygonContains(z.Boundary, pt.coord()) {
		alerts = append(alerts, OutsideBoundary)
	}

	if z.DangerZone != nil && multiPolygonContains(z.DangerZone, pt.coord()) {
		alerts = append(alerts, InsideDangerZone)
	}

	if z.PathZone != nil && !withinPathBuffer(z.PathZone, pt.coord(), tolerance) {
		alerts = append(alerts, OutsidePathZone)
	}

	if len(alerts) == 0 {
		return Alerts{Safe}
	}
	return alerts
}

// polygonContains uses closed semantics: points on the shell are inside, points on a
// hole's ring are inside, points strictly within a hole are outside.
func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	if p.NumLinearRings() == 0 {
		return false
	}
	layout := p.Layout()

	shell := p.LinearRing(0).FlatCoords()
	if !xy.IsPointInRing(layout, c, shell) {
		return false
	}

	for i := 1; i < p.NumLinearRings(); i++ {
		hole := p.LinearRing(i).FlatCoords()
		if xy.IsPointInRing(layout, c, hole) && !xy.IsOnLine(layout, c, hole) {
			return false
		}
	}
	return true
}

func multiPolygonContains(mp *geom.MultiPolygon, c geom.Coord) bool {
	for i := 0; i < mp.NumPolygons(); i++ {
		if polygonContains(mp.Polygon(i), c) {
			return true
		}
	}
	return false
}

// withinPathBuffer reports whether c lies within tolerance of any line of the path.
func withinPathBuffer(mls *geom.MultiLineString, c geom.Coord, tolerance float64) bool {
	return PathDistance(mls, c) <= tolerance
}

// PathDistance is the planar distance, in degrees, from c to the nearest line of mls.
func PathDistance(mls *geom.MultiLineString, c geom.Coord) float64 {
	best := math.Inf(1)
	layout := mls.Layout()
	for i := 0; i < mls.NumLineStrings(); i++ {
		line := mls.LineString(i).FlatCoords()
		var d float64
		switch {
		case len(line) == 0:
			continue
		case len(line) < 2*layout.Stride():
			d = math.Hypot(c[0]-line[0], c[1]-line[1])
		default:
			d = xy.DistanceFromPointToLineString(layout, c, line)
		}
		if d < best {
			best = d
		}
	}
	return best
}
