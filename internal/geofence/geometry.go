package geofence

import (
	"fmt"
	"strings"

	"geofence-bknd/internal/apperr"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// SRID is the spatial reference of every stored geometry (WGS-84 lon/lat).
const SRID = 4326

// Kind names the geometry type a column accepts.
type Kind string

const (
	KindPolygon         Kind = "POLYGON"
	KindMultiPolygon    Kind = "MULTIPOLYGON"
	KindMultiLineString Kind = "MULTILINESTRING"
)

// ParseWKT parses text into a geometry of the requested kind. A POLYGON is
// promoted for MULTIPOLYGON fields and a LINESTRING for MULTILINESTRING fields.
func ParseWKT(kind Kind, text string) (geom.T, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation(fmt.Sprintf("empty WKT for %s", kind))
	}

	g, err := wkt.Unmarshal(text)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("invalid WKT for %s: %v", kind, err))
	}

	switch kind {
	case KindPolygon:
		if p, ok := g.(*geom.Polygon); ok {
			return p.SetSRID(SRID), nil
		}
	case KindMultiPolygon:
		switch t := g.(type) {
		case *geom.MultiPolygon:
			return t.SetSRID(SRID), nil
		case *geom.Polygon:
			mp := geom.NewMultiPolygon(t.Layout())
			if err := mp.Push(t); err != nil {
				return nil, eris.Wrap(err, "geofence: promote polygon")
			}
			return mp.SetSRID(SRID), nil
		}
	case KindMultiLineString:
		switch t := g.(type) {
		case *geom.MultiLineString:
			return t.SetSRID(SRID), nil
		case *geom.LineString:
			mls := geom.NewMultiLineString(t.Layout())
			if err := mls.Push(t); err != nil {
				return nil, eris.Wrap(err, "geofence: promote linestring")
			}
			return mls.SetSRID(SRID), nil
		}
	default:
		return nil, apperr.Validation(fmt.Sprintf("unsupported geometry kind %q", kind))
	}

	return nil, apperr.Validation(fmt.Sprintf("expected %s, got %s", kind, typeName(g)))
}

// MarshalWKT renders g as WKT suitable for ST_GeomFromText(?, 4326).
func MarshalWKT(g geom.T) (string, error) {
	s, err := wkt.Marshal(g)
	if err != nil {
		return "", eris.Wrap(err, "geofence: marshal WKT")
	}
	return s, nil
}

// NormalizeWKT parses and re-serializes text so what gets stored is always of the
// column's declared type.
func NormalizeWKT(kind Kind, text *string) (*string, error) {
	if text == nil || strings.TrimSpace(*text) == "" {
		return nil, nil
	}
	g, err := ParseWKT(kind, *text)
	if err != nil {
		return nil, err
	}
	out, err := MarshalWKT(g)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func typeName(g geom.T) string {
	switch g.(type) {
	case *geom.Point:
		return "POINT"
	case *geom.MultiPoint:
		return "MULTIPOINT"
	case *geom.LineString:
		return "LINESTRING"
	case *geom.MultiLineString:
		return "MULTILINESTRING"
	case *geom.Polygon:
		return "POLYGON"
	case *geom.MultiPolygon:
		return "MULTIPOLYGON"
	case *geom.GeometryCollection:
		return "GEOMETRYCOLLECTION"
	default:
		return fmt.Sprintf("%T", g)
	}
}
