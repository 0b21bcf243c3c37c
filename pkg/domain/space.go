package domain

import "fmt"

// GeoPoint is a geographic position in degrees.
type GeoPoint struct {
	Lat float32
	Lon float32
}

// Polygon is a sequence of vertices, closed implicitly. A valid polygon has
// at least three vertices.
type Polygon []GeoPoint

// Validate checks the minimum vertex count.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return fmt.Errorf("polygon needs at least 3 vertices, got %d", len(p))
	}
	return nil
}

// Contains reports whether the point is inside the polygon, by ray casting.
// Points on an edge may fall on either side.
func (p Polygon) Contains(pt GeoPoint) bool {
	inside := false
	n := len(p)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := p[i], p[j]
		if (vi.Lat > pt.Lat) != (vj.Lat > pt.Lat) &&
			pt.Lon < (vj.Lon-vi.Lon)*(pt.Lat-vi.Lat)/(vj.Lat-vi.Lat)+vi.Lon {
			inside = !inside
		}
	}
	return inside
}

// SpaceSpecKind discriminates the SpaceSpec variants.
type SpaceSpecKind int

const (
	// SpaceOne selects a single station by its data id.
	SpaceOne SpaceSpecKind = iota
	// SpacePolygon selects all stations inside a polygon.
	SpacePolygon
	// SpaceAll selects every station the source offers.
	SpaceAll
)

// SpaceSpec identifies which stations a validation run covers. It is a
// tagged variant: exactly one of the payload fields is meaningful for a
// given Kind.
type SpaceSpec struct {
	Kind    SpaceSpecKind
	DataID  string
	Polygon Polygon
}

// One builds a SpaceSpec selecting a single station.
func One(dataID string) SpaceSpec {
	return SpaceSpec{Kind: SpaceOne, DataID: dataID}
}

// InPolygon builds a SpaceSpec selecting stations inside the polygon.
func InPolygon(p Polygon) SpaceSpec {
	return SpaceSpec{Kind: SpacePolygon, Polygon: p}
}

// All builds a SpaceSpec selecting every station.
func All() SpaceSpec {
	return SpaceSpec{Kind: SpaceAll}
}

// Validate checks the variant payload.
func (s SpaceSpec) Validate() error {
	switch s.Kind {
	case SpaceOne:
		if s.DataID == "" {
			return fmt.Errorf("space spec One requires a data id")
		}
	case SpacePolygon:
		return s.Polygon.Validate()
	case SpaceAll:
	default:
		return fmt.Errorf("unknown space spec kind %d", s.Kind)
	}
	return nil
}

func (s SpaceSpec) String() string {
	switch s.Kind {
	case SpaceOne:
		return fmt.Sprintf("one(%s)", s.DataID)
	case SpacePolygon:
		return fmt.Sprintf("polygon(%d vertices)", len(s.Polygon))
	case SpaceAll:
		return "all"
	}
	return "invalid"
}
