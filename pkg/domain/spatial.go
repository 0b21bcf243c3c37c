package domain

import (
	"math"

	"github.com/tidwall/rtree"
)

const earthRadius = 6371000.0 // metres, spherical approximation

// SpatialTree is an R*-tree over station positions. It indexes stations in
// insertion order, so tree index i always refers to station i of the cache
// it was built from. Radius queries are answered in metres in projected
// (earth-centred cartesian) space, so horizontal and vertical separation
// both count.
type SpatialTree struct {
	tr   rtree.RTreeG[int]
	xyz  [][3]float64
	lats []float32
	lons []float32
}

// NewSpatialTree builds a tree from parallel latitude, longitude and
// elevation vectors. The slices must have identical length.
func NewSpatialTree(lats, lons, elevs []float32) *SpatialTree {
	t := &SpatialTree{
		xyz:  make([][3]float64, len(lats)),
		lats: lats,
		lons: lons,
	}
	for i := range lats {
		t.xyz[i] = project(lats[i], lons[i], elevs[i])
		pt := [2]float64{float64(lons[i]), float64(lats[i])}
		t.tr.Insert(pt, pt, i)
	}
	return t
}

// project converts geodetic coordinates to earth-centred cartesian metres.
func project(lat, lon, elev float32) [3]float64 {
	latr := float64(lat) * math.Pi / 180
	lonr := float64(lon) * math.Pi / 180
	r := earthRadius + float64(elev)
	return [3]float64{
		r * math.Cos(latr) * math.Cos(lonr),
		r * math.Cos(latr) * math.Sin(lonr),
		r * math.Sin(latr),
	}
}

// Len returns the number of indexed stations.
func (t *SpatialTree) Len() int {
	return len(t.xyz)
}

// Distance returns the separation of stations i and j in metres.
func (t *SpatialTree) Distance(i, j int) float64 {
	a, b := t.xyz[i], t.xyz[j]
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Neighbours returns the indices of all stations within radius metres of
// station i, excluding i itself. Order is unspecified.
func (t *SpatialTree) Neighbours(i int, radius float64) []int {
	// Degree window for pruning; the exact test happens in projected space.
	latPad := radius / 111320 * 1.1
	lonScale := math.Cos(float64(t.lats[i]) * math.Pi / 180)
	lonPad := 180.0
	if lonScale > 1e-6 {
		lonPad = latPad / lonScale
	}

	lon, lat := float64(t.lons[i]), float64(t.lats[i])
	var out []int
	t.tr.Search(
		[2]float64{lon - lonPad, lat - latPad},
		[2]float64{lon + lonPad, lat + latPad},
		func(_, _ [2]float64, j int) bool {
			if j != i && t.Distance(i, j) <= radius {
				out = append(out, j)
			}
			return true
		},
	)
	return out
}

// Nearest returns the index of the station closest to the given position,
// or -1 for an empty tree.
func (t *SpatialTree) Nearest(lat, lon float32) int {
	target := project(lat, lon, 0)
	best, bestDist := -1, math.Inf(1)
	for i := range t.xyz {
		// Compare against the surface projection so elevation does not
		// perturb nearest-station lookups.
		surf := project(t.lats[i], t.lons[i], 0)
		dx, dy, dz := surf[0]-target[0], surf[1]-target[1], surf[2]-target[2]
		d := dx*dx + dy*dy + dz*dz
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
