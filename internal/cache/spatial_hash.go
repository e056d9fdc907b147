// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package cache

import "math"

// kmPerDegree is the approximate length of one degree of latitude.
const kmPerDegree = 111.0

// SpatialHashGrid divides geographic space into square cells for fast
// proximity queries. A radius query only inspects the cells overlapping the
// search box instead of every entry.
//
// The grid is a write-once index: it is filled while a snapshot is built and
// only queried afterwards. It is not safe for concurrent Insert calls, and
// concurrent QueryNearby calls are safe once inserting has finished.
//
// Time Complexity:
//   - Insert: O(1)
//   - Query nearby: O(k) where k = entries in nearby cells
type SpatialHashGrid struct {
	cells    map[CellKey][]string // Cell to entry ids
	cellSize float64              // Cell size in degrees
}

// CellKey represents a grid cell coordinate.
type CellKey struct {
	X, Y int
}

// NewSpatialHashGrid creates a grid with cells of roughly cellSizeKm.
// Smaller cells are more selective but a query visits more of them.
func NewSpatialHashGrid(cellSizeKm float64) *SpatialHashGrid {
	if cellSizeKm <= 0 {
		cellSizeKm = 10
	}
	return &SpatialHashGrid{
		cells:    make(map[CellKey][]string),
		cellSize: cellSizeKm / kmPerDegree,
	}
}

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

func (g *SpatialHashGrid) cellKey(lat, lon float64) CellKey {
	return CellKey{
		X: g.column(normalizeLon(lon)),
		Y: int(math.Floor(lat / g.cellSize)),
	}
}

func (g *SpatialHashGrid) column(lon float64) int {
	return int(math.Floor(lon / g.cellSize))
}

// Insert indexes an entry. Each id is inserted at most once.
func (g *SpatialHashGrid) Insert(id string, lat, lon float64) {
	key := g.cellKey(lat, lon)
	g.cells[key] = append(g.cells[key], id)
}

// QueryNearby returns the ids of entries in the cells covering a radiusKm box
// around the point. It is a superset of the entries within radiusKm; callers
// apply the exact distance test. Longitude cells widen with latitude, so the
// box is stretched by 1/cos(lat), and a box crossing the antimeridian
// continues on the other side.
func (g *SpatialHashGrid) QueryNearby(lat, lon, radiusKm float64) []string {
	dy := int(math.Ceil(radiusKm/kmPerDegree/g.cellSize)) + 1
	centerY := int(math.Floor(lat / g.cellSize))

	var out []string
	for _, span := range g.lonSpans(lat, normalizeLon(lon), radiusKm) {
		for x := g.column(span[0]); x <= g.column(span[1]); x++ {
			for y := centerY - dy; y <= centerY+dy; y++ {
				out = append(out, g.cells[CellKey{X: x, Y: y}]...)
			}
		}
	}
	return out
}

// lonSpans splits the longitude range of the search box into at most two
// disjoint intervals inside [-180, 180].
func (g *SpatialHashGrid) lonSpans(lat, lon, radiusKm float64) [][2]float64 {
	half := 180.0
	if c := math.Cos(lat * math.Pi / 180); c > 0.01 {
		half = radiusKm/(kmPerDegree*c) + g.cellSize
	}
	if half >= 180 {
		// Near the poles or for huge radii every longitude is close.
		return [][2]float64{{-180, 180}}
	}

	lo, hi := lon-half, lon+half
	switch {
	case lo < -180:
		return [][2]float64{{-180, hi}, {lo + 360, 180}}
	case hi > 180:
		return [][2]float64{{lo, 180}, {-180, hi - 360}}
	default:
		return [][2]float64{{lo, hi}}
	}
}
