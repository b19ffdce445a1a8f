// Package geohash converts coordinates to base32 geohash strings and back,
// resolves adjacent cells and enumerates the cells covering a region.
//
// All functions are pure and safe for concurrent use. Precision is the
// number of symbols in a hash and is limited to MaxPrecision so that every
// axis index fits in 32 bits.
package geohash

// MaxPrecision is the longest geohash this package produces or accepts.
const MaxPrecision = 12

// Range is a closed-below interval of degrees along one axis.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Width returns the extent of the range.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) overlaps(o Range) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

// Box is the rectangle a geohash denotes.
type Box struct {
	Lat Range `json:"lat"`
	Lon Range `json:"lon"`
}

// NewBox builds a box from its four bounds.
func NewBox(latMin, latMax, lonMin, lonMax float64) Box {
	return Box{
		Lat: Range{Min: latMin, Max: latMax},
		Lon: Range{Min: lonMin, Max: lonMax},
	}
}

// Valid reports whether the box is non-empty on both axes.
func (b Box) Valid() bool {
	return b.Lat.Min <= b.Lat.Max && b.Lon.Min <= b.Lon.Max
}

// Contains reports whether the point lies inside the box, edges included.
func (b Box) Contains(lat, lon float64) bool {
	return b.Lat.contains(lat) && b.Lon.contains(lon)
}

// Intersects reports whether two boxes share at least one point.
func (b Box) Intersects(o Box) bool {
	return b.Lat.overlaps(o.Lat) && b.Lon.overlaps(o.Lon)
}

// Center returns the midpoint of the box.
func (b Box) Center() (lat, lon float64) {
	return b.Lat.Mid(), b.Lon.Mid()
}
