package models

import "geohash-service/geohash"

// Cell is the JSON shape of a decoded geohash.
type Cell struct {
	Hash      string     `json:"hash"`
	Latitude  [2]float64 `json:"latitude"`
	Longitude [2]float64 `json:"longitude"`
	Center    [2]float64 `json:"center"`
}

// NewCell builds a Cell from a hash and the box it decodes to.
func NewCell(hash string, box geohash.Box) Cell {
	lat, lon := box.Center()
	return Cell{
		Hash:      hash,
		Latitude:  [2]float64{box.Lat.Min, box.Lat.Max},
		Longitude: [2]float64{box.Lon.Min, box.Lon.Max},
		Center:    [2]float64{lat, lon},
	}
}

// Region is the body of a region enumeration request.
type Region struct {
	LatMin    float64 `json:"lat_min"`
	LatMax    float64 `json:"lat_max"`
	LonMin    float64 `json:"lon_min"`
	LonMax    float64 `json:"lon_max"`
	Precision uint    `json:"precision"`
	Limit     uint    `json:"limit"`
}
