package matching

import (
	"errors"
	"fmt"
	"geohash-service/geohash"
	"geohash-service/geoindex"
	"geohash-service/models"
)

var ErrNoMatch = errors.New("no matching point nearby")

// CellLookup returns the points whose geohash at len(hash) symbols is hash.
type CellLookup interface {
	Cell(hash string) ([]models.Point, error)
}

// FindInNeighborhood encodes the position at precision and scans its own
// cell, then the eight surrounding cells clockwise from north, returning the
// first point accept allows. A nil accept allows every point. Lookup errors
// abort the scan.
func FindInNeighborhood(lookup CellLookup, lat, lon float64, precision uint, accept func(models.Point) bool) (*models.Point, error) {
	hash, err := geohash.Encode(lat, lon, precision)
	if err != nil {
		return nil, err
	}
	neighbors, err := geohash.Neighbors(hash)
	if err != nil {
		return nil, err
	}

	for _, cell := range append([]string{hash}, neighbors...) {
		points, err := lookup.Cell(cell)
		if err != nil {
			return nil, fmt.Errorf("lookup cell %s: %w", cell, err)
		}
		for _, p := range points {
			if accept == nil || accept(p) {
				return &p, nil
			}
		}
	}
	return nil, ErrNoMatch
}

// MatchTags accepts points carrying every key/value pair in tags.
func MatchTags(tags map[string]string) func(models.Point) bool {
	return func(p models.Point) bool {
		for k, v := range tags {
			if p.Tags[k] != v {
				return false
			}
		}
		return true
	}
}

type indexCells struct {
	idx geoindex.Index
}

// Cells adapts any index to a CellLookup of arbitrary precision by searching
// the cell's box and keeping the points that encode to the cell.
func Cells(idx geoindex.Index) CellLookup {
	return indexCells{idx: idx}
}

func (c indexCells) Cell(hash string) ([]models.Point, error) {
	box, err := geohash.Decode(hash)
	if err != nil {
		return nil, err
	}
	points, err := c.idx.Search(box)
	if err != nil {
		return nil, err
	}

	inCell := points[:0]
	for _, p := range points {
		if h, _ := geohash.Encode(p.Latitude, p.Longitude, uint(len(hash))); h == hash {
			inCell = append(inCell, p)
		}
	}
	return inCell, nil
}
