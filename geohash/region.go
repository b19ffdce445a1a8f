package geohash

import (
	"fmt"
	"math"
	"sort"
)

// span is the inclusive index rectangle a region quantizes to.
type span struct {
	g            grid
	latLo, latHi uint32
	lonLo, lonHi uint32
}

func (s span) count() uint64 {
	return uint64(s.latHi-s.latLo+1) * uint64(s.lonHi-s.lonLo+1)
}

func regionSpan(latMin, latMax, lonMin, lonMax float64, precision uint) span {
	g := gridFor(precision)
	latLo, lonLo := g.quantize(latMin, lonMin)
	latHi, lonHi := g.quantize(latMax, lonMax)
	return span{g: g, latLo: latLo, latHi: latHi, lonLo: lonLo, lonHi: lonHi}
}

// RegionCount returns how many cells of the given precision cover the region,
// without building them. An inverted region covers no cells.
func RegionCount(latMin, latMax, lonMin, lonMax float64, precision uint) (uint64, error) {
	if err := checkPrecision(precision); err != nil {
		return 0, err
	}
	if latMin > latMax || lonMin > lonMax {
		return 0, nil
	}
	return regionSpan(latMin, latMax, lonMin, lonMax, precision).count(), nil
}

// RegionToHashes returns every cell of the given precision that intersects
// the region, sorted in strictly descending byte order.
//
// An inverted region (latMin > latMax or lonMin > lonMax) yields an empty
// slice. If more than limit cells would be produced the call fails with
// ErrCellsLimitExceeded before anything is allocated. Regions of more than
// math.MaxInt32 cells fail the same way whatever the limit.
func RegionToHashes(latMin, latMax, lonMin, lonMax float64, precision, limit uint) ([]string, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	if latMin > latMax || lonMin > lonMax {
		return []string{}, nil
	}

	s := regionSpan(latMin, latMax, lonMin, lonMax, precision)
	total := s.count()
	if total > uint64(limit) || total > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d cells, limit %d", ErrCellsLimitExceeded, total, limit)
	}

	hashes := make([]string, 0, total)
	for lat := s.latLo; lat <= s.latHi; lat++ {
		for lon := s.lonLo; lon <= s.lonHi; lon++ {
			hashes = append(hashes, encodeIndex(s.g, lat, lon, precision))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(hashes)))
	return hashes, nil
}

// CoverBox is RegionToHashes for a Box.
func CoverBox(b Box, precision, limit uint) ([]string, error) {
	return RegionToHashes(b.Lat.Min, b.Lat.Max, b.Lon.Min, b.Lon.Max, precision, limit)
}
