// Package geoindex keeps located points in memory and answers box queries
// using one of three techniques: geohash cells, an R-tree or a quadtree.
package geoindex

import (
	"errors"
	"fmt"
	"geohash-service/geohash"
	"geohash-service/models"
	"sort"
)

type Technique string

const (
	GeohashingTechnique Technique = "geohashing"
	RTreeTechnique      Technique = "rtree"
	QuadtreeTechnique   Technique = "quadtree"
)

// Valid reports whether t names a supported technique.
func (t Technique) Valid() bool {
	switch t {
	case GeohashingTechnique, RTreeTechnique, QuadtreeTechnique:
		return true
	}
	return false
}

var (
	ErrUnsupportedTechnique = errors.New("unsupported geo-indexing technique")
	ErrInvalidPoint         = errors.New("invalid point")
	ErrNoPoints             = errors.New("no nearby points found after maximum retries")
)

// Index stores points by ID. Inserting an existing ID replaces the point.
type Index interface {
	Insert(p models.Point) error
	Remove(id string) bool
	Search(box geohash.Box) ([]models.Point, error)
	Len() int
}

// Options configures New.
type Options struct {
	// Precision of the geohash stored on every point, and of the cells of a CellIndex.
	Precision uint
	// SearchCellLimit bounds how many cells a CellIndex enumerates per search.
	SearchCellLimit uint
}

// New returns an empty index using technique.
func New(technique Technique, opts Options) (Index, error) {
	if opts.Precision > geohash.MaxPrecision {
		return nil, fmt.Errorf("%w: %d", geohash.ErrInvalidPrecision, opts.Precision)
	}
	switch technique {
	case GeohashingTechnique, "":
		return NewCellIndex(opts.Precision, opts.SearchCellLimit), nil
	case RTreeTechnique:
		return NewRTreeIndex(opts.Precision), nil
	case QuadtreeTechnique:
		return NewQuadtree(geohash.NewBox(-90, 90, -180, 180), opts.Precision), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedTechnique, technique)
}

// prepare validates p and stamps its geohash at precision.
func prepare(p models.Point, precision uint) (models.Point, error) {
	if p.ID == "" {
		return p, fmt.Errorf("%w: empty id", ErrInvalidPoint)
	}
	if !(p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180) {
		return p, fmt.Errorf("%w: (%v, %v) is outside the map", ErrInvalidPoint, p.Latitude, p.Longitude)
	}
	hash, err := geohash.Encode(p.Latitude, p.Longitude, precision)
	if err != nil {
		return p, err
	}
	p.Geohash = hash
	return p, nil
}

func sortByID(points []models.Point) []models.Point {
	sort.Slice(points, func(i, j int) bool { return points[i].ID < points[j].ID })
	return points
}

// SearchAround searches a box of half-size span degrees centred on the
// point, doubling span until something is found or maxRetries is reached.
func SearchAround(idx Index, lat, lon, span float64, maxRetries int) ([]models.Point, error) {
	for i := 0; i < maxRetries; i++ {
		box := geohash.NewBox(
			max(lat-span, -90), min(lat+span, 90),
			max(lon-span, -180), min(lon+span, 180),
		)
		results, err := idx.Search(box)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			return results, nil
		}
		span *= 2
	}
	return nil, ErrNoPoints
}
