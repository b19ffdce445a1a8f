package geoindex

import (
	"geohash-service/geohash"
	"geohash-service/models"
	"math"
	"sync"

	"github.com/dhconnelly/rtreego"
)

// pointTolerance is the half-size of the rectangle stored for a point.
const pointTolerance = 1e-9

// spatialPoint wraps a point to satisfy the rtreego.Spatial interface.
// The tree compares entries by identity, so it always holds pointers.
type spatialPoint struct {
	models.Point
}

func (p *spatialPoint) Bounds() rtreego.Rect {
	return rtreego.Point{p.Latitude, p.Longitude}.ToRect(pointTolerance)
}

// RTreeIndex indexes points in a 2-dimensional R-tree over (lat, lon).
type RTreeIndex struct {
	mu        sync.Mutex
	precision uint
	tree      *rtreego.Rtree
	byID      map[string]*spatialPoint
}

func NewRTreeIndex(precision uint) *RTreeIndex {
	return &RTreeIndex{
		precision: precision,
		tree:      rtreego.NewTree(2, 25, 50),
		byID:      make(map[string]*spatialPoint),
	}
}

func (r *RTreeIndex) Insert(p models.Point) error {
	p, err := prepare(p, r.precision)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(p.ID)
	sp := &spatialPoint{Point: p}
	r.tree.Insert(sp)
	r.byID[p.ID] = sp
	return nil
}

func (r *RTreeIndex) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(id)
}

func (r *RTreeIndex) remove(id string) bool {
	sp, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	r.tree.Delete(sp)
	return true
}

func (r *RTreeIndex) Search(box geohash.Box) ([]models.Point, error) {
	if !box.Valid() {
		return nil, nil
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{box.Lat.Min - pointTolerance, box.Lon.Min - pointTolerance},
		[]float64{
			math.Max(box.Lat.Width(), 0) + 2*pointTolerance,
			math.Max(box.Lon.Width(), 0) + 2*pointTolerance,
		},
	)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var points []models.Point
	for _, s := range r.tree.SearchIntersect(rect) {
		p := s.(*spatialPoint).Point
		if box.Contains(p.Latitude, p.Longitude) {
			points = append(points, p)
		}
	}
	return sortByID(points), nil
}

func (r *RTreeIndex) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
