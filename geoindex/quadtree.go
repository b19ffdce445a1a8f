package geoindex

import (
	"geohash-service/geohash"
	"geohash-service/models"
	"sync"
)

const (
	nodeCapacity = 4
	maxDepth     = 24
)

// QuadtreeNode represents a node in the quadtree
type QuadtreeNode struct {
	Bounds   geohash.Box
	Points   []models.Point
	Children [4]*QuadtreeNode
	depth    int
}

// Quadtree represents the quadtree structure
type Quadtree struct {
	Root      *QuadtreeNode
	Lock      sync.Mutex
	precision uint
	byID      map[string]models.Point
}

// NewQuadtree initializes a new Quadtree with given bounds
func NewQuadtree(bounds geohash.Box, precision uint) *Quadtree {
	return &Quadtree{
		Root:      &QuadtreeNode{Bounds: bounds},
		precision: precision,
		byID:      make(map[string]models.Point),
	}
}

// Insert adds a point to the Quadtree, replacing any point with the same ID.
// Points outside the root bounds are rejected.
func (qt *Quadtree) Insert(p models.Point) error {
	p, err := prepare(p, qt.precision)
	if err != nil {
		return err
	}
	if !qt.Root.Bounds.Contains(p.Latitude, p.Longitude) {
		return ErrInvalidPoint
	}

	qt.Lock.Lock()
	defer qt.Lock.Unlock()
	qt.remove(p.ID)
	qt.Root.insert(p)
	qt.byID[p.ID] = p
	return nil
}

// insert adds a point to a QuadtreeNode, creating children nodes if necessary
func (node *QuadtreeNode) insert(p models.Point) bool {
	if !node.Bounds.Contains(p.Latitude, p.Longitude) {
		return false
	}
	if node.Children[0] == nil && (len(node.Points) < nodeCapacity || node.depth >= maxDepth) {
		node.Points = append(node.Points, p)
		return true
	}
	if node.Children[0] == nil {
		node.subdivide()
	}
	for _, child := range node.Children {
		if child.insert(p) {
			return true
		}
	}
	return false
}

// subdivide splits the node into four child nodes and pushes its points down
func (node *QuadtreeNode) subdivide() {
	b := node.Bounds
	midLat, midLon := b.Center()
	d := node.depth + 1
	node.Children[0] = &QuadtreeNode{Bounds: geohash.NewBox(b.Lat.Min, midLat, b.Lon.Min, midLon), depth: d}
	node.Children[1] = &QuadtreeNode{Bounds: geohash.NewBox(b.Lat.Min, midLat, midLon, b.Lon.Max), depth: d}
	node.Children[2] = &QuadtreeNode{Bounds: geohash.NewBox(midLat, b.Lat.Max, b.Lon.Min, midLon), depth: d}
	node.Children[3] = &QuadtreeNode{Bounds: geohash.NewBox(midLat, b.Lat.Max, midLon, b.Lon.Max), depth: d}

	points := node.Points
	node.Points = nil
	for _, p := range points {
		for _, child := range node.Children {
			if child.insert(p) {
				break
			}
		}
	}
}

// Remove deletes the point with the given ID
func (qt *Quadtree) Remove(id string) bool {
	qt.Lock.Lock()
	defer qt.Lock.Unlock()
	return qt.remove(id)
}

func (qt *Quadtree) remove(id string) bool {
	p, ok := qt.byID[id]
	if !ok {
		return false
	}
	delete(qt.byID, id)
	return qt.Root.remove(p)
}

func (node *QuadtreeNode) remove(p models.Point) bool {
	if !node.Bounds.Contains(p.Latitude, p.Longitude) {
		return false
	}
	for i, existing := range node.Points {
		if existing.ID == p.ID {
			node.Points = append(node.Points[:i], node.Points[i+1:]...)
			return true
		}
	}
	if node.Children[0] == nil {
		return false
	}
	for _, child := range node.Children {
		if child.remove(p) {
			return true
		}
	}
	return false
}

// Search returns the points inside box
func (qt *Quadtree) Search(box geohash.Box) ([]models.Point, error) {
	if !box.Valid() {
		return nil, nil
	}
	qt.Lock.Lock()
	defer qt.Lock.Unlock()
	return sortByID(qt.Root.search(box, nil)), nil
}

func (node *QuadtreeNode) search(box geohash.Box, result []models.Point) []models.Point {
	if !node.Bounds.Intersects(box) {
		return result
	}
	for _, p := range node.Points {
		if box.Contains(p.Latitude, p.Longitude) {
			result = append(result, p)
		}
	}
	if node.Children[0] != nil {
		for _, child := range node.Children {
			result = child.search(box, result)
		}
	}
	return result
}

func (qt *Quadtree) Len() int {
	qt.Lock.Lock()
	defer qt.Lock.Unlock()
	return len(qt.byID)
}
