package geoindex

import (
	"fmt"
	"geohash-service/geohash"
	"geohash-service/models"
	"sync"
)

// CellIndex buckets points by their geohash. A search enumerates the cells
// covering the box and filters their points.
type CellIndex struct {
	mu        sync.RWMutex
	precision uint
	cellLimit uint
	cells     map[string]map[string]models.Point
	byID      map[string]string
}

func NewCellIndex(precision, cellLimit uint) *CellIndex {
	return &CellIndex{
		precision: precision,
		cellLimit: cellLimit,
		cells:     make(map[string]map[string]models.Point),
		byID:      make(map[string]string),
	}
}

func (c *CellIndex) Precision() uint {
	return c.precision
}

func (c *CellIndex) Insert(p models.Point) error {
	p, err := prepare(p, c.precision)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(p.ID)
	cell, ok := c.cells[p.Geohash]
	if !ok {
		cell = make(map[string]models.Point)
		c.cells[p.Geohash] = cell
	}
	cell[p.ID] = p
	c.byID[p.ID] = p.Geohash
	return nil
}

func (c *CellIndex) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(id)
}

func (c *CellIndex) remove(id string) bool {
	hash, ok := c.byID[id]
	if !ok {
		return false
	}
	delete(c.byID, id)
	delete(c.cells[hash], id)
	if len(c.cells[hash]) == 0 {
		delete(c.cells, hash)
	}
	return true
}

// Cell returns the points stored under hash, which must have the index precision.
func (c *CellIndex) Cell(hash string) ([]models.Point, error) {
	if uint(len(hash)) != c.precision {
		return nil, fmt.Errorf("%w: cell %q, index precision %d", geohash.ErrInvalidPrecision, hash, c.precision)
	}
	if err := geohash.Validate(hash); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	cell := c.cells[hash]
	points := make([]models.Point, 0, len(cell))
	for _, p := range cell {
		points = append(points, p)
	}
	return sortByID(points), nil
}

// Search fails with geohash.ErrCellsLimitExceeded when the box covers more
// cells than the index's search limit.
func (c *CellIndex) Search(box geohash.Box) ([]models.Point, error) {
	hashes, err := geohash.CoverBox(box, c.precision, c.cellLimit)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var points []models.Point
	for _, hash := range hashes {
		for _, p := range c.cells[hash] {
			if box.Contains(p.Latitude, p.Longitude) {
				points = append(points, p)
			}
		}
	}
	return sortByID(points), nil
}

func (c *CellIndex) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
