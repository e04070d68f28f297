package models

import (
	"sort"
	"sync"
)

// PointsModel holds the points of the trip in memory. It is shared by all edit sessions.
type PointsModel struct {
	mu     sync.RWMutex
	points map[string]Point
}

// NewPointsModel returns a model seeded with the passed points.
func NewPointsModel(points []Point) *PointsModel {
	pm := &PointsModel{points: map[string]Point{}}
	for _, p := range points {
		pm.points[p.ID] = p
	}
	return pm
}

// List returns the points ordered by start date, then id.
func (pm *PointsModel) List() (points []Point) {
	pm.mu.RLock()
	for _, p := range pm.points {
		points = append(points, p)
	}
	pm.mu.RUnlock()

	sort.Slice(points, func(i, j int) bool {
		if points[i].DateStart.Equal(points[j].DateStart) {
			return points[i].ID < points[j].ID
		}
		return points[i].DateStart.Before(points[j].DateStart)
	})
	return
}

// GetByID returns the point with the passed id; ok is false when there is none.
func (pm *PointsModel) GetByID(id string) (p Point, ok bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok = pm.points[id]
	return
}

// Upsert adds the point, or replaces the point with the same id.
func (pm *PointsModel) Upsert(p Point) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.points[p.ID] = p
}

// Delete removes the point with the passed id and reports whether it existed.
func (pm *PointsModel) Delete(id string) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	_, ok := pm.points[id]
	delete(pm.points, id)
	return ok
}
