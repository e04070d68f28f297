package models

import "sync"

// DestinationModel is the read-only catalog of destinations offered to the edit form.
// Loads replace the whole catalog, so a List result is never modified afterward.
type DestinationModel struct {
	mu           sync.RWMutex
	destinations []Destination
}

// NewDestinationModel returns a model loaded with the passed destinations.
func NewDestinationModel(destinations []Destination) *DestinationModel {
	dm := &DestinationModel{}
	dm.Load(destinations)
	return dm
}

// Load replaces the catalog.
func (dm *DestinationModel) Load(destinations []Destination) {
	loaded := make([]Destination, len(destinations))
	copy(loaded, destinations)

	dm.mu.Lock()
	dm.destinations = loaded
	dm.mu.Unlock()
}

// List returns all destinations in catalog order.
func (dm *DestinationModel) List() []Destination {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.destinations
}

// GetByID returns the destination with the passed id; ok is false when there is none.
func (dm *DestinationModel) GetByID(id int) (dest Destination, ok bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, d := range dm.destinations {
		if d.ID == id {
			return d, true
		}
	}
	return
}
