package layer

import (
	"sort"
	"sync"
)

// Manager holds the layer stack and provides merged access.
//
// Layers are replaced wholesale, never mutated in place, so a caller
// always observes either the previous merge or the fully-new one.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer       // Sorted by priority (ascending)
	merged map[string]any // Cached merged result
	dirty  bool           // Whether merged cache needs refresh
}

// NewManager creates a new layer manager.
func NewManager() *Manager {
	return &Manager{
		layers: make([]*Layer, 0, 3),
		merged: make(map[string]any),
		dirty:  true,
	}
}

// SetLayer installs (or replaces) the layer for a source.
func (m *Manager) SetLayer(source Source, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	layer := NewLayer(source, data)
	for i, existing := range m.layers {
		if existing.Source == source {
			m.layers[i] = layer
			m.dirty = true
			return
		}
	}

	m.layers = append(m.layers, layer)
	m.sortLayers()
	m.dirty = true
}

// RemoveLayer removes the layer for a source.
// Returns true if the layer was found and removed.
func (m *Manager) RemoveLayer(source Source) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, layer := range m.layers {
		if layer.Source == source {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// GetLayer returns the layer for a source, or nil.
func (m *Manager) GetLayer(source Source) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, layer := range m.layers {
		if layer.Source == source {
			return layer
		}
	}
	return nil
}

// LayerCount returns the number of installed layers.
func (m *Manager) LayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.layers)
}

// Merge combines all layers into a single configuration map.
// Results are cached until a layer is replaced or removed.
// The returned map is a deep copy.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty && m.merged != nil {
		return cloneMap(m.merged)
	}

	result := make(map[string]any)

	// Apply layers in priority order (lowest first, highest last)
	for _, layer := range m.layers {
		result = DeepMerge(result, layer.Data)
	}

	m.merged = result
	m.dirty = false

	return cloneMap(result)
}

// Reset removes all layers.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = m.layers[:0]
	m.merged = make(map[string]any)
	m.dirty = true
}

// sortLayers sorts layers by priority (ascending). Must hold lock.
func (m *Manager) sortLayers() {
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
}
