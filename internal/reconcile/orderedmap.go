package reconcile

// orderedMap is a map that remembers key insertion order.
// Overwriting an existing key keeps its original position.
type orderedMap[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  []V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{index: make(map[K]int)}
}

// Set inserts or overwrites the value for key.
func (m *orderedMap[K, V]) Set(key K, val V) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = val
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
}

// Get returns the value for key.
func (m *orderedMap[K, V]) Get(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

// Values returns the values in insertion order.
func (m *orderedMap[K, V]) Values() []V {
	out := make([]V, len(m.vals))
	copy(out, m.vals)
	return out
}
