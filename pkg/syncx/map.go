package syncx

import "sync"

// Map is a type-safe wrapper around sync.Map.
// The zero value is empty and ready for use.
type Map[K comparable, V any] struct {
	inner sync.Map
}

func (m *Map[K, V]) Load(key K) (V, bool) {
	value, ok := m.inner.Load(key)

	if !ok {
		var zero V
		return zero, false
	}

	return value.(V), true
}

func (m *Map[K, V]) Store(key K, value V) {
	m.inner.Store(key, value)
}

func (m *Map[K, V]) Delete(key K) {
	m.inner.Delete(key)
}

// LoadAndDelete deletes the value for a key, returning the previous
// value if any.
func (m *Map[K, V]) LoadAndDelete(key K) (V, bool) {
	value, ok := m.inner.LoadAndDelete(key)

	if !ok {
		var zero V
		return zero, false
	}

	return value.(V), true
}

// Range calls f sequentially for each key and value present in the map.
// If f returns false, Range stops the iteration.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.inner.Range(func(key, value any) bool {
		return f(key.(K), value.(V))
	})
}

func (m *Map[K, V]) Len() int {
	count := 0

	m.inner.Range(func(_, _ any) bool {
		count++
		return true
	})

	return count
}
