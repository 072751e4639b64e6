// Package sorted provides a typed ordered map with bounded range queries.
//
// The map is backed by a red-black tree from github.com/emirpasic/gods. The
// only query that matters for sparse keyspaces is [Map.Bounds], which reports
// the occupied endpoints within a closed range without walking it.
package sorted

import (
	"iter"

	"github.com/emirpasic/gods/maps/treemap"
)

// Map is an ordered map from K to V using a caller-provided comparison.
//
// Map is not safe for concurrent use.
type Map[K, V any] struct {
	cmp  func(a, b K) int
	tree *treemap.Map
}

// New returns an empty map ordered by cmp.
func New[K, V any](cmp func(a, b K) int) *Map[K, V] {
	return &Map[K, V]{
		cmp:  cmp,
		tree: treemap.NewWith(func(a, b any) int { return cmp(a.(K), b.(K)) }),
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.tree.Size()
}

// Get returns the value stored at k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.tree.Get(k)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.tree.Get(k)
	return ok
}

// Put stores v at k and returns the previous value, if any.
func (m *Map[K, V]) Put(k K, v V) (V, bool) {
	prev, ok := m.Get(k)
	m.tree.Put(k, v)
	return prev, ok
}

// Remove deletes k and returns the removed value, if any.
func (m *Map[K, V]) Remove(k K) (V, bool) {
	prev, ok := m.Get(k)
	if ok {
		m.tree.Remove(k)
	}
	return prev, ok
}

// Min returns the smallest key.
func (m *Map[K, V]) Min() (K, V, bool) {
	return unpack[K, V](m.tree.Min())
}

// Max returns the largest key.
func (m *Map[K, V]) Max() (K, V, bool) {
	return unpack[K, V](m.tree.Max())
}

// Ceiling returns the smallest key >= k.
func (m *Map[K, V]) Ceiling(k K) (K, V, bool) {
	return unpack[K, V](m.tree.Ceiling(k))
}

// Floor returns the largest key <= k.
func (m *Map[K, V]) Floor(k K) (K, V, bool) {
	return unpack[K, V](m.tree.Floor(k))
}

// Bounds returns the occupied endpoints of the closed range [low, high].
func (m *Map[K, V]) Bounds(low, high K) Bounds[K] {
	if m.cmp(low, high) > 0 {
		return Bounds[K]{}
	}
	first, _, ok := m.Ceiling(low)
	if !ok || m.cmp(first, high) > 0 {
		return Bounds[K]{}
	}
	last, _, _ := m.Floor(high)
	if m.cmp(first, last) == 0 {
		return Bounds[K]{Count: 1, Low: first, High: first}
	}
	return Bounds[K]{Count: 2, Low: first, High: last}
}

// All iterates over every entry in ascending key order.
//
// The map must not be modified during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := m.tree.Iterator()
		for it.Next() {
			if !yield(it.Key().(K), it.Value().(V)) {
				return
			}
		}
	}
}

// Keys iterates over every key in ascending order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() {
	m.tree.Clear()
}

func unpack[K, V any](k, v any) (K, V, bool) {
	if k == nil {
		var zk K
		var zv V
		return zk, zv, false
	}
	return k.(K), v.(V), true
}

// Bounds is the 3-way result of a bounded occupancy query.
//
// Count is 0 when nothing is occupied in the range, 1 when exactly one key
// is (Low == High), and 2 when Low < High are the first and last occupied
// keys. Keys strictly between Low and High may or may not be occupied.
type Bounds[K any] struct {
	Count int
	Low   K
	High  K
}

// Empty reports whether the range had no occupied key.
func (b Bounds[K]) Empty() bool {
	return b.Count == 0
}
