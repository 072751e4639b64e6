// Package bimap provides a two-way unique mapping with shared pair storage.
//
// Pairs live in a single arena. Both orderings map their key to the same arena
// slot, so removing a pair through either side releases both entries and the
// slot together.
package bimap

import (
	"iter"

	"github.com/maruel/palettedb/internal/sorted"
)

// Pair is one left/right association.
type Pair[L, R any] struct {
	Left  L
	Right R
}

// EvictKind describes what an [Map.Insert] displaced.
type EvictKind int

const (
	// Inserted means neither key was present.
	Inserted EvictKind = iota
	// Existed means the identical pair was already present; nothing changed.
	Existed
	// ReplacedLeft means the old pair keyed by the left value was evicted.
	ReplacedLeft
	// ReplacedRight means the old pair keyed by the right value was evicted.
	ReplacedRight
	// ReplacedBoth means two distinct old pairs were evicted.
	ReplacedBoth
)

func (k EvictKind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case Existed:
		return "existed"
	case ReplacedLeft:
		return "replaced_left"
	case ReplacedRight:
		return "replaced_right"
	case ReplacedBoth:
		return "replaced_both"
	default:
		return "unknown"
	}
}

// Evicted is the tagged result of [Map.Insert].
//
// Left holds the evicted pair that was keyed by the inserted left value and is
// set for ReplacedLeft and ReplacedBoth. Right holds the evicted pair that was
// keyed by the inserted right value and is set for ReplacedRight and
// ReplacedBoth.
type Evicted[L, R any] struct {
	Kind  EvictKind
	Left  Pair[L, R]
	Right Pair[L, R]
}

// Map is a bijection between L and R values.
//
// Map is not safe for concurrent use.
type Map[L, R any] struct {
	slots []Pair[L, R]
	free  []int
	left  *sorted.Map[L, int]
	right *sorted.Map[R, int]
}

// New returns an empty bijection ordered by cmpL on the left and cmpR on the
// right.
func New[L, R any](cmpL func(a, b L) int, cmpR func(a, b R) int) *Map[L, R] {
	return &Map[L, R]{
		left:  sorted.New[L, int](cmpL),
		right: sorted.New[R, int](cmpR),
	}
}

// Len returns the number of pairs.
func (m *Map[L, R]) Len() int {
	return m.left.Len()
}

// Insert associates l with r and reports what was evicted to make room.
func (m *Map[L, R]) Insert(l L, r R) Evicted[L, R] {
	ls, lok := m.left.Get(l)
	rs, rok := m.right.Get(r)
	var ev Evicted[L, R]
	switch {
	case lok && rok && ls == rs:
		return Evicted[L, R]{Kind: Existed}
	case lok && rok:
		ev = Evicted[L, R]{Kind: ReplacedBoth, Left: m.slots[ls], Right: m.slots[rs]}
		m.release(ls)
		m.release(rs)
	case lok:
		ev = Evicted[L, R]{Kind: ReplacedLeft, Left: m.slots[ls]}
		m.release(ls)
	case rok:
		ev = Evicted[L, R]{Kind: ReplacedRight, Right: m.slots[rs]}
		m.release(rs)
	default:
		ev = Evicted[L, R]{Kind: Inserted}
	}
	s := m.alloc(Pair[L, R]{Left: l, Right: r})
	m.left.Put(l, s)
	m.right.Put(r, s)
	return ev
}

// GetByLeft returns the right value associated with l.
func (m *Map[L, R]) GetByLeft(l L) (R, bool) {
	s, ok := m.left.Get(l)
	if !ok {
		var zero R
		return zero, false
	}
	return m.slots[s].Right, true
}

// GetByRight returns the left value associated with r.
func (m *Map[L, R]) GetByRight(r R) (L, bool) {
	s, ok := m.right.Get(r)
	if !ok {
		var zero L
		return zero, false
	}
	return m.slots[s].Left, true
}

// RemoveByLeft removes the pair keyed by l and returns its right value.
func (m *Map[L, R]) RemoveByLeft(l L) (R, bool) {
	s, ok := m.left.Get(l)
	if !ok {
		var zero R
		return zero, false
	}
	r := m.slots[s].Right
	m.release(s)
	return r, true
}

// RemoveByRight removes the pair keyed by r and returns its left value.
func (m *Map[L, R]) RemoveByRight(r R) (L, bool) {
	s, ok := m.right.Get(r)
	if !ok {
		var zero L
		return zero, false
	}
	l := m.slots[s].Left
	m.release(s)
	return l, true
}

// ByLeft iterates over pairs in left-key order.
func (m *Map[L, R]) ByLeft() iter.Seq2[L, R] {
	return func(yield func(L, R) bool) {
		for _, s := range m.left.All() {
			p := m.slots[s]
			if !yield(p.Left, p.Right) {
				return
			}
		}
	}
}

// ByRight iterates over pairs in right-key order.
func (m *Map[L, R]) ByRight() iter.Seq2[L, R] {
	return func(yield func(L, R) bool) {
		for _, s := range m.right.All() {
			p := m.slots[s]
			if !yield(p.Left, p.Right) {
				return
			}
		}
	}
}

func (m *Map[L, R]) alloc(p Pair[L, R]) int {
	if n := len(m.free); n > 0 {
		s := m.free[n-1]
		m.free = m.free[:n-1]
		m.slots[s] = p
		return s
	}
	m.slots = append(m.slots, p)
	return len(m.slots) - 1
}

// release drops both index entries of slot s and recycles it.
func (m *Map[L, R]) release(s int) {
	p := m.slots[s]
	m.left.Remove(p.Left)
	m.right.Remove(p.Right)
	m.slots[s] = Pair[L, R]{}
	m.free = append(m.free, s)
}
