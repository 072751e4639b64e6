package palette

import (
	"iter"
	"math"

	"github.com/maruel/palettedb/internal/sorted"
)

// Resolve lazily yields the occupied indices selected by s.
//
// Ranges are walked through bounded occupancy queries so the cost is
// proportional to the entries visited, never to the width of the range.
// Indices are yielded in the selector's natural order (index, position or
// ordinal order) and may repeat when several positions or group slots point
// at the same cell. The palette must not be mutated while iterating.
func (p *Palette) Resolve(s CellSelector) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		switch s.Kind {
		case SelectorAll:
			p.walkIndices(0, math.MaxUint32, yield)
		case SelectorIndex:
			if p.occupied(s.Low) {
				yield(s.Low)
			}
		case SelectorIndexRange:
			p.walkIndices(s.Low, s.High, yield)
		case SelectorPosition:
			p.walkPositions(s.LowPos, s.LowPos, PositionSelector{}, yield)
		case SelectorPositionRange:
			p.walkPositions(s.LowPos, s.HighPos, PositionSelector{}, yield)
		case SelectorMatching:
			low, high := s.Selector.Bounds()
			p.walkPositions(low, high, s.Selector, yield)
		case SelectorName:
			sel, ok := p.names.GetByLeft(s.Name)
			if !ok {
				return
			}
			low, high := sel.Bounds()
			p.walkPositions(low, high, sel, yield)
		case SelectorGroup:
			p.walkGroup(s.Name, s.Low, s.Low, yield)
		case SelectorGroupRange:
			p.walkGroup(s.Name, s.Low, s.High, yield)
		case SelectorGroupAll:
			p.walkGroup(s.Name, 0, math.MaxUint32, yield)
		}
	}
}

// ResolveSelection returns the union of every selector's indices.
func (p *Palette) ResolveSelection(sel CellSelection) IndexSelection {
	var out IndexSelection
	for _, s := range sel {
		if s.Kind == SelectorAll {
			out = IndexSelection{}
			for i := range p.Resolve(s) {
				out.Add(i)
			}
			return out
		}
	}
	for _, s := range sel {
		for i := range p.Resolve(s) {
			out.Add(i)
		}
	}
	return out
}

// walkIndices yields every stored index in [low, high].
func (p *Palette) walkIndices(low, high uint32, yield func(uint32) bool) {
	for {
		b := p.cells.Bounds(low, high)
		switch b.Count {
		case 0:
			return
		case 1:
			yield(b.Low)
			return
		}
		if !yield(b.Low) {
			return
		}
		// b.Low < b.High so b.Low+1 cannot overflow.
		low = b.Low + 1
	}
}

// walkPositions yields the occupied index of every assigned position in
// [low, high] that matches mask.
func (p *Palette) walkPositions(low, high Position, mask PositionSelector, yield func(uint32) bool) {
	emit := func(pos Position) bool {
		i, _ := p.positions.Get(pos)
		if !p.occupied(i) {
			return true
		}
		return yield(i)
	}
	for {
		b := p.positions.Bounds(low, high)
		if b.Empty() {
			return
		}
		if !mask.Matches(b.Low) {
			// Skip straight to the next position the mask can accept.
			next, ok := mask.CeilMatch(b.Low)
			if !ok {
				return
			}
			low = next
			continue
		}
		if !emit(b.Low) {
			return
		}
		if b.Count == 1 {
			return
		}
		next, ok := b.Low.Next()
		if !ok {
			return
		}
		low = next
	}
}

// walkGroup yields the occupied members of group at ordinals [low, high].
func (p *Palette) walkGroup(group string, low, high uint32, yield func(uint32) bool) {
	members := p.groups[group]
	for {
		b := groupBounds(members, low, high)
		if b.Empty() {
			return
		}
		if i := members[b.Low]; p.occupied(i) {
			if !yield(i) {
				return
			}
		}
		if b.Count == 1 {
			return
		}
		low = b.Low + 1
	}
}

// groupBounds clips [low, high] to the ordinals present in members.
func groupBounds(members []uint32, low, high uint32) sorted.Bounds[uint32] {
	n := uint64(len(members))
	if n == 0 || uint64(low) >= n || low > high {
		return sorted.Bounds[uint32]{}
	}
	if uint64(high) >= n {
		high = uint32(n - 1)
	}
	if low == high {
		return sorted.Bounds[uint32]{Count: 1, Low: low, High: low}
	}
	return sorted.Bounds[uint32]{Count: 2, Low: low, High: high}
}
