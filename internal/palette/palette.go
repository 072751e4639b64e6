// Package palette implements the cell store: a primary table of cells keyed
// by index, and the secondary name, position and group namespaces that
// resolve to those indices.
//
// # Namespaces
//
// Every cell has a primary uint32 index. Positions map many-to-one onto
// indices. Names map one-to-one onto position selectors. Groups are ordered
// sequences of indices where a member is addressed by its ordinal. Secondary
// entries may outlive the cell they point at; resolution filters them.
//
// # Mutation
//
// Every mutating method performs one primitive edit and returns the
// operations that exactly undo it. [Palette.ApplyOperations] collects those
// inverses into a [History] batch, and [Palette.Undo]/[Palette.Redo] replay
// batches through the same code path.
//
// # Concurrency
//
// A Palette is a plain in-memory structure with no locking. Iterators
// returned by [Palette.Resolve] read live state and must be consumed before
// the next mutation.
package palette

import (
	"cmp"
	"iter"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/maruel/palettedb/internal/bimap"
	"github.com/maruel/palettedb/internal/sorted"
)

// Palette is the storage engine.
type Palette struct {
	cells     *sorted.Map[uint32, Cell]
	nextIndex uint32
	names     *bimap.Map[string, PositionSelector]
	positions *sorted.Map[Position, uint32]
	// byIndex is the non-unique reverse of positions.
	byIndex map[uint32]map[Position]struct{}
	groups  map[string][]uint32
}

// New returns an empty palette.
func New() *Palette {
	return &Palette{
		cells:     sorted.New[uint32, Cell](cmp.Compare[uint32]),
		names:     bimap.New[string, PositionSelector](strings.Compare, PositionSelector.Compare),
		positions: sorted.New[Position, uint32](Position.Compare),
		byIndex:   make(map[uint32]map[Position]struct{}),
		groups:    make(map[string][]uint32),
	}
}

// Len returns the number of stored cells.
func (p *Palette) Len() int {
	return p.cells.Len()
}

// Cell returns the cell stored at index.
func (p *Palette) Cell(index uint32) (Cell, bool) {
	return p.cells.Get(index)
}

// Cells iterates over stored cells in index order.
func (p *Palette) Cells() iter.Seq2[uint32, Cell] {
	return p.cells.All()
}

// Names iterates over name assignments in name order.
func (p *Palette) Names() iter.Seq2[string, PositionSelector] {
	return p.names.ByLeft()
}

// Name returns the selector assigned to name.
func (p *Palette) Name(name string) (PositionSelector, bool) {
	return p.names.GetByLeft(name)
}

// NameOf returns the name assigned to the selector.
func (p *Palette) NameOf(s PositionSelector) (string, bool) {
	return p.names.GetByRight(s)
}

// Positions iterates over position assignments in position order.
func (p *Palette) Positions() iter.Seq2[Position, uint32] {
	return p.positions.All()
}

// PositionsOf returns the positions assigned to index in ascending order.
func (p *Palette) PositionsOf(index uint32) []Position {
	return slices.SortedFunc(maps.Keys(p.byIndex[index]), Position.Compare)
}

// Groups returns the group names in ascending order.
func (p *Palette) Groups() []string {
	return slices.Sorted(maps.Keys(p.groups))
}

// Group returns a copy of the members of group in ordinal order.
func (p *Palette) Group(name string) []uint32 {
	return slices.Clone(p.groups[name])
}

// NextIndex returns the first unoccupied index at or after the allocation
// hint. It returns false when every such index is taken.
func (p *Palette) NextIndex() (uint32, bool) {
	i := p.nextIndex
	for {
		if !p.cells.Has(i) {
			return i, true
		}
		if i == math.MaxUint32 {
			return 0, false
		}
		i++
	}
}

// ResolveRef returns the index that r currently designates.
//
// An index reference requires a stored cell. Position, name and group
// references only require an assignment; the cell they point at may have been
// removed.
func (p *Palette) ResolveRef(r CellRef) (uint32, error) {
	switch r.Kind {
	case RefIndex:
		if p.cells.Has(r.Index) {
			return r.Index, nil
		}
	case RefPosition:
		if i, ok := p.positions.Get(r.Position); ok {
			return i, nil
		}
	case RefName:
		if s, ok := p.names.GetByLeft(r.Name); ok {
			if pos, ok := s.Concrete(); ok {
				if i, ok := p.positions.Get(pos); ok {
					return i, nil
				}
			}
		}
	case RefGroup:
		if members := p.groups[r.Name]; uint64(r.Ordinal) < uint64(len(members)) {
			return members[r.Ordinal], nil
		}
	}
	return 0, &UndefinedCellReferenceError{Ref: r}
}

// occupied reports whether index holds a cell.
func (p *Palette) occupied(index uint32) bool {
	return p.cells.Has(index)
}
