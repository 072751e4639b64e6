package palette

import (
	"slices"

	"github.com/maruel/palettedb/internal/errors"
)

// CellEntry is one stored cell.
type CellEntry struct {
	Index uint32 `json:"index"`
	Expr  Expr   `json:"expr"`
}

// NameEntry is one name assignment.
type NameEntry struct {
	Name     string           `json:"name"`
	Selector PositionSelector `json:"selector"`
}

// PositionEntry is one position assignment.
type PositionEntry struct {
	Position Position `json:"position"`
	Index    uint32   `json:"index"`
}

// GroupEntry is one group and its members in ordinal order.
type GroupEntry struct {
	Name    string   `json:"name"`
	Members []uint32 `json:"members"`
}

// Snapshot is the plain record form of a palette, suitable for persistence.
// Every list is sorted by its key.
type Snapshot struct {
	NextIndex uint32          `json:"next_index"`
	Cells     []CellEntry     `json:"cells"`
	Names     []NameEntry     `json:"names,omitempty"`
	Positions []PositionEntry `json:"positions,omitempty"`
	Groups    []GroupEntry    `json:"groups,omitempty"`
}

// Snapshot returns the current state of p.
func (p *Palette) Snapshot() Snapshot {
	s := Snapshot{NextIndex: p.nextIndex, Cells: make([]CellEntry, 0, p.cells.Len())}
	for i, c := range p.cells.All() {
		s.Cells = append(s.Cells, CellEntry{Index: i, Expr: c.Expr})
	}
	for n, sel := range p.names.ByLeft() {
		s.Names = append(s.Names, NameEntry{Name: n, Selector: sel})
	}
	for pos, i := range p.positions.All() {
		s.Positions = append(s.Positions, PositionEntry{Position: pos, Index: i})
	}
	for _, g := range p.Groups() {
		s.Groups = append(s.Groups, GroupEntry{Name: g, Members: p.Group(g)})
	}
	return s
}

// FromSnapshot rebuilds a palette from s.
//
// It rejects snapshots that no sequence of edits could have produced:
// duplicate keys, a name or selector used twice, and empty groups.
func FromSnapshot(s Snapshot) (*Palette, error) {
	p := New()
	for _, c := range s.Cells {
		if err := c.Expr.Validate(); err != nil {
			return nil, invalid("invalid expression", "index", c.Index).Wrap(err)
		}
		if p.cells.Has(c.Index) {
			return nil, invalid("duplicate cell", "index", c.Index)
		}
		p.cells.Put(c.Index, Cell{Expr: c.Expr})
	}
	p.nextIndex = s.NextIndex
	for _, n := range s.Names {
		if _, ok := p.names.GetByLeft(n.Name); ok {
			return nil, invalid("duplicate name", "name", n.Name)
		}
		if _, ok := p.names.GetByRight(n.Selector); ok {
			return nil, invalid("duplicate named selector", "selector", n.Selector.String())
		}
		p.names.Insert(n.Name, n.Selector)
	}
	for _, e := range s.Positions {
		if p.positions.Has(e.Position) {
			return nil, invalid("duplicate position", "position", e.Position.String())
		}
		p.AssignPosition(e.Position, e.Index)
	}
	for _, g := range s.Groups {
		if len(g.Members) == 0 {
			return nil, invalid("empty group", "group", g.Name)
		}
		if _, ok := p.groups[g.Name]; ok {
			return nil, invalid("duplicate group", "group", g.Name)
		}
		p.groups[g.Name] = slices.Clone(g.Members)
	}
	return p, nil
}

func invalid(msg, key string, value any) *errors.CodedError {
	return errors.New(errors.ErrInvalidDocument, msg).WithDetail(key, value)
}

// Equal reports whether s and o describe the same palette.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.NextIndex == o.NextIndex &&
		slices.Equal(s.Cells, o.Cells) &&
		slices.Equal(s.Names, o.Names) &&
		slices.Equal(s.Positions, o.Positions) &&
		slices.EqualFunc(s.Groups, o.Groups, func(a, b GroupEntry) bool {
			return a.Name == b.Name && slices.Equal(a.Members, b.Members)
		})
}
