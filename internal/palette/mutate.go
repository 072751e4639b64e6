package palette

import (
	"math"
	"slices"

	"github.com/maruel/palettedb/internal/bimap"
)

// InsertCell stores cell at index, replacing any previous cell.
func (p *Palette) InsertCell(index uint32, cell Cell) ([]Operation, error) {
	if err := cell.Expr.Validate(); err != nil {
		return nil, err
	}
	old, existed := p.cells.Put(index, cell)
	if index >= p.nextIndex && index < math.MaxUint32 {
		p.nextIndex = index + 1
	}
	if existed {
		return []Operation{InsertCellOp(index, old.Expr)}, nil
	}
	return []Operation{RemoveCellOp(index)}, nil
}

// AddCell stores a cell holding expr at [Palette.NextIndex].
func (p *Palette) AddCell(expr Expr) (uint32, []Operation, error) {
	index, ok := p.NextIndex()
	if !ok {
		return 0, nil, &UndefinedCellReferenceError{Ref: IndexRef(math.MaxUint32)}
	}
	undo, err := p.InsertCell(index, Cell{Expr: expr})
	return index, undo, err
}

// RemoveCell deletes the cell at index. Names, positions and group slots
// pointing at it are left in place.
func (p *Palette) RemoveCell(index uint32) []Operation {
	old, ok := p.cells.Remove(index)
	if !ok {
		return nil
	}
	return []Operation{InsertCellOp(index, old.Expr)}
}

// SetExpr replaces the expression of the stored cell at index.
func (p *Palette) SetExpr(index uint32, expr Expr) ([]Operation, error) {
	if err := expr.Validate(); err != nil {
		return nil, err
	}
	old, ok := p.cells.Get(index)
	if !ok {
		return nil, &UndefinedCellReferenceError{Ref: IndexRef(index)}
	}
	if old.Expr == expr {
		return nil, nil
	}
	p.cells.Put(index, Cell{Expr: expr})
	return []Operation{SetExprOp(index, old.Expr)}, nil
}

// AssignName names the selector s. Any previous selector of name and any
// previous name of s are dropped to keep the mapping one-to-one.
func (p *Palette) AssignName(s PositionSelector, name string) []Operation {
	ev := p.names.Insert(name, s)
	switch ev.Kind {
	case bimap.Existed:
		return nil
	case bimap.ReplacedLeft:
		return []Operation{AssignNameOp(ev.Left.Right, name)}
	case bimap.ReplacedRight:
		return []Operation{AssignNameOp(s, ev.Right.Left)}
	case bimap.ReplacedBoth:
		return []Operation{
			AssignNameOp(ev.Left.Right, name),
			AssignNameOp(s, ev.Right.Left),
		}
	default:
		return []Operation{UnassignNameOp(name)}
	}
}

// UnassignName removes name.
func (p *Palette) UnassignName(name string) []Operation {
	s, ok := p.names.RemoveByLeft(name)
	if !ok {
		return nil
	}
	return []Operation{AssignNameOp(s, name)}
}

// AssignPosition points pos at index.
func (p *Palette) AssignPosition(pos Position, index uint32) []Operation {
	old, existed := p.positions.Put(pos, index)
	if existed {
		if old == index {
			return nil
		}
		p.unlinkPosition(pos, old)
	}
	set := p.byIndex[index]
	if set == nil {
		set = make(map[Position]struct{})
		p.byIndex[index] = set
	}
	set[pos] = struct{}{}
	if existed {
		return []Operation{AssignPositionOp(pos, old)}
	}
	return []Operation{UnassignPositionOp(pos)}
}

// UnassignPosition removes the assignment of pos.
func (p *Palette) UnassignPosition(pos Position) []Operation {
	old, ok := p.positions.Remove(pos)
	if !ok {
		return nil
	}
	p.unlinkPosition(pos, old)
	return []Operation{AssignPositionOp(pos, old)}
}

// ClearPositions removes every position pointing at index.
func (p *Palette) ClearPositions(index uint32) []Operation {
	var undo []Operation
	for _, pos := range p.PositionsOf(index) {
		p.positions.Remove(pos)
		undo = append(undo, AssignPositionOp(pos, index))
	}
	delete(p.byIndex, index)
	return undo
}

func (p *Palette) unlinkPosition(pos Position, index uint32) {
	set := p.byIndex[index]
	delete(set, pos)
	if len(set) == 0 {
		delete(p.byIndex, index)
	}
}

// AssignGroup inserts index into group at ordinal, shifting later members.
// The ordinal may be at most the current group size.
func (p *Palette) AssignGroup(index uint32, group string, ordinal uint32) ([]Operation, error) {
	members := p.groups[group]
	if uint64(ordinal) > uint64(len(members)) {
		return nil, &GroupIndexOutOfBoundsError{Group: group, Index: ordinal, Max: uint32(len(members))}
	}
	p.groups[group] = slices.Insert(members, int(ordinal), index)
	return []Operation{UnassignGroupOp(group, ordinal)}, nil
}

// AppendGroup appends index to group, creating the group if needed.
func (p *Palette) AppendGroup(index uint32, group string) []Operation {
	ordinal := uint32(len(p.groups[group]))
	p.groups[group] = append(p.groups[group], index)
	return []Operation{UnassignGroupOp(group, ordinal)}
}

// UnassignGroup removes the member at ordinal. The group is deleted when it
// becomes empty.
func (p *Palette) UnassignGroup(group string, ordinal uint32) ([]Operation, error) {
	members := p.groups[group]
	if uint64(ordinal) >= uint64(len(members)) {
		return nil, &UndefinedCellReferenceError{Ref: GroupRef(group, ordinal)}
	}
	index := members[ordinal]
	p.setGroup(group, slices.Delete(members, int(ordinal), int(ordinal)+1))
	return []Operation{AssignGroupOp(index, group, ordinal)}, nil
}

// ClearGroups removes index from every group.
//
// The returned operations reinsert each occurrence in ascending ordinal order,
// which restores the original layout when applied in sequence.
func (p *Palette) ClearGroups(index uint32) []Operation {
	var undo []Operation
	for _, group := range p.Groups() {
		members := p.groups[group]
		kept := members[:0:0]
		for ordinal, m := range members {
			if m == index {
				undo = append(undo, AssignGroupOp(index, group, uint32(ordinal)))
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) != len(members) {
			p.setGroup(group, kept)
		}
	}
	return undo
}

func (p *Palette) setGroup(group string, members []uint32) {
	if len(members) == 0 {
		delete(p.groups, group)
		return
	}
	p.groups[group] = members
}
