package palette

import (
	"fmt"
)

// OpKind discriminates Operation.
type OpKind string

const (
	OpInsertCell       OpKind = "insert_cell"
	OpRemoveCell       OpKind = "remove_cell"
	OpAssignName       OpKind = "assign_name"
	OpUnassignName     OpKind = "unassign_name"
	OpAssignPosition   OpKind = "assign_position"
	OpUnassignPosition OpKind = "unassign_position"
	OpClearPositions   OpKind = "clear_positions"
	OpAssignGroup      OpKind = "assign_group"
	OpUnassignGroup    OpKind = "unassign_group"
	OpClearGroups      OpKind = "clear_groups"
	OpSetExpr          OpKind = "set_expr"
)

// Operation is one primitive, reversible edit.
//
// Fields are used depending on Kind:
//
//	insert_cell        Index, Expr
//	remove_cell        Index
//	assign_name        Name, Selector
//	unassign_name      Name
//	assign_position    Position, Index
//	unassign_position  Position
//	clear_positions    Index
//	assign_group       Index, Group, Ordinal unless Append
//	unassign_group     Group, Ordinal
//	clear_groups       Index
//	set_expr           Index, Expr
type Operation struct {
	Kind     OpKind           `json:"kind"`
	Index    uint32           `json:"index,omitempty"`
	Expr     Expr             `json:"expr,omitzero"`
	Name     string           `json:"name,omitempty"`
	Selector PositionSelector `json:"selector,omitzero"`
	Position Position         `json:"position,omitzero"`
	Group    string           `json:"group,omitempty"`
	Ordinal  uint32           `json:"ordinal,omitempty"`
	Append   bool             `json:"append,omitempty"`
}

// InsertCellOp stores a cell holding expr at index.
func InsertCellOp(index uint32, expr Expr) Operation {
	return Operation{Kind: OpInsertCell, Index: index, Expr: expr}
}

// RemoveCellOp deletes the cell at index.
func RemoveCellOp(index uint32) Operation {
	return Operation{Kind: OpRemoveCell, Index: index}
}

// AssignNameOp names the selector.
func AssignNameOp(s PositionSelector, name string) Operation {
	return Operation{Kind: OpAssignName, Name: name, Selector: s}
}

// UnassignNameOp removes a name.
func UnassignNameOp(name string) Operation {
	return Operation{Kind: OpUnassignName, Name: name}
}

// AssignPositionOp points pos at index.
func AssignPositionOp(pos Position, index uint32) Operation {
	return Operation{Kind: OpAssignPosition, Position: pos, Index: index}
}

// UnassignPositionOp removes the assignment of pos.
func UnassignPositionOp(pos Position) Operation {
	return Operation{Kind: OpUnassignPosition, Position: pos}
}

// ClearPositionsOp removes every position pointing at index.
func ClearPositionsOp(index uint32) Operation {
	return Operation{Kind: OpClearPositions, Index: index}
}

// AssignGroupOp inserts index into group at ordinal.
func AssignGroupOp(index uint32, group string, ordinal uint32) Operation {
	return Operation{Kind: OpAssignGroup, Index: index, Group: group, Ordinal: ordinal}
}

// AppendGroupOp appends index to group.
func AppendGroupOp(index uint32, group string) Operation {
	return Operation{Kind: OpAssignGroup, Index: index, Group: group, Append: true}
}

// UnassignGroupOp removes the member at ordinal from group.
func UnassignGroupOp(group string, ordinal uint32) Operation {
	return Operation{Kind: OpUnassignGroup, Group: group, Ordinal: ordinal}
}

// ClearGroupsOp removes index from every group.
func ClearGroupsOp(index uint32) Operation {
	return Operation{Kind: OpClearGroups, Index: index}
}

// SetExprOp replaces the expression of the cell at index.
func SetExprOp(index uint32, expr Expr) Operation {
	return Operation{Kind: OpSetExpr, Index: index, Expr: expr}
}

func (o Operation) String() string {
	switch o.Kind {
	case OpInsertCell, OpSetExpr:
		return fmt.Sprintf("%s %s %s", o.Kind, IndexRef(o.Index), o.Expr)
	case OpRemoveCell, OpClearPositions, OpClearGroups:
		return fmt.Sprintf("%s %s", o.Kind, IndexRef(o.Index))
	case OpAssignName:
		return fmt.Sprintf("%s %s :%s", o.Kind, o.Name, o.Selector)
	case OpUnassignName:
		return fmt.Sprintf("%s %s", o.Kind, o.Name)
	case OpAssignPosition:
		return fmt.Sprintf("%s %s %s", o.Kind, PositionRef(o.Position), IndexRef(o.Index))
	case OpUnassignPosition:
		return fmt.Sprintf("%s %s", o.Kind, PositionRef(o.Position))
	case OpAssignGroup:
		if o.Append {
			return fmt.Sprintf("%s %s %s+", o.Kind, IndexRef(o.Index), o.Group)
		}
		return fmt.Sprintf("%s %s %s", o.Kind, IndexRef(o.Index), GroupRef(o.Group, o.Ordinal))
	case OpUnassignGroup:
		return fmt.Sprintf("%s %s", o.Kind, GroupRef(o.Group, o.Ordinal))
	default:
		return fmt.Sprintf("<invalid operation %q>", o.Kind)
	}
}

// Apply performs o and returns the operations that undo it.
func (p *Palette) Apply(o Operation) ([]Operation, error) {
	switch o.Kind {
	case OpInsertCell:
		return p.InsertCell(o.Index, Cell{Expr: o.Expr})
	case OpRemoveCell:
		return p.RemoveCell(o.Index), nil
	case OpAssignName:
		return p.AssignName(o.Selector, o.Name), nil
	case OpUnassignName:
		return p.UnassignName(o.Name), nil
	case OpAssignPosition:
		return p.AssignPosition(o.Position, o.Index), nil
	case OpUnassignPosition:
		return p.UnassignPosition(o.Position), nil
	case OpClearPositions:
		return p.ClearPositions(o.Index), nil
	case OpAssignGroup:
		if o.Append {
			return p.AppendGroup(o.Index, o.Group), nil
		}
		return p.AssignGroup(o.Index, o.Group, o.Ordinal)
	case OpUnassignGroup:
		return p.UnassignGroup(o.Group, o.Ordinal)
	case OpClearGroups:
		return p.ClearGroups(o.Index), nil
	case OpSetExpr:
		return p.SetExpr(o.Index, o.Expr)
	default:
		return nil, fmt.Errorf("unknown operation kind %q", o.Kind)
	}
}

// ApplyOperations applies ops in order.
//
// The inverse of the whole sequence is pushed onto h as one batch when h is
// not nil. A failure stops the sequence: edits already made stay applied and
// their inverses are still recorded, so the applied prefix remains undoable.
func (p *Palette) ApplyOperations(ops []Operation, h *History) error {
	undo, err := p.applyBatch(ops)
	if h != nil && len(undo) != 0 {
		h.Push(undo)
	}
	return err
}

// applyBatch applies ops and returns the inverse batch: the inverses of the
// last operation first, each in the order returned by the primitive.
func (p *Palette) applyBatch(ops []Operation) ([]Operation, error) {
	var inverses [][]Operation
	var err error
	for _, o := range ops {
		var inv []Operation
		if inv, err = p.Apply(o); err != nil {
			err = fmt.Errorf("failed to apply %s: %w", o, err)
			break
		}
		inverses = append(inverses, inv)
	}
	var out []Operation
	for k := len(inverses) - 1; k >= 0; k-- {
		out = append(out, inverses[k]...)
	}
	return out, err
}

// Undo reverts up to n batches from h and returns how many were reverted.
func (p *Palette) Undo(h *History, n int) (int, error) {
	done := 0
	for done < n {
		ok, err := h.UndoWith(p.applyBatch)
		if err != nil {
			return done, err
		}
		if !ok {
			break
		}
		done++
	}
	return done, nil
}

// Redo reapplies up to n batches from h and returns how many were reapplied.
func (p *Palette) Redo(h *History, n int) (int, error) {
	done := 0
	for done < n {
		ok, err := h.RedoWith(p.applyBatch)
		if err != nil {
			return done, err
		}
		if !ok {
			break
		}
		done++
	}
	return done, nil
}
