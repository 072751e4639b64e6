package palette

import (
	"strconv"
)

const (
	// prefix introduces an index, a position or a group ordinal.
	prefix = ":"
	// wildcard stands for any value of a position axis or every group ordinal.
	wildcard = "*"
)

// RefKind discriminates CellRef.
type RefKind string

const (
	RefIndex    RefKind = "index"
	RefPosition RefKind = "position"
	RefName     RefKind = "name"
	RefGroup    RefKind = "group"
)

// CellRef is a lookup key for a single cell. It does not own cell data.
//
// Name holds the cell name for RefName and the group name for RefGroup.
type CellRef struct {
	Kind     RefKind  `json:"kind"`
	Index    uint32   `json:"index,omitempty"`
	Position Position `json:"position,omitzero"`
	Name     string   `json:"name,omitempty"`
	Ordinal  uint32   `json:"ordinal,omitempty"`
}

// IndexRef refers to a cell by primary index.
func IndexRef(i uint32) CellRef {
	return CellRef{Kind: RefIndex, Index: i}
}

// PositionRef refers to the cell assigned to p.
func PositionRef(p Position) CellRef {
	return CellRef{Kind: RefPosition, Position: p}
}

// NameRef refers to the cell at the position named name.
func NameRef(name string) CellRef {
	return CellRef{Kind: RefName, Name: name}
}

// GroupRef refers to the ordinal-th member of group.
func GroupRef(group string, ordinal uint32) CellRef {
	return CellRef{Kind: RefGroup, Name: group, Ordinal: ordinal}
}

// String returns the textual form: ":12", ":1.2.3", "name" or "name:3".
func (r CellRef) String() string {
	switch r.Kind {
	case RefIndex:
		return prefix + strconv.FormatUint(uint64(r.Index), 10)
	case RefPosition:
		return prefix + r.Position.String()
	case RefName:
		return r.Name
	case RefGroup:
		return r.Name + prefix + strconv.FormatUint(uint64(r.Ordinal), 10)
	default:
		return "<invalid ref>"
	}
}
