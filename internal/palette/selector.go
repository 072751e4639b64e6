package palette

import (
	"strconv"
	"strings"
)

// SelectorKind discriminates CellSelector.
type SelectorKind string

const (
	SelectorAll           SelectorKind = "all"
	SelectorIndex         SelectorKind = "index"
	SelectorIndexRange    SelectorKind = "index_range"
	SelectorPosition      SelectorKind = "position"
	SelectorPositionRange SelectorKind = "position_range"
	SelectorMatching      SelectorKind = "position_selector"
	SelectorName          SelectorKind = "name"
	SelectorGroup         SelectorKind = "group"
	SelectorGroupRange    SelectorKind = "group_range"
	SelectorGroupAll      SelectorKind = "group_all"
)

// CellSelector describes a set of cells.
//
// Low and High hold indices for index selectors and ordinals for group
// selectors; LowPos and HighPos hold positions; Name holds the cell or group
// name.
type CellSelector struct {
	Kind     SelectorKind     `json:"kind"`
	Low      uint32           `json:"low,omitempty"`
	High     uint32           `json:"high,omitempty"`
	LowPos   Position         `json:"low_pos,omitzero"`
	HighPos  Position         `json:"high_pos,omitzero"`
	Selector PositionSelector `json:"selector,omitzero"`
	Name     string           `json:"name,omitempty"`
}

// All selects every occupied cell.
func All() CellSelector {
	return CellSelector{Kind: SelectorAll}
}

// SelectRef selects the single cell referenced by r.
func SelectRef(r CellRef) CellSelector {
	switch r.Kind {
	case RefIndex:
		return CellSelector{Kind: SelectorIndex, Low: r.Index, High: r.Index}
	case RefPosition:
		return CellSelector{Kind: SelectorPosition, LowPos: r.Position, HighPos: r.Position}
	case RefName:
		return CellSelector{Kind: SelectorName, Name: r.Name}
	default:
		return CellSelector{Kind: SelectorGroup, Name: r.Name, Low: r.Ordinal, High: r.Ordinal}
	}
}

// IndexRange selects indices in [low, high].
func IndexRange(low, high uint32) (CellSelector, error) {
	return NewRange(IndexRef(low), IndexRef(high))
}

// PositionRange selects positions in [low, high].
func PositionRange(low, high Position) (CellSelector, error) {
	return NewRange(PositionRef(low), PositionRef(high))
}

// GroupRange selects ordinals [low, high] of group.
func GroupRange(group string, low, high uint32) (CellSelector, error) {
	return NewRange(GroupRef(group, low), GroupRef(group, high))
}

// GroupAll selects every member of group.
func GroupAll(group string) CellSelector {
	return CellSelector{Kind: SelectorGroupAll, Name: group}
}

// Matching selects the positions matched by s. A fully fixed selector
// collapses to a single position.
func Matching(s PositionSelector) CellSelector {
	if p, ok := s.Concrete(); ok {
		return SelectRef(PositionRef(p))
	}
	return CellSelector{Kind: SelectorMatching, Selector: s}
}

// NewRange builds the range selector spanning low to high inclusive.
//
// Both endpoints must be the same kind of reference (and the same group for
// group references). Equal endpoints collapse to the single-cell selector.
func NewRange(low, high CellRef) (CellSelector, error) {
	if low.Kind != high.Kind || low.Kind == RefName || (low.Kind == RefGroup && low.Name != high.Name) {
		return CellSelector{}, &RangeMismatchError{Low: low, High: high}
	}
	if low == high {
		return SelectRef(low), nil
	}
	switch low.Kind {
	case RefIndex:
		if low.Index > high.Index {
			return CellSelector{}, &RangeOrderError{Low: low, High: high}
		}
		return CellSelector{Kind: SelectorIndexRange, Low: low.Index, High: high.Index}, nil
	case RefPosition:
		if low.Position.Compare(high.Position) > 0 {
			return CellSelector{}, &RangeOrderError{Low: low, High: high}
		}
		return CellSelector{Kind: SelectorPositionRange, LowPos: low.Position, HighPos: high.Position}, nil
	default:
		if low.Ordinal > high.Ordinal {
			return CellSelector{}, &RangeOrderError{Low: low, High: high}
		}
		return CellSelector{Kind: SelectorGroupRange, Name: low.Name, Low: low.Ordinal, High: high.Ordinal}, nil
	}
}

// String returns the textual form of the selector.
func (s CellSelector) String() string {
	switch s.Kind {
	case SelectorAll:
		return wildcard
	case SelectorIndex:
		return IndexRef(s.Low).String()
	case SelectorIndexRange:
		return IndexRef(s.Low).String() + "-" + IndexRef(s.High).String()
	case SelectorPosition:
		return PositionRef(s.LowPos).String()
	case SelectorPositionRange:
		return PositionRef(s.LowPos).String() + "-" + PositionRef(s.HighPos).String()
	case SelectorMatching:
		return prefix + s.Selector.String()
	case SelectorName:
		return s.Name
	case SelectorGroup:
		return GroupRef(s.Name, s.Low).String()
	case SelectorGroupRange:
		return GroupRef(s.Name, s.Low).String() + "-" + GroupRef(s.Name, s.High).String()
	case SelectorGroupAll:
		return s.Name + prefix + wildcard
	default:
		return "<invalid selector " + strconv.Quote(string(s.Kind)) + ">"
	}
}

// CellSelection is an ordered union of selectors.
type CellSelection []CellSelector

// String returns the comma-separated selectors.
func (s CellSelection) String() string {
	parts := make([]string, len(s))
	for i, sel := range s {
		parts[i] = sel.String()
	}
	return strings.Join(parts, ", ")
}
