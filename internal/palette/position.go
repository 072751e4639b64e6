package palette

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Position is a cell coordinate ordered by page, then line, then column.
type Position struct {
	Page   uint16 `json:"page"`
	Line   uint16 `json:"line"`
	Column uint16 `json:"column"`
}

// MaxPosition is the last addressable position.
var MaxPosition = Position{Page: math.MaxUint16, Line: math.MaxUint16, Column: math.MaxUint16}

// Compare orders positions lexicographically.
func (p Position) Compare(o Position) int {
	if c := cmp.Compare(p.Page, o.Page); c != 0 {
		return c
	}
	if c := cmp.Compare(p.Line, o.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, o.Column)
}

// Next returns the position immediately after p, advancing column, then line,
// then page. It returns false past MaxPosition.
func (p Position) Next() (Position, bool) {
	switch {
	case p.Column < math.MaxUint16:
		p.Column++
	case p.Line < math.MaxUint16:
		p.Line++
		p.Column = 0
	case p.Page < math.MaxUint16:
		p.Page++
		p.Line, p.Column = 0, 0
	default:
		return p, false
	}
	return p, true
}

// Succ returns the position after p. It panics when p is MaxPosition since
// there is no position past the end of the grid.
func (p Position) Succ() Position {
	n, ok := p.Next()
	if !ok {
		panic("palette: position page overflow")
	}
	return n
}

// String returns "page.line.column".
func (p Position) String() string {
	return fmt.Sprintf("%d.%d.%d", p.Page, p.Line, p.Column)
}

// Axis is one coordinate of a PositionSelector; a non-fixed axis matches any
// value.
type Axis struct {
	Value uint16
	Fixed bool
}

// At returns a fixed axis.
func At(v uint16) Axis {
	return Axis{Value: v, Fixed: true}
}

// Any is the wildcard axis.
var Any = Axis{}

func (a Axis) matches(v uint16) bool {
	return !a.Fixed || a.Value == v
}

func (a Axis) low() uint16 {
	if a.Fixed {
		return a.Value
	}
	return 0
}

func (a Axis) high() uint16 {
	if a.Fixed {
		return a.Value
	}
	return math.MaxUint16
}

// Compare orders wildcards before fixed values.
func (a Axis) Compare(o Axis) int {
	if a.Fixed != o.Fixed {
		if a.Fixed {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Value, o.Value)
}

func (a Axis) String() string {
	if !a.Fixed {
		return wildcard
	}
	return strconv.FormatUint(uint64(a.Value), 10)
}

// PositionSelector matches positions whose fixed axes equal the given values.
type PositionSelector struct {
	Page   Axis
	Line   Axis
	Column Axis
}

// SelectPosition returns the selector matching exactly p.
func SelectPosition(p Position) PositionSelector {
	return PositionSelector{Page: At(p.Page), Line: At(p.Line), Column: At(p.Column)}
}

// Concrete returns the position when every axis is fixed.
func (s PositionSelector) Concrete() (Position, bool) {
	if !s.Page.Fixed || !s.Line.Fixed || !s.Column.Fixed {
		return Position{}, false
	}
	return Position{Page: s.Page.Value, Line: s.Line.Value, Column: s.Column.Value}, true
}

// Matches reports whether p satisfies every fixed axis.
func (s PositionSelector) Matches(p Position) bool {
	return s.Page.matches(p.Page) && s.Line.matches(p.Line) && s.Column.matches(p.Column)
}

// Bounds returns the tightest [low, high] range enclosing every match.
func (s PositionSelector) Bounds() (low, high Position) {
	low = Position{Page: s.Page.low(), Line: s.Line.low(), Column: s.Column.low()}
	high = Position{Page: s.Page.high(), Line: s.Line.high(), Column: s.Column.high()}
	return low, high
}

// CeilMatch returns the smallest matching position >= p.
func (s PositionSelector) CeilMatch(p Position) (Position, bool) {
	axes := [3]Axis{s.Page, s.Line, s.Column}
	v := [3]uint16{p.Page, p.Line, p.Column}
	// Find the first axis that does not match.
	k := 0
	for k < 3 && axes[k].matches(v[k]) {
		k++
	}
	if k == 3 {
		return p, true
	}
	out := v
	if axes[k].Value > v[k] {
		out[k] = axes[k].Value
	} else {
		// Carry into the closest preceding wildcard axis that can grow.
		j := k - 1
		for j >= 0 && (axes[j].Fixed || v[j] == math.MaxUint16) {
			j--
		}
		if j < 0 {
			return Position{}, false
		}
		out[j]++
		k = j
	}
	for i := k + 1; i < 3; i++ {
		out[i] = axes[i].low()
	}
	return Position{Page: out[0], Line: out[1], Column: out[2]}, true
}

// Compare orders selectors axis by axis.
func (s PositionSelector) Compare(o PositionSelector) int {
	if c := s.Page.Compare(o.Page); c != 0 {
		return c
	}
	if c := s.Line.Compare(o.Line); c != 0 {
		return c
	}
	return s.Column.Compare(o.Column)
}

// String returns "page.line.column" with "*" for wildcard axes.
func (s PositionSelector) String() string {
	return s.Page.String() + "." + s.Line.String() + "." + s.Column.String()
}

// MarshalText implements encoding.TextMarshaler.
func (s PositionSelector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *PositionSelector) UnmarshalText(b []byte) error {
	parts := strings.Split(string(b), ".")
	if len(parts) != 3 {
		return fmt.Errorf("invalid position selector %q: want page.line.column", b)
	}
	var axes [3]Axis
	for i, part := range parts {
		if part == wildcard {
			continue
		}
		v, err := strconv.ParseUint(part, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid position selector %q: %w", b, err)
		}
		axes[i] = At(uint16(v))
	}
	*s = PositionSelector{Page: axes[0], Line: axes[1], Column: axes[2]}
	return nil
}
