package palette

import (
	"fmt"

	"github.com/maruel/palettedb/internal/color"
)

// ExprKind discriminates Expr.
type ExprKind string

const (
	ExprEmpty     ExprKind = "empty"
	ExprColor     ExprKind = "color"
	ExprReference ExprKind = "reference"
	ExprBlend     ExprKind = "blend"
)

// Expr computes a cell's color. The zero value is an empty expression.
type Expr struct {
	Kind  ExprKind    `json:"kind,omitempty"`
	Color color.Color `json:"color,omitzero"`
	Ref   CellRef     `json:"ref,omitzero"`
	Blend Blend       `json:"blend,omitzero"`
}

// BlendFunc selects how a blend combines its operands. Exactly one of Unary
// or Binary is set; Space applies to binary blends only.
type BlendFunc struct {
	Unary  color.UnaryOp  `json:"unary,omitempty"`
	Binary color.BinaryOp `json:"binary,omitempty"`
	Space  color.Space    `json:"space,omitempty"`
}

// Blend combines the colors of Source and Target.
type Blend struct {
	Func   BlendFunc         `json:"func"`
	Source CellRef           `json:"source"`
	Target CellRef           `json:"target"`
	Interp color.Interpolate `json:"interp,omitzero"`
}

// Cell is a stored record holding one expression.
type Cell struct {
	Expr Expr `json:"expr"`
}

// Empty is the expression without a color.
func Empty() Expr {
	return Expr{Kind: ExprEmpty}
}

// Literal is a concrete color.
func Literal(c color.Color) Expr {
	return Expr{Kind: ExprColor, Color: c}
}

// Reference takes the color of another cell.
func Reference(r CellRef) Expr {
	return Expr{Kind: ExprReference, Ref: r}
}

// BinaryBlend combines source over target with op in space.
func BinaryBlend(op color.BinaryOp, space color.Space, source, target CellRef, in color.Interpolate) Expr {
	return Expr{Kind: ExprBlend, Blend: Blend{
		Func:   BlendFunc{Binary: op, Space: space},
		Source: source,
		Target: target,
		Interp: in,
	}}
}

// UnaryBlend copies one channel of source onto target.
func UnaryBlend(op color.UnaryOp, source, target CellRef, in color.Interpolate) Expr {
	return Expr{Kind: ExprBlend, Blend: Blend{
		Func:   BlendFunc{Unary: op},
		Source: source,
		Target: target,
		Interp: in,
	}}
}

// IsEmpty reports whether e has no color of its own.
func (e Expr) IsEmpty() bool {
	return e.Kind == "" || e.Kind == ExprEmpty
}

// Validate checks that the expression is well formed.
func (e Expr) Validate() error {
	switch e.Kind {
	case "", ExprEmpty, ExprColor, ExprReference:
		return nil
	case ExprBlend:
		f := e.Blend.Func
		switch {
		case f.Unary != "" && f.Binary != "":
			return fmt.Errorf("blend has both unary %q and binary %q functions", f.Unary, f.Binary)
		case f.Unary != "":
			if !f.Unary.Valid() {
				return fmt.Errorf("unknown unary blend %q", f.Unary)
			}
		case f.Binary != "":
			if !f.Binary.Valid() {
				return fmt.Errorf("unknown binary blend %q", f.Binary)
			}
			if f.Space != "" && !f.Space.Valid() {
				return fmt.Errorf("unknown color space %q", f.Space)
			}
		default:
			return fmt.Errorf("blend has no function")
		}
		return nil
	default:
		return fmt.Errorf("unknown expression kind %q", e.Kind)
	}
}

func (e Expr) String() string {
	switch e.Kind {
	case "", ExprEmpty:
		return "empty"
	case ExprColor:
		return e.Color.String()
	case ExprReference:
		return e.Ref.String()
	case ExprBlend:
		b := e.Blend
		name := string(b.Func.Binary)
		if b.Func.Unary != "" {
			name = string(b.Func.Unary)
		} else if b.Func.Space != "" {
			name += "/" + string(b.Func.Space)
		}
		return fmt.Sprintf("%s(%s, %s)", name, b.Source, b.Target)
	default:
		return "<invalid expr>"
	}
}
