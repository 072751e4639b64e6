package palette

import (
	"github.com/maruel/palettedb/internal/color"
)

// Color evaluates the cell designated by r.
//
// It returns false with a nil error when the cell exists but has no color,
// either because its expression is empty or because a blend operand is empty.
func (p *Palette) Color(r CellRef) (color.Color, bool, error) {
	return p.evalRef(r, make(map[uint32]struct{}))
}

// Evaluate computes the color of e.
//
// visited holds the indices on the current evaluation path; it is restored to
// its original content before Evaluate returns. A nil map is allowed.
func (p *Palette) Evaluate(e Expr, visited map[uint32]struct{}) (color.Color, bool, error) {
	if visited == nil {
		visited = make(map[uint32]struct{})
	}
	switch e.Kind {
	case ExprColor:
		return e.Color, true, nil
	case ExprReference:
		return p.evalRef(e.Ref, visited)
	case ExprBlend:
		src, ok, err := p.evalRef(e.Blend.Source, visited)
		if err != nil || !ok {
			return color.Color{}, false, err
		}
		dst, ok, err := p.evalRef(e.Blend.Target, visited)
		if err != nil || !ok {
			return color.Color{}, false, err
		}
		f := e.Blend.Func
		if f.Unary != "" {
			return color.Unary(f.Unary, src, dst, e.Blend.Interp), true, nil
		}
		return color.Binary(f.Binary, f.Space, src, dst, e.Blend.Interp), true, nil
	default:
		return color.Color{}, false, nil
	}
}

func (p *Palette) evalRef(r CellRef, visited map[uint32]struct{}) (color.Color, bool, error) {
	index, err := p.ResolveRef(r)
	if err != nil {
		return color.Color{}, false, &UndefinedColorError{Ref: r, Err: err}
	}
	if _, ok := visited[index]; ok {
		return color.Color{}, false, &UndefinedColorError{Ref: r, Circular: true}
	}
	cell, ok := p.cells.Get(index)
	if !ok {
		return color.Color{}, false, &UndefinedColorError{Ref: r}
	}
	visited[index] = struct{}{}
	defer delete(visited, index)
	return p.Evaluate(cell.Expr, visited)
}
