package palette

import (
	"fmt"

	"github.com/maruel/palettedb/internal/errors"
)

// UndefinedCellReferenceError is returned when a CellRef does not resolve
// against the current palette.
type UndefinedCellReferenceError struct {
	Ref CellRef
}

func (e *UndefinedCellReferenceError) Error() string {
	return fmt.Sprintf("undefined cell reference %s", e.Ref)
}

// Code implements errors.Coded.
func (e *UndefinedCellReferenceError) Code() errors.ErrorCode {
	return errors.ErrUndefinedCellReference
}

// Details implements errors.Coded.
func (e *UndefinedCellReferenceError) Details() map[string]any {
	return map[string]any{"ref": e.Ref.String()}
}

// UndefinedColorError is returned when evaluating an expression hits a
// missing cell or a reference cycle.
type UndefinedColorError struct {
	Ref      CellRef
	Circular bool
	// Err is the resolution failure, if any.
	Err error
}

func (e *UndefinedColorError) Error() string {
	switch {
	case e.Circular:
		return fmt.Sprintf("undefined color for %s: circular reference", e.Ref)
	case e.Err != nil:
		return fmt.Sprintf("undefined color for %s: %v", e.Ref, e.Err)
	default:
		return fmt.Sprintf("undefined color for %s: no such cell", e.Ref)
	}
}

func (e *UndefinedColorError) Unwrap() error {
	return e.Err
}

// Code implements errors.Coded.
func (e *UndefinedColorError) Code() errors.ErrorCode {
	return errors.ErrUndefinedColor
}

// Details implements errors.Coded.
func (e *UndefinedColorError) Details() map[string]any {
	return map[string]any{"ref": e.Ref.String(), "circular": e.Circular}
}

// GroupIndexOutOfBoundsError is returned when assigning ordinal Index in
// Group would leave a gap. Max is the largest ordinal that was accepted.
type GroupIndexOutOfBoundsError struct {
	Group string
	Index uint32
	Max   uint32
}

func (e *GroupIndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("group %q index %d out of bounds (max %d)", e.Group, e.Index, e.Max)
}

// Code implements errors.Coded.
func (e *GroupIndexOutOfBoundsError) Code() errors.ErrorCode {
	return errors.ErrGroupIndexOutOfBounds
}

// Details implements errors.Coded.
func (e *GroupIndexOutOfBoundsError) Details() map[string]any {
	return map[string]any{"group": e.Group, "index": e.Index, "max": e.Max}
}

// RangeMismatchError is returned when range endpoints are not the same kind
// of reference.
type RangeMismatchError struct {
	Low  CellRef
	High CellRef
}

func (e *RangeMismatchError) Error() string {
	return fmt.Sprintf("range endpoints %s and %s are incompatible", e.Low, e.High)
}

// Code implements errors.Coded.
func (e *RangeMismatchError) Code() errors.ErrorCode {
	return errors.ErrRangeMismatch
}

// Details implements errors.Coded.
func (e *RangeMismatchError) Details() map[string]any {
	return map[string]any{"low": e.Low.String(), "high": e.High.String()}
}

// RangeOrderError is returned when the low endpoint sorts after the high one.
type RangeOrderError struct {
	Low  CellRef
	High CellRef
}

func (e *RangeOrderError) Error() string {
	return fmt.Sprintf("range %s-%s is inverted", e.Low, e.High)
}

// Code implements errors.Coded.
func (e *RangeOrderError) Code() errors.ErrorCode {
	return errors.ErrRangeOrder
}

// Details implements errors.Coded.
func (e *RangeOrderError) Details() map[string]any {
	return map[string]any{"low": e.Low.String(), "high": e.High.String()}
}
