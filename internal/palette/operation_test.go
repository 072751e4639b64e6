package palette

import (
	"encoding/json"
	"testing"

	"github.com/maruel/palettedb/internal/color"
)

// state returns the observable content of p. The allocation hint is left out
// since it only ever moves forward.
func state(p *Palette) Snapshot {
	s := p.Snapshot()
	s.NextIndex = 0
	return s
}

// newFixture returns a palette exercising every namespace.
func newFixture(t *testing.T) *Palette {
	t.Helper()
	p := newGrid(t)
	p.AssignPosition(pos(1, 0, 1), 1)
	p.AssignName(SelectPosition(pos(1, 0, 0)), "a")
	p.AssignName(mustSelector(t, "1.*.*"), "row")
	for _, i := range []uint32{1, 2, 1, 3} {
		p.AppendGroup(i, "G")
	}
	p.AppendGroup(4, "H")
	return p
}

func fixtureOps(t *testing.T) []struct {
	name string
	op   Operation
} {
	red := Literal(color.RGB(255, 0, 0))
	return []struct {
		name string
		op   Operation
	}{
		{"insert new", InsertCellOp(9, red)},
		{"insert overwrite", InsertCellOp(1, red)},
		{"remove", RemoveCellOp(2)},
		{"remove missing", RemoveCellOp(99)},
		{"name new", AssignNameOp(SelectPosition(pos(2, 0, 0)), "b")},
		{"name existed", AssignNameOp(SelectPosition(pos(1, 0, 0)), "a")},
		{"name replaced left", AssignNameOp(SelectPosition(pos(2, 0, 0)), "a")},
		{"name replaced right", AssignNameOp(mustSelector(t, "1.*.*"), "z")},
		{"name replaced both", AssignNameOp(mustSelector(t, "1.*.*"), "a")},
		{"unname", UnassignNameOp("row")},
		{"unname missing", UnassignNameOp("nope")},
		{"position overwrite", AssignPositionOp(pos(1, 0, 0), 3)},
		{"position new", AssignPositionOp(pos(5, 5, 5), 3)},
		{"position same", AssignPositionOp(pos(1, 0, 0), 1)},
		{"unassign position", UnassignPositionOp(pos(1, 0, 1))},
		{"clear positions", ClearPositionsOp(1)},
		{"group insert front", AssignGroupOp(5, "G", 0)},
		{"group insert end", AssignGroupOp(5, "G", 4)},
		{"group create", AssignGroupOp(5, "New", 0)},
		{"group append", AppendGroupOp(5, "G")},
		{"group append create", AppendGroupOp(5, "New")},
		{"ungroup", UnassignGroupOp("G", 1)},
		{"ungroup prunes", UnassignGroupOp("H", 0)},
		{"clear groups", ClearGroupsOp(1)},
		{"clear groups prunes", ClearGroupsOp(4)},
		{"set expr", SetExprOp(3, Reference(IndexRef(1)))},
		{"set same expr", SetExprOp(3, Literal(color.RGB(30, 0, 0)))},
	}
}

func TestInverseLaw(t *testing.T) {
	for _, tt := range fixtureOps(t) {
		t.Run(tt.name, func(t *testing.T) {
			p := newFixture(t)
			before := state(p)
			inv, err := p.Apply(tt.op)
			if err != nil {
				t.Fatalf("Apply(%s): %v", tt.op, err)
			}
			for _, o := range inv {
				if _, err := p.Apply(o); err != nil {
					t.Fatalf("Apply(%s): %v", o, err)
				}
			}
			if after := state(p); !after.Equal(before) {
				t.Errorf("inverse %v of %s did not restore state\nbefore: %+v\nafter:  %+v", inv, tt.op, before, after)
			}
		})
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
	}{
		{"set expr on missing cell", SetExprOp(99, Empty())},
		{"group gap", AssignGroupOp(1, "G", 9)},
		{"ungroup missing", UnassignGroupOp("nope", 0)},
		{"bad expr", InsertCellOp(7, Expr{Kind: "bogus"})},
		{"unknown kind", Operation{Kind: "bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFixture(t)
			before := state(p)
			if _, err := p.Apply(tt.op); err == nil {
				t.Fatalf("Apply(%s) succeeded", tt.op)
			}
			if after := state(p); !after.Equal(before) {
				t.Error("failed operation changed state")
			}
		})
	}
}

func TestUndoRedo(t *testing.T) {
	p := newFixture(t)
	var h History
	ops := fixtureOps(t)
	// steps[k] is the state after k batches.
	steps := []Snapshot{state(p)}
	for k := 0; k < len(ops); k += 2 {
		batch := []Operation{ops[k].op}
		if k+1 < len(ops) {
			batch = append(batch, ops[k+1].op)
		}
		pushed := h.UndoCount()
		if err := p.ApplyOperations(batch, &h); err != nil {
			t.Fatalf("%s: %v", ops[k].name, err)
		}
		if h.UndoCount() > pushed {
			steps = append(steps, state(p))
		}
	}
	n := h.UndoCount()
	if n != len(steps)-1 || n == 0 {
		t.Fatalf("UndoCount() = %d for %d steps", n, len(steps))
	}

	for k := 1; k <= n; k++ {
		if got, err := p.Undo(&h, 1); err != nil || got != 1 {
			t.Fatalf("Undo = %d, %v", got, err)
		}
		if s := state(p); !s.Equal(steps[n-k]) {
			t.Fatalf("after %d undo: state mismatch", k)
		}
	}
	if got, _ := p.Undo(&h, 1); got != 0 {
		t.Errorf("Undo past start = %d, want 0", got)
	}
	if got, err := p.Redo(&h, n+5); err != nil || got != n {
		t.Fatalf("Redo(%d) = %d, %v, want %d", n+5, got, err, n)
	}
	if s := state(p); !s.Equal(steps[n]) {
		t.Error("redo did not restore the final state")
	}

	for k := 0; k <= n; k++ {
		if got, _ := p.Undo(&h, k); got != k {
			t.Fatalf("Undo(%d) = %d", k, got)
		}
		if got, _ := p.Redo(&h, k); got != k {
			t.Fatalf("Redo(%d) = %d", k, got)
		}
		if s := state(p); !s.Equal(steps[n]) {
			t.Fatalf("Undo(%d)+Redo(%d) changed state", k, k)
		}
	}
}

func TestApplyOperationsPartial(t *testing.T) {
	p := newFixture(t)
	var h History
	before := state(p)
	ops := []Operation{
		RemoveCellOp(1),
		SetExprOp(99, Empty()),
		RemoveCellOp(2),
	}
	if err := p.ApplyOperations(ops, &h); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := p.Cell(1); ok {
		t.Error("first operation was rolled back")
	}
	if _, ok := p.Cell(2); !ok {
		t.Error("operation after the failure was applied")
	}
	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	if _, err := p.Undo(&h, 1); err != nil {
		t.Fatal(err)
	}
	if s := state(p); !s.Equal(before) {
		t.Error("undo of partial batch did not restore state")
	}
}

func TestApplyOperationsWithoutHistory(t *testing.T) {
	p := newFixture(t)
	if err := p.ApplyOperations([]Operation{RemoveCellOp(1)}, nil); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 4 {
		t.Errorf("Len() = %d, want 4", p.Len())
	}
}

func TestOperationJSON(t *testing.T) {
	for _, tt := range fixtureOps(t) {
		b, err := json.Marshal(tt.op)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		var got Operation
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.op {
			t.Errorf("%s: round trip = %+v, want %+v (%s)", tt.name, got, tt.op, b)
		}
	}
}
