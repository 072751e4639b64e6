package palette

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

// record returns an apply function that logs what it receives and echoes it
// back as the inverse.
func record(log *[][]Operation) func([]Operation) ([]Operation, error) {
	return func(ops []Operation) ([]Operation, error) {
		*log = append(*log, ops)
		return ops, nil
	}
}

func TestHistory(t *testing.T) {
	t.Run("counts", func(t *testing.T) {
		var h History
		a := []Operation{RemoveCellOp(1)}
		b := []Operation{RemoveCellOp(2)}
		h.Push(a)
		h.Push(b)
		if h.UndoCount() != 2 || h.RedoCount() != 0 {
			t.Fatalf("counts = %d/%d", h.UndoCount(), h.RedoCount())
		}
		var log [][]Operation
		if ok, err := h.UndoWith(record(&log)); !ok || err != nil {
			t.Fatalf("UndoWith = %v, %v", ok, err)
		}
		if h.UndoCount() != 1 || h.RedoCount() != 1 {
			t.Fatalf("counts = %d/%d", h.UndoCount(), h.RedoCount())
		}
		if !slices.Equal(log[0], b) {
			t.Errorf("undo applied %v, want %v", log[0], b)
		}
		if ok, _ := h.RedoWith(record(&log)); !ok {
			t.Fatal("RedoWith returned false")
		}
		if ok, _ := h.RedoWith(record(&log)); ok {
			t.Error("RedoWith past end returned true")
		}
		h.UndoWith(record(&log))
		h.UndoWith(record(&log))
		if ok, _ := h.UndoWith(record(&log)); ok {
			t.Error("UndoWith past start returned true")
		}
	})

	t.Run("push truncates redo tail", func(t *testing.T) {
		var h History
		h.Push([]Operation{RemoveCellOp(1)})
		h.Push([]Operation{RemoveCellOp(2)})
		h.UndoWith(record(new([][]Operation)))
		h.Push([]Operation{RemoveCellOp(3)})
		if h.UndoCount() != 2 || h.RedoCount() != 0 {
			t.Fatalf("counts = %d/%d", h.UndoCount(), h.RedoCount())
		}
		b := h.Batches()
		if got := b[1].Ops[0].Index; got != 3 {
			t.Errorf("newest batch = %d, want 3", got)
		}
		if b[0].ID == b[1].ID {
			t.Error("batch IDs are not unique")
		}
	})

	t.Run("error keeps pairing", func(t *testing.T) {
		var h History
		h.Push([]Operation{RemoveCellOp(1)})
		boom := errors.New("boom")
		ok, err := h.UndoWith(func([]Operation) ([]Operation, error) {
			return []Operation{InsertCellOp(1, Empty())}, boom
		})
		if !ok || !errors.Is(err, boom) {
			t.Fatalf("UndoWith = %v, %v", ok, err)
		}
		// The history is back in a usable state.
		h.Push([]Operation{RemoveCellOp(2)})
	})

	t.Run("trim and clear", func(t *testing.T) {
		var h History
		for i := range uint32(5) {
			h.Push([]Operation{RemoveCellOp(i)})
		}
		h.UndoWith(record(new([][]Operation)))
		h.Trim(2)
		if h.UndoCount() != 2 || h.RedoCount() != 1 {
			t.Fatalf("counts = %d/%d", h.UndoCount(), h.RedoCount())
		}
		if got := h.Batches()[0].Ops[0].Index; got != 2 {
			t.Errorf("oldest kept batch = %d, want 2", got)
		}
		h.Clear()
		if h.UndoCount() != 0 || h.RedoCount() != 0 {
			t.Errorf("counts after Clear = %d/%d", h.UndoCount(), h.RedoCount())
		}
	})
}

func TestHistoryMisuse(t *testing.T) {
	mustPanic := func(t *testing.T, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		f()
	}
	newPending := func() *History {
		h := &History{}
		h.Push([]Operation{RemoveCellOp(1)})
		h.Push([]Operation{RemoveCellOp(2)})
		if _, ok := h.popUndo(); !ok {
			t.Fatal("popUndo returned nothing")
		}
		return h
	}
	t.Run("double pop", func(t *testing.T) {
		h := newPending()
		mustPanic(t, func() { h.popUndo() })
	})
	t.Run("push while pending", func(t *testing.T) {
		h := newPending()
		mustPanic(t, func() { h.Push(nil) })
	})
	t.Run("wrong set", func(t *testing.T) {
		h := newPending()
		mustPanic(t, func() { h.setUndo(nil) })
	})
	t.Run("set without pop", func(t *testing.T) {
		var h History
		mustPanic(t, func() { h.setRedo(nil) })
	})
	t.Run("marshal while pending", func(t *testing.T) {
		h := newPending()
		if _, err := json.Marshal(h); err == nil {
			t.Error("Marshal succeeded")
		}
	})
}

func TestHistoryJSON(t *testing.T) {
	var h History
	h.Push([]Operation{RemoveCellOp(1)})
	h.Push([]Operation{AssignNameOp(SelectPosition(pos(1, 0, 0)), "a"), UnassignPositionOp(pos(2, 0, 0))})
	h.UndoWith(record(new([][]Operation)))

	b, err := json.Marshal(&h)
	if err != nil {
		t.Fatal(err)
	}
	var got History
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.UndoCount() != 1 || got.RedoCount() != 1 {
		t.Errorf("counts = %d/%d", got.UndoCount(), got.RedoCount())
	}
	want := h.Batches()
	gotBatches := got.Batches()
	for i := range want {
		if gotBatches[i].ID != want[i].ID || !slices.Equal(gotBatches[i].Ops, want[i].Ops) {
			t.Errorf("batch %d = %+v, want %+v", i, gotBatches[i], want[i])
		}
	}

	t.Run("empty", func(t *testing.T) {
		b, err := json.Marshal(&History{})
		if err != nil {
			t.Fatal(err)
		}
		if got, want := string(b), `{"batches":[],"cursor":0}`; got != want {
			t.Errorf("Marshal = %s, want %s", got, want)
		}
	})

	t.Run("bad cursor", func(t *testing.T) {
		var h History
		if err := json.Unmarshal([]byte(`{"batches":[],"cursor":3}`), &h); err == nil {
			t.Error("Unmarshal succeeded")
		}
	})
}
