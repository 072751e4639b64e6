package palette

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maruel/ksid"
)

// Batch is one user-visible entry of the edit log.
type Batch struct {
	ID  ksid.ID     `json:"id"`
	Ops []Operation `json:"ops"`
}

type historyState int

const (
	stateValid historyState = iota
	stateAwaitingSetRedo
	stateAwaitingSetUndo
)

func (s historyState) String() string {
	switch s {
	case stateValid:
		return "valid"
	case stateAwaitingSetRedo:
		return "awaiting_set_redo"
	case stateAwaitingSetUndo:
		return "awaiting_set_undo"
	default:
		return fmt.Sprintf("historyState(%d)", int(s))
	}
}

// History is an undo/redo log of operation batches.
//
// Batches before the cursor hold the operations that undo an applied edit.
// Batches at or after the cursor hold the operations that redo an undone
// edit. Both directions reuse the same slot: undoing a batch replaces it with
// the operations that redo it.
//
// The zero value is an empty history ready to use.
type History struct {
	batches []Batch
	cursor  int
	state   historyState
}

// Push records ops as the newest undoable batch and discards the redo tail.
func (h *History) Push(ops []Operation) ksid.ID {
	h.need(stateValid, "Push")
	b := Batch{ID: ksid.NewID(), Ops: ops}
	h.batches = append(h.batches[:h.cursor], b)
	h.cursor++
	return b.ID
}

// UndoWith reverts the newest undoable batch through f, which applies the
// operations it is given and returns their inverses. It returns false when
// there is nothing to undo.
func (h *History) UndoWith(f func([]Operation) ([]Operation, error)) (bool, error) {
	ops, ok := h.popUndo()
	if !ok {
		return false, nil
	}
	redo, err := f(ops)
	h.setRedo(redo)
	return true, err
}

// RedoWith reapplies the oldest redoable batch through f. It returns false
// when there is nothing to redo.
func (h *History) RedoWith(f func([]Operation) ([]Operation, error)) (bool, error) {
	ops, ok := h.popRedo()
	if !ok {
		return false, nil
	}
	undo, err := f(ops)
	h.setUndo(undo)
	return true, err
}

// UndoCount returns the number of batches that can be undone.
func (h *History) UndoCount() int {
	return h.cursor
}

// RedoCount returns the number of batches that can be redone.
func (h *History) RedoCount() int {
	return len(h.batches) - h.cursor
}

// Batches returns a copy of the log in chronological order.
func (h *History) Batches() []Batch {
	return append([]Batch(nil), h.batches...)
}

// Trim drops the oldest undoable batches so at most n remain.
func (h *History) Trim(n int) {
	h.need(stateValid, "Trim")
	if drop := h.cursor - max(n, 0); drop > 0 {
		h.batches = append(h.batches[:0], h.batches[drop:]...)
		h.cursor -= drop
	}
}

// Clear empties the log.
func (h *History) Clear() {
	h.need(stateValid, "Clear")
	h.batches = nil
	h.cursor = 0
}

func (h *History) popUndo() ([]Operation, bool) {
	h.need(stateValid, "popUndo")
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	h.state = stateAwaitingSetRedo
	return h.batches[h.cursor].Ops, true
}

func (h *History) setRedo(ops []Operation) {
	h.need(stateAwaitingSetRedo, "setRedo")
	h.batches[h.cursor].Ops = ops
	h.state = stateValid
}

func (h *History) popRedo() ([]Operation, bool) {
	h.need(stateValid, "popRedo")
	if h.cursor == len(h.batches) {
		return nil, false
	}
	h.state = stateAwaitingSetUndo
	return h.batches[h.cursor].Ops, true
}

func (h *History) setUndo(ops []Operation) {
	h.need(stateAwaitingSetUndo, "setUndo")
	h.batches[h.cursor].Ops = ops
	h.cursor++
	h.state = stateValid
}

// need panics when h is not in state s. Reaching it means a pop was not
// followed by its paired set.
func (h *History) need(s historyState, op string) {
	if h.state != s {
		panic(fmt.Sprintf("palette: History.%s called in state %s, want %s", op, h.state, s))
	}
}

type historyJSON struct {
	Batches []Batch `json:"batches"`
	Cursor  int     `json:"cursor"`
}

// MarshalJSON implements json.Marshaler.
func (h *History) MarshalJSON() ([]byte, error) {
	if h.state != stateValid {
		return nil, fmt.Errorf("cannot marshal history in state %s", h.state)
	}
	b := h.batches
	if b == nil {
		b = []Batch{}
	}
	return json.Marshal(historyJSON{Batches: b, Cursor: h.cursor})
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *History) UnmarshalJSON(data []byte) error {
	var v historyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Cursor < 0 || v.Cursor > len(v.Batches) {
		return errors.New("history cursor out of range")
	}
	*h = History{batches: v.Batches, cursor: v.Cursor}
	return nil
}
