package palette

import (
	"encoding/json"
	"testing"

	"github.com/maruel/palettedb/internal/errors"
)

func TestSnapshot(t *testing.T) {
	p := newFixture(t)
	s := p.Snapshot()
	if s.NextIndex != 6 || len(s.Cells) != 5 || len(s.Names) != 2 || len(s.Positions) != 6 || len(s.Groups) != 2 {
		t.Fatalf("Snapshot() = %+v", s)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	q, err := FromSnapshot(decoded)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if got := q.Snapshot(); !got.Equal(s) {
		t.Errorf("round trip mismatch\ngot:  %+v\nwant: %+v", got, s)
	}
	// The reverse position index is rebuilt.
	if got := q.PositionsOf(1); len(got) != 2 {
		t.Errorf("PositionsOf(1) = %v", got)
	}
	if i, _ := q.NextIndex(); i != 6 {
		t.Errorf("NextIndex() = %d, want 6", i)
	}
}

func TestFromSnapshotInvalid(t *testing.T) {
	sel := SelectPosition(pos(1, 0, 0))
	tests := []struct {
		name string
		s    Snapshot
	}{
		{"duplicate cell", Snapshot{Cells: []CellEntry{{Index: 1}, {Index: 1}}}},
		{"bad expr", Snapshot{Cells: []CellEntry{{Index: 1, Expr: Expr{Kind: "bogus"}}}}},
		{"duplicate name", Snapshot{Names: []NameEntry{{"a", sel}, {"a", SelectPosition(pos(2, 0, 0))}}}},
		{"duplicate selector", Snapshot{Names: []NameEntry{{"a", sel}, {"b", sel}}}},
		{"duplicate position", Snapshot{Positions: []PositionEntry{{pos(1, 0, 0), 1}, {pos(1, 0, 0), 2}}}},
		{"empty group", Snapshot{Groups: []GroupEntry{{Name: "G"}}}},
		{"duplicate group", Snapshot{Groups: []GroupEntry{{"G", []uint32{1}}, {"G", []uint32{2}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.s)
			if err == nil {
				t.Fatal("FromSnapshot succeeded")
			}
			if got := errors.CodeOf(err); got != errors.ErrInvalidDocument {
				t.Errorf("CodeOf = %q, want %q", got, errors.ErrInvalidDocument)
			}
		})
	}
}
