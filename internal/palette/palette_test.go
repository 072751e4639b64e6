package palette

import (
	"errors"
	"slices"
	"testing"

	"github.com/maruel/palettedb/internal/color"
)

func mustInsert(t *testing.T, p *Palette, index uint32, e Expr) {
	t.Helper()
	if _, err := p.InsertCell(index, Cell{Expr: e}); err != nil {
		t.Fatalf("InsertCell(%d): %v", index, err)
	}
}

func indexRange(low, high uint32) []uint32 {
	var out []uint32
	for i := low; i <= high; i++ {
		out = append(out, i)
	}
	return out
}

// newGrid returns a palette with cells 1 to 5 laid out on two pages.
func newGrid(t *testing.T) *Palette {
	t.Helper()
	p := New()
	for i := uint32(1); i <= 5; i++ {
		mustInsert(t, p, i, Literal(color.RGB(uint8(i*10), 0, 0)))
	}
	p.AssignPosition(pos(1, 0, 0), 1)
	p.AssignPosition(pos(1, 1, 0), 2)
	p.AssignPosition(pos(1, 1, 3), 3)
	p.AssignPosition(pos(2, 0, 3), 4)
	p.AssignPosition(pos(2, 5, 3), 5)
	return p
}

func TestScenario(t *testing.T) {
	p := New()
	for i := uint32(100); i < 200; i++ {
		mustInsert(t, p, i, Literal(color.RGB(uint8(i-100)*2, 0, 255-uint8(i-100)*2)))
	}
	p.AssignPosition(pos(1, 0, 0), 150)
	p.AssignName(SelectPosition(pos(1, 0, 0)), "a")
	for i := uint32(100); i < 110; i++ {
		p.AppendGroup(i, "GroupA")
	}

	if got, want := slices.Collect(p.Resolve(GroupAll("GroupA"))), indexRange(100, 109); !slices.Equal(got, want) {
		t.Errorf("Resolve(GroupA:*) = %v, want %v", got, want)
	}
	if got, err := p.ResolveRef(NameRef("a")); err != nil || got != 150 {
		t.Errorf("ResolveRef(a) = %d, %v, want 150", got, err)
	}
	if got := slices.Collect(p.Resolve(SelectRef(NameRef("a")))); !slices.Equal(got, []uint32{150}) {
		t.Errorf("Resolve(a) = %v, want [150]", got)
	}

	p.RemoveCell(105)
	want := []uint32{100, 101, 102, 103, 104, 106, 107, 108, 109}
	if got := slices.Collect(p.Resolve(GroupAll("GroupA"))); !slices.Equal(got, want) {
		t.Errorf("Resolve(GroupA:*) after remove = %v, want %v", got, want)
	}
	if got := len(p.Group("GroupA")); got != 10 {
		t.Errorf("len(Group(GroupA)) = %d, want 10", got)
	}
}

func TestGroupExhaustion(t *testing.T) {
	p := New()
	mustInsert(t, p, 1, Empty())
	mustInsert(t, p, 2, Empty())
	if _, err := p.AssignGroup(1, "G", 0); err != nil {
		t.Fatalf("AssignGroup(G:0): %v", err)
	}
	_, err := p.AssignGroup(2, "G", 2)
	var oob *GroupIndexOutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("AssignGroup(G:2) error = %v, want GroupIndexOutOfBoundsError", err)
	}
	if oob.Max != 1 || oob.Index != 2 || oob.Group != "G" {
		t.Errorf("error = %+v", oob)
	}
	if got := p.Group("G"); !slices.Equal(got, []uint32{1}) {
		t.Errorf("Group(G) = %v, want [1]", got)
	}

	if _, err := p.AssignGroup(2, "Fresh", 1); err == nil {
		t.Fatal("AssignGroup(Fresh:1) succeeded")
	}
	if got := p.Groups(); !slices.Equal(got, []string{"G"}) {
		t.Errorf("Groups() = %v, want [G]", got)
	}
}

func TestGroupPruning(t *testing.T) {
	p := New()
	p.AppendGroup(1, "G")
	if _, err := p.UnassignGroup("G", 0); err != nil {
		t.Fatal(err)
	}
	if len(p.Groups()) != 0 {
		t.Errorf("Groups() = %v, want none", p.Groups())
	}
	p.AppendGroup(1, "G")
	p.AppendGroup(1, "H")
	p.AppendGroup(2, "H")
	p.ClearGroups(1)
	if got := p.Groups(); !slices.Equal(got, []string{"H"}) {
		t.Errorf("Groups() = %v, want [H]", got)
	}
	if _, err := p.UnassignGroup("H", 5); err == nil {
		t.Error("UnassignGroup(H:5) succeeded")
	}
}

func TestResolve(t *testing.T) {
	p := newGrid(t)
	must := func(s CellSelector, err error) CellSelector {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	p.AssignName(mustSelector(t, "1.1.*"), "row")
	p.AppendGroup(3, "G")
	p.AppendGroup(1, "G")
	p.AppendGroup(4, "G")

	tests := []struct {
		name string
		sel  CellSelector
		want []uint32
	}{
		{"all", All(), []uint32{1, 2, 3, 4, 5}},
		{"index", SelectRef(IndexRef(3)), []uint32{3}},
		{"missing index", SelectRef(IndexRef(9)), nil},
		{"index range", must(IndexRange(2, 4)), []uint32{2, 3, 4}},
		{"wide index range", must(IndexRange(0, 1<<31)), []uint32{1, 2, 3, 4, 5}},
		{"position", SelectRef(PositionRef(pos(1, 1, 3))), []uint32{3}},
		{"position range", must(PositionRange(pos(1, 1, 0), pos(2, 0, 3))), []uint32{2, 3, 4}},
		{"column wildcard", Matching(mustSelector(t, "*.*.3")), []uint32{3, 4, 5}},
		{"page", Matching(mustSelector(t, "1.*.*")), []uint32{1, 2, 3}},
		{"line", Matching(mustSelector(t, "*.0.*")), []uint32{1, 4}},
		{"wildcard name", SelectRef(NameRef("row")), []uint32{2, 3}},
		{"unknown name", SelectRef(NameRef("nope")), nil},
		{"group member", SelectRef(GroupRef("G", 1)), []uint32{1}},
		{"group range", must(GroupRange("G", 1, 9)), []uint32{1, 4}},
		{"group all", GroupAll("G"), []uint32{3, 1, 4}},
		{"unknown group", GroupAll("nope"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slices.Collect(p.Resolve(tt.sel)); !slices.Equal(got, tt.want) {
				t.Errorf("Resolve(%s) = %v, want %v", tt.sel, got, tt.want)
			}
		})
	}

	t.Run("removed cells are filtered", func(t *testing.T) {
		p := newGrid(t)
		p.RemoveCell(4)
		if got := slices.Collect(p.Resolve(Matching(mustSelector(t, "*.*.3")))); !slices.Equal(got, []uint32{3, 5}) {
			t.Errorf("Resolve = %v, want [3 5]", got)
		}
	})

	t.Run("early stop", func(t *testing.T) {
		var got []uint32
		for i := range p.Resolve(All()) {
			got = append(got, i)
			if len(got) == 2 {
				break
			}
		}
		if !slices.Equal(got, []uint32{1, 2}) {
			t.Errorf("got %v, want [1 2]", got)
		}
	})

	t.Run("duplicates", func(t *testing.T) {
		p := newGrid(t)
		p.AssignPosition(pos(1, 0, 1), 1)
		s := must(PositionRange(pos(1, 0, 0), pos(1, 0, 9)))
		if got := slices.Collect(p.Resolve(s)); !slices.Equal(got, []uint32{1, 1}) {
			t.Errorf("Resolve = %v, want [1 1]", got)
		}
		sel := p.ResolveSelection(CellSelection{s})
		if sel.Len() != 1 {
			t.Errorf("ResolveSelection.Len() = %d, want 1", sel.Len())
		}
	})
}

func TestResolveSelection(t *testing.T) {
	p := newGrid(t)
	r, err := IndexRange(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	parts := CellSelection{r, Matching(mustSelector(t, "*.*.3")), SelectRef(IndexRef(42))}

	var want IndexSelection
	for _, s := range parts {
		want.Union(p.ResolveSelection(CellSelection{s}))
	}
	got := p.ResolveSelection(parts)
	if got.String() != want.String() {
		t.Errorf("ResolveSelection = %s, want %s", got.String(), want.String())
	}
	if got.String() != ":2-:5" {
		t.Errorf("ResolveSelection = %s, want :2-:5", got.String())
	}

	all := p.ResolveSelection(CellSelection{All()})
	for i := range got.All() {
		if !all.Contains(i) {
			t.Errorf("%d not in All", i)
		}
	}
	if s := p.ResolveSelection(CellSelection{r, All()}); s.String() != ":1-:5" {
		t.Errorf("ResolveSelection with All = %s", s.String())
	}
}

func TestResolveRef(t *testing.T) {
	p := newGrid(t)
	p.AssignName(SelectPosition(pos(1, 1, 0)), "two")
	p.AssignName(mustSelector(t, "1.*.*"), "page")
	p.AppendGroup(5, "G")
	p.RemoveCell(5)

	tests := []struct {
		ref  CellRef
		want uint32
		ok   bool
	}{
		{IndexRef(1), 1, true},
		{IndexRef(5), 0, false},
		{PositionRef(pos(1, 1, 3)), 3, true},
		{PositionRef(pos(9, 9, 9)), 0, false},
		{NameRef("two"), 2, true},
		{NameRef("page"), 0, false},
		{NameRef("missing"), 0, false},
		{GroupRef("G", 0), 5, true},
		{GroupRef("G", 1), 0, false},
	}
	for _, tt := range tests {
		got, err := p.ResolveRef(tt.ref)
		if tt.ok {
			if err != nil || got != tt.want {
				t.Errorf("ResolveRef(%s) = %d, %v, want %d", tt.ref, got, err, tt.want)
			}
			continue
		}
		var undef *UndefinedCellReferenceError
		if !errors.As(err, &undef) || undef.Ref != tt.ref {
			t.Errorf("ResolveRef(%s) error = %v, want UndefinedCellReferenceError", tt.ref, err)
		}
	}
}

func TestNextIndex(t *testing.T) {
	p := New()
	if i, ok := p.NextIndex(); !ok || i != 0 {
		t.Errorf("NextIndex() = %d, %v, want 0", i, ok)
	}
	mustInsert(t, p, 5, Empty())
	i, _, err := p.AddCell(Empty())
	if err != nil || i != 6 {
		t.Errorf("AddCell() = %d, %v, want 6", i, err)
	}
	mustInsert(t, p, 2, Empty())
	if i, _ := p.NextIndex(); i != 7 {
		t.Errorf("NextIndex() = %d, want 7", i)
	}
}

func TestPositionsOf(t *testing.T) {
	p := newGrid(t)
	p.AssignPosition(pos(0, 0, 9), 1)
	if got, want := p.PositionsOf(1), []Position{pos(0, 0, 9), pos(1, 0, 0)}; !slices.Equal(got, want) {
		t.Errorf("PositionsOf(1) = %v, want %v", got, want)
	}
	// Reassigning moves the position between indices.
	p.AssignPosition(pos(0, 0, 9), 2)
	if got := p.PositionsOf(1); !slices.Equal(got, []Position{pos(1, 0, 0)}) {
		t.Errorf("PositionsOf(1) = %v", got)
	}
	p.ClearPositions(2)
	if got := p.PositionsOf(2); len(got) != 0 {
		t.Errorf("PositionsOf(2) = %v, want none", got)
	}
	if _, err := p.ResolveRef(PositionRef(pos(1, 1, 0))); err == nil {
		t.Error("position 1.1.0 still assigned")
	}
}

func TestBijection(t *testing.T) {
	p := New()
	sels := []PositionSelector{
		mustSelector(t, "1.0.0"), mustSelector(t, "1.*.*"), mustSelector(t, "*.*.3"), mustSelector(t, "2.2.2"),
	}
	names := []string{"a", "b", "c", "d", "e"}
	for k := range 40 {
		name := names[(k*7)%len(names)]
		if k%5 == 4 {
			p.UnassignName(name)
			continue
		}
		p.AssignName(sels[(k*3)%len(sels)], name)

		seen := map[PositionSelector]string{}
		for n, s := range p.Names() {
			if prev, ok := seen[s]; ok {
				t.Fatalf("step %d: selector %s named both %q and %q", k, s, prev, n)
			}
			seen[s] = n
			if back, ok := p.NameOf(s); !ok || back != n {
				t.Fatalf("step %d: NameOf(%s) = %q, want %q", k, s, back, n)
			}
		}
	}
}
