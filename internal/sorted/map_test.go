package sorted

import (
	"cmp"
	"slices"
	"testing"
)

func TestMap(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		m := New[uint32, string](cmp.Compare[uint32])
		if m.Len() != 0 {
			t.Fatalf("Len() = %d, want 0", m.Len())
		}
		if _, _, ok := m.Min(); ok {
			t.Error("Min() on empty map returned ok")
		}
		m.Put(5, "five")
		m.Put(1, "one")
		if prev, ok := m.Put(5, "FIVE"); !ok || prev != "five" {
			t.Errorf("Put(5) = %q, %v; want five, true", prev, ok)
		}
		if got, ok := m.Get(5); !ok || got != "FIVE" {
			t.Errorf("Get(5) = %q, %v", got, ok)
		}
		if got := slices.Collect(m.Keys()); !slices.Equal(got, []uint32{1, 5}) {
			t.Errorf("Keys() = %v", got)
		}
		if _, ok := m.Remove(1); !ok {
			t.Error("Remove(1) not found")
		}
		if _, ok := m.Remove(1); ok {
			t.Error("second Remove(1) found")
		}
		if m.Has(1) {
			t.Error("Has(1) after remove")
		}
	})

	t.Run("Bounds", func(t *testing.T) {
		m := New[uint32, struct{}](cmp.Compare[uint32])
		for _, k := range []uint32{10, 20, 30} {
			m.Put(k, struct{}{})
		}
		tests := []struct {
			low, high uint32
			want      Bounds[uint32]
		}{
			{0, 9, Bounds[uint32]{}},
			{11, 19, Bounds[uint32]{}},
			{31, 100, Bounds[uint32]{}},
			{20, 10, Bounds[uint32]{}},
			{0, 10, Bounds[uint32]{Count: 1, Low: 10, High: 10}},
			{15, 25, Bounds[uint32]{Count: 1, Low: 20, High: 20}},
			{10, 20, Bounds[uint32]{Count: 2, Low: 10, High: 20}},
			{0, ^uint32(0), Bounds[uint32]{Count: 2, Low: 10, High: 30}},
		}
		for _, tt := range tests {
			if got := m.Bounds(tt.low, tt.high); got != tt.want {
				t.Errorf("Bounds(%d, %d) = %+v, want %+v", tt.low, tt.high, got, tt.want)
			}
		}
	})
}
