package palette

import (
	"iter"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Interval is an inclusive range of indices.
type Interval struct {
	Low  uint32 `json:"low"`
	High uint32 `json:"high"`
}

// IndexSelection is a set of primary indices stored as sorted, disjoint and
// non-adjacent intervals.
type IndexSelection struct {
	ranges []Interval
}

// Add inserts i.
func (s *IndexSelection) Add(i uint32) {
	s.AddRange(i, i)
}

// AddRange inserts every index in [low, high].
func (s *IndexSelection) AddRange(low, high uint32) {
	if low > high {
		return
	}
	// First interval that could touch [low, high]: High+1 >= low.
	i := sort.Search(len(s.ranges), func(k int) bool {
		return s.ranges[k].High == math.MaxUint32 || s.ranges[k].High+1 >= low
	})
	j := i
	for j < len(s.ranges) && (high == math.MaxUint32 || s.ranges[j].Low <= high+1) {
		low = min(low, s.ranges[j].Low)
		high = max(high, s.ranges[j].High)
		j++
	}
	merged := Interval{Low: low, High: high}
	if i == j {
		s.ranges = append(s.ranges, Interval{})
		copy(s.ranges[i+1:], s.ranges[i:])
		s.ranges[i] = merged
		return
	}
	s.ranges[i] = merged
	s.ranges = append(s.ranges[:i+1], s.ranges[j:]...)
}

// Union adds every index of o.
func (s *IndexSelection) Union(o IndexSelection) {
	for _, r := range o.ranges {
		s.AddRange(r.Low, r.High)
	}
}

// Contains reports whether i is selected.
func (s *IndexSelection) Contains(i uint32) bool {
	k := sort.Search(len(s.ranges), func(k int) bool { return s.ranges[k].High >= i })
	return k < len(s.ranges) && s.ranges[k].Low <= i
}

// Len returns the number of selected indices.
func (s *IndexSelection) Len() uint64 {
	var n uint64
	for _, r := range s.ranges {
		n += uint64(r.High-r.Low) + 1
	}
	return n
}

// Ranges returns the intervals in ascending order.
func (s *IndexSelection) Ranges() []Interval {
	return append([]Interval(nil), s.ranges...)
}

// All iterates over every selected index in ascending order.
func (s *IndexSelection) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, r := range s.ranges {
			for i := r.Low; ; i++ {
				if !yield(i) {
					return
				}
				if i == r.High {
					break
				}
			}
		}
	}
}

// String renders the selection as comma-separated indices and ranges.
func (s *IndexSelection) String() string {
	parts := make([]string, len(s.ranges))
	for k, r := range s.ranges {
		if r.Low == r.High {
			parts[k] = prefix + strconv.FormatUint(uint64(r.Low), 10)
		} else {
			parts[k] = prefix + strconv.FormatUint(uint64(r.Low), 10) + "-" + prefix + strconv.FormatUint(uint64(r.High), 10)
		}
	}
	return strings.Join(parts, ", ")
}
