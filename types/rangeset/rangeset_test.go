package rangeset

import "testing"

func TestInsertElements(t *testing.T) {
	var s RangeSet
	s.AddRange(0, 3)
	s.AddRange(2, 6)
	s.AddRange(4, 8)
	s.AddRange(7, 10)
	s.InsertElements(5, 5)
	for _, r := range [][2]int{{0, 3}, {2, 5}, {10, 11}, {4, 5}, {10, 13}, {12, 15}} {
		if !s.Covered(r[0], r[1]) {
			t.Errorf("expected [%d, %d) to be covered after insert", r[0], r[1])
		}
	}
}

func TestInsertElementsThenAddRange(t *testing.T) {
	var s RangeSet
	s.AddRange(0, 3)
	s.AddRange(2, 6)
	s.AddRange(4, 8)
	s.AddRange(7, 10)
	s.InsertElements(5, 5)
	s.AddRange(5, 10)
	for _, r := range [][2]int{{0, 3}, {2, 11}, {4, 13}, {12, 15}} {
		if !s.Covered(r[0], r[1]) {
			t.Errorf("expected [%d, %d) to be covered", r[0], r[1])
		}
	}
}

func TestRemoveElements(t *testing.T) {
	var s RangeSet
	s.AddRange(0, 3)
	s.AddRange(2, 6)
	s.AddRange(5, 8)
	s.AddRange(9, 12)
	s.AddRange(10, 14)
	s.RemoveElements(5, 5)
	for _, r := range [][2]int{{0, 3}, {2, 5}, {5, 7}, {5, 9}} {
		if !s.Covered(r[0], r[1]) {
			t.Errorf("expected [%d, %d) to be covered after remove", r[0], r[1])
		}
	}
}

func TestCovered(t *testing.T) {
	var s RangeSet
	s.AddRange(0, 3)
	s.AddRange(5, 6)
	s.AddRange(6, 8)
	s.AddRange(10, 12)
	s.AddRange(11, 14)
	testCases := []struct {
		low, high int
		want      bool
	}{
		{0, 2, true},
		{0, 4, false},
		{2, 5, false},
		{3, 5, false},
		{5, 7, true},
		{5, 8, true},
		{5, 9, false},
		{10, 14, true},
		{10, 16, false},
		{22, 23, false},
	}
	for _, tc := range testCases {
		if got := s.Covered(tc.low, tc.high); got != tc.want {
			t.Errorf("Covered(%d, %d) = %v, want %v", tc.low, tc.high, got, tc.want)
		}
	}
}

func TestInsertPastEnd(t *testing.T) {
	var s RangeSet
	s.InsertElements(0, 1)
	s.AddRange(0, 1)
	s.InsertElements(33, 2)
	s.AddRange(33, 35)
	if !s.Covered(0, 1) {
		t.Error("expected [0, 1) to be covered")
	}
	if s.Covered(1, 33) {
		t.Error("expected [1, 33) to not be covered")
	}
	if !s.Covered(33, 35) {
		t.Error("expected [33, 35) to be covered")
	}
}

func TestDominates(t *testing.T) {
	a := RangeSet{true, false, true}
	b := RangeSet{true, false}
	if !a.Dominates(b) {
		t.Error("expected a to dominate its prefix")
	}
	if b.Dominates(a) {
		t.Error("a true bit past b's end should break dominance")
	}
	if !a.Dominates(nil) {
		t.Error("every set dominates the empty set")
	}
	if !RangeSet(nil).Dominates(RangeSet{false, false}) {
		t.Error("all-false carries no information")
	}
}

func TestUnionIntersect(t *testing.T) {
	a := RangeSet{true, false, false, true}
	b := RangeSet{false, false, true}
	u := Union(a, b)
	want := RangeSet{true, false, true, true}
	for i := range want {
		if u[i] != want[i] {
			t.Fatalf("Union = %v, want %v", u, want)
		}
	}
	if len(u) != 4 {
		t.Fatalf("Union length = %d, want 4", len(u))
	}
	x := Intersect(a, b)
	if len(x) != 3 || x[0] || x[1] || x[2] {
		t.Fatalf("Intersect = %v, want [false false false]", x)
	}
	x2 := Intersect(a, RangeSet{true, true, false, true})
	if !x2[0] || x2[1] || x2[2] || !x2[3] {
		t.Fatalf("Intersect = %v, want [true false false true]", x2)
	}
}
