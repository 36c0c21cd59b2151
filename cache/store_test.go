package cache

import (
	"testing"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

func arc(next fst.StateId) fst.Arc[weight.TropicalWeight] {
	return fst.Arc[weight.TropicalWeight]{ILabel: 1, OLabel: 1, Weight: 0, NextState: next}
}

func TestCacheBasicContract(t *testing.T) {
	c := New[weight.TropicalWeight](0, false)
	if c.HasFinal(0) {
		t.Fatalf("fresh cache should not have final for state 0")
	}
	c.SetFinal(0, weight.TropicalWeight(0))
	if !c.HasFinal(0) {
		t.Fatalf("SetFinal should make HasFinal true")
	}
	if err := c.PushArc(0, arc(1)); err != nil {
		t.Fatal(err)
	}
	c.SetArcs(0)
	if !c.HasArcs(0) {
		t.Fatalf("SetArcs should make HasArcs true")
	}
	if err := c.PushArc(0, arc(2)); err != ErrArcsFinalized {
		t.Fatalf("PushArc after SetArcs should fail with ErrArcsFinalized, got %v", err)
	}
}

func TestCacheFIFOEviction(t *testing.T) {
	// Spec §8 scenario 6: limit sized to hold 3 states' arcs; expand
	// states 0..4 in order; after expansion of 4, states {2,3,4} resident.
	c := New[weight.TropicalWeight](0, true)
	c.limit = 3 * c.arcSize // exactly 3 states' worth of 1-arc lists
	for s := fst.StateId(0); s <= 4; s++ {
		c.SetFinal(s, 0)
		if err := c.PushArc(s, arc(s+1)); err != nil {
			t.Fatal(err)
		}
		c.SetArcs(s)
	}
	resident := c.Resident()
	want := []fst.StateId{2, 3, 4}
	if len(resident) != len(want) {
		t.Fatalf("resident = %v, want %v", resident, want)
	}
	for i, s := range want {
		if resident[i] != s {
			t.Fatalf("resident = %v, want %v", resident, want)
		}
	}
}

func TestCachePinPreventsEviction(t *testing.T) {
	c := New[weight.TropicalWeight](0, true)
	c.limit = c.arcSize // room for exactly one state

	c.SetFinal(0, 0)
	c.PushArc(0, arc(1))
	c.SetArcs(0)
	c.Pin(0)

	c.SetFinal(1, 0)
	c.PushArc(1, arc(2))
	c.SetArcs(1)

	if !c.HasArcs(0) {
		t.Fatalf("pinned state 0 must not be evicted")
	}
}

func TestLazyExpandOnce(t *testing.T) {
	calls := 0
	l := NewLazy[weight.TropicalWeight](0, false, func(s fst.StateId) (weight.TropicalWeight, []fst.Arc[weight.TropicalWeight], error) {
		calls++
		return 0, []fst.Arc[weight.TropicalWeight]{arc(s + 1)}, nil
	})
	if _, err := l.Arcs(0); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Arcs(0); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expand called %d times, want 1", calls)
	}
}
