package vector

import (
	"bytes"
	"testing"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

func buildChain() *Fst[weight.TropicalWeight] {
	f := New[weight.TropicalWeight]()
	s0 := f.AddState()
	s1 := f.AddState()
	s2 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, fst.Arc[weight.TropicalWeight]{ILabel: 1, OLabel: 1, Weight: 0, NextState: s1})
	f.AddArc(s1, fst.Arc[weight.TropicalWeight]{ILabel: 2, OLabel: 2, Weight: 1.5, NextState: s2})
	f.SetFinal(s2, 0)
	return f
}

func TestVectorAddStateAddArc(t *testing.T) {
	f := buildChain()
	if f.NumStates() != 3 {
		t.Fatalf("NumStates() = %d, want 3", f.NumStates())
	}
	if f.Start() != 0 {
		t.Fatalf("Start() = %d, want 0", f.Start())
	}
	if f.NumArcs(0) != 1 || f.NumArcs(1) != 1 || f.NumArcs(2) != 0 {
		t.Fatalf("unexpected arc counts")
	}
	it := f.Arcs(0)
	if it.Done() {
		t.Fatalf("expected at least one arc on state 0")
	}
	a := it.Value()
	if a.ILabel != 1 || a.NextState != 1 {
		t.Fatalf("unexpected arc %+v", a)
	}
	it.Next()
	if !it.Done() {
		t.Fatalf("expected exactly one arc on state 0")
	}
}

func TestVectorDeleteStatesCompacts(t *testing.T) {
	f := buildChain()
	f.DeleteStates([]fst.StateId{1})
	if f.NumStates() != 2 {
		t.Fatalf("NumStates() = %d, want 2 after deleting middle state", f.NumStates())
	}
	// state 0's arc into the deleted state 1 must be gone.
	if f.NumArcs(0) != 0 {
		t.Fatalf("NumArcs(0) = %d, want 0 (dangling arc should be dropped)", f.NumArcs(0))
	}
	if f.Start() != 0 {
		t.Fatalf("Start() = %d, want 0 (start survives)", f.Start())
	}
}

func TestVectorDeleteStatesClearsStart(t *testing.T) {
	f := buildChain()
	f.DeleteStates([]fst.StateId{0})
	if f.Start() != fst.NoStateId {
		t.Fatalf("Start() = %d, want NoStateId after deleting the start state", f.Start())
	}
}

func TestVectorBinaryRoundTrip(t *testing.T) {
	f := buildChain()
	var buf bytes.Buffer
	if err := Write(&buf, f, TropicalCodec, fst.Config{}); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf, TropicalCodec, fst.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got.NumStates() != f.NumStates() {
		t.Fatalf("NumStates() = %d, want %d", got.NumStates(), f.NumStates())
	}
	if got.Start() != f.Start() {
		t.Fatalf("Start() = %d, want %d", got.Start(), f.Start())
	}
	for s := 0; s < f.NumStates(); s++ {
		if got.NumArcs(fst.StateId(s)) != f.NumArcs(fst.StateId(s)) {
			t.Fatalf("state %d: NumArcs = %d, want %d", s, got.NumArcs(fst.StateId(s)), f.NumArcs(fst.StateId(s)))
		}
	}
	if got.Final(2) != f.Final(2) {
		t.Fatalf("Final(2) = %v, want %v", got.Final(2), f.Final(2))
	}
}

func TestVectorEmptyStringFst(t *testing.T) {
	// spec §8 scenario 1: single-state FST, start=0, final weight One.
	f := New[weight.TropicalWeight]()
	s0 := f.AddState()
	f.SetStart(s0)
	f.SetFinal(s0, 0)

	var buf bytes.Buffer
	if err := Write(&buf, f, TropicalCodec, fst.Config{}); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf, TropicalCodec, fst.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got.NumStates() != 1 || got.Start() != 0 || got.Final(0) != 0 {
		t.Fatalf("empty-string round trip mismatch: states=%d start=%d final=%v",
			got.NumStates(), got.Start(), got.Final(0))
	}
}

func TestVectorSymbolTableRoundTrip(t *testing.T) {
	f := buildChain()
	isyms := fst.NewSymbolTable("input")
	isyms.AddSymbolID("a", 1)
	isyms.AddSymbolID("b", 2)
	f.SetInputSymbols(isyms)

	var buf bytes.Buffer
	if err := Write(&buf, f, TropicalCodec, fst.Config{}); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf, TropicalCodec, fst.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got.InputSymbols() == nil {
		t.Fatalf("expected input symbols to round-trip")
	}
	if sym, ok := got.InputSymbols().FindSymbol(1); !ok || sym != "a" {
		t.Fatalf("FindSymbol(1) = %q, %v, want \"a\", true", sym, ok)
	}
}
