package compact

import (
	"bytes"
	"testing"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/vector"
	"github.com/fstkit/fst/weight"
)

func buildStringVector() *vector.Fst[weight.TropicalWeight] {
	f := vector.New[weight.TropicalWeight]()
	s0 := f.AddState()
	s1 := f.AddState()
	s2 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, fst.Arc[weight.TropicalWeight]{ILabel: 1, OLabel: 1, Weight: 0, NextState: s1})
	f.AddArc(s1, fst.Arc[weight.TropicalWeight]{ILabel: 2, OLabel: 2, Weight: 0, NextState: s2})
	f.SetFinal(s2, 0)
	return f
}

func TestCompileStringCompactor(t *testing.T) {
	src := buildStringVector()
	compactor := StringCompactor[weight.TropicalWeight]{}
	cf, err := Compile[weight.TropicalWeight](src, compactor)
	if err != nil {
		t.Fatal(err)
	}
	if cf.NumStates() != 3 {
		t.Fatalf("NumStates() = %d, want 3", cf.NumStates())
	}
	if cf.Start() != 0 {
		t.Fatalf("Start() = %d, want 0", cf.Start())
	}
	if cf.NumArcs(0) != 1 || cf.NumArcs(1) != 1 || cf.NumArcs(2) != 0 {
		t.Fatalf("unexpected arc counts: %d %d %d", cf.NumArcs(0), cf.NumArcs(1), cf.NumArcs(2))
	}
	it := cf.Arcs(0)
	if it.Done() {
		t.Fatalf("expected an arc on state 0")
	}
	a := it.Value()
	if a.ILabel != 1 || a.NextState != 1 {
		t.Fatalf("unexpected arc %+v", a)
	}
	if cf.Final(2) != weight.TropicalWeight(0).One() {
		t.Fatalf("Final(2) = %v, want One", cf.Final(2))
	}
}

func TestCompileRejectsIncompatibleSource(t *testing.T) {
	f := vector.New[weight.TropicalWeight]()
	s0 := f.AddState()
	s1 := f.AddState()
	f.SetStart(s0)
	// Two out-arcs from one state: not a single accepting path.
	f.AddArc(s0, fst.Arc[weight.TropicalWeight]{ILabel: 1, OLabel: 1, Weight: 0, NextState: s1})
	f.AddArc(s0, fst.Arc[weight.TropicalWeight]{ILabel: 2, OLabel: 2, Weight: 0, NextState: s1})
	f.SetFinal(s1, 0)

	_, err := Compile[weight.TropicalWeight](f, StringCompactor[weight.TropicalWeight]{})
	if err == nil {
		t.Fatalf("expected Compile to reject a branching FST for the String compactor")
	}
}

func TestUnweightedAcceptorBinaryRoundTrip(t *testing.T) {
	src := vector.New[weight.TropicalWeight]()
	s0 := src.AddState()
	s1 := src.AddState()
	src.SetStart(s0)
	src.AddArc(s0, fst.Arc[weight.TropicalWeight]{ILabel: 5, OLabel: 5, Weight: 0, NextState: s1})
	src.SetFinal(s1, 0)

	compactor := UnweightedAcceptorCompactor[weight.TropicalWeight]{}
	cf, err := Compile[weight.TropicalWeight](src, compactor)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	codec := UnweightedAcceptorElementCodec()
	if err := Write(&buf, cf, codec, 0, fst.Config{}); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf, compactor, codec, 0, fst.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got.NumStates() != cf.NumStates() || got.Start() != cf.Start() {
		t.Fatalf("round trip mismatch: states=%d start=%d", got.NumStates(), got.Start())
	}
	if got.NumArcs(0) != 1 {
		t.Fatalf("NumArcs(0) = %d, want 1", got.NumArcs(0))
	}
	it := got.Arcs(0)
	if it.Done() || it.Value().ILabel != 5 {
		t.Fatalf("unexpected decoded arc")
	}
}
