package properties

import (
	"testing"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

type fixture struct {
	numStates int
	start     fst.StateId
	final     map[fst.StateId]weight.TropicalWeight
	arcs      map[fst.StateId][]fst.Arc[weight.TropicalWeight]
}

func (f fixture) accessor() Accessor[weight.TropicalWeight] {
	return Accessor[weight.TropicalWeight]{
		NumStates: f.numStates,
		Start:     f.start,
		IsFinal: func(s fst.StateId) bool {
			_, ok := f.final[s]
			return ok
		},
		Final: func(s fst.StateId) weight.TropicalWeight {
			return f.final[s]
		},
		Arcs: func(s fst.StateId) []fst.Arc[weight.TropicalWeight] {
			return f.arcs[s]
		},
	}
}

func TestTestPropertiesAcyclicAcceptorChain(t *testing.T) {
	// 0 -a-> 1 -b-> 2(final)
	f := fixture{
		numStates: 3,
		start:     0,
		final:     map[fst.StateId]weight.TropicalWeight{2: 0},
		arcs: map[fst.StateId][]fst.Arc[weight.TropicalWeight]{
			0: {{ILabel: 1, OLabel: 1, Weight: 0, NextState: 1}},
			1: {{ILabel: 2, OLabel: 2, Weight: 0, NextState: 2}},
		},
	}
	p := TestProperties(f.accessor())
	if !p.Is(fst.Acceptor) {
		t.Fatalf("expected acceptor")
	}
	if p.Is(fst.Cyclic) {
		t.Fatalf("expected acyclic")
	}
	if !p.Is(fst.Accessible) || !p.Is(fst.Coaccessible) {
		t.Fatalf("expected fully accessible and coaccessible, got %v", p.Value)
	}
	if !p.Is(fst.String) {
		t.Fatalf("expected String (single path)")
	}
	if !p.Is(fst.Unweighted) {
		t.Fatalf("expected unweighted (all weights One)")
	}
}

func TestTestPropertiesCyclic(t *testing.T) {
	// 0 -a-> 1 -b-> 0, 1 final
	f := fixture{
		numStates: 2,
		start:     0,
		final:     map[fst.StateId]weight.TropicalWeight{1: 0},
		arcs: map[fst.StateId][]fst.Arc[weight.TropicalWeight]{
			0: {{ILabel: 1, OLabel: 1, Weight: 0, NextState: 1}},
			1: {{ILabel: 2, OLabel: 2, Weight: 0, NextState: 0}},
		},
	}
	p := TestProperties(f.accessor())
	if !p.Is(fst.Cyclic) {
		t.Fatalf("expected cyclic")
	}
	if !p.Is(fst.Accessible) || !p.Is(fst.Coaccessible) {
		t.Fatalf("expected fully accessible and coaccessible")
	}
}

func TestTestPropertiesDeadState(t *testing.T) {
	// 0 -a-> 1(final); state 2 is unreachable from start (its own arc
	// still leads to final state 1).
	f := fixture{
		numStates: 3,
		start:     0,
		final:     map[fst.StateId]weight.TropicalWeight{1: 0},
		arcs: map[fst.StateId][]fst.Arc[weight.TropicalWeight]{
			0: {{ILabel: 1, OLabel: 1, Weight: 0, NextState: 1}},
			2: {{ILabel: 1, OLabel: 1, Weight: 0, NextState: 1}},
		},
	}
	p := TestProperties(f.accessor())
	if p.Is(fst.Accessible) {
		t.Fatalf("state 2 is not accessible from start, so whole-FST Accessible must be false")
	}
}

func TestVerifyPropertiesDetectsMismatch(t *testing.T) {
	f := fixture{
		numStates: 1,
		start:     0,
		final:     map[fst.StateId]weight.TropicalWeight{0: 0},
		arcs:      map[fst.StateId][]fst.Arc[weight.TropicalWeight]{},
	}
	claimed := fst.Properties{}.With(fst.Cyclic, true)
	mismatch := VerifyProperties(f.accessor(), claimed)
	if mismatch&fst.Cyclic == 0 {
		t.Fatalf("expected Cyclic mismatch to be detected")
	}
}
