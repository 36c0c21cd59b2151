package compact

import (
	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

// Fst is the read-only, compactor-parameterized FST representation
// (spec §4.3). Arc iteration decodes directly from the backing Store on
// every call rather than going through the shared lazy cache package:
// compact storage is already O(1) random access, so materializing
// through a cache would only add bookkeeping (spec §4.3: "Arc iteration
// on a CompactFst bypasses the cache").
type Fst[W weight.Semiring[W], E any] struct {
	compactor Compactor[E, W]
	store     *Store[E]
	numStates int
	start     fst.StateId
	props     fst.Properties
	isyms     *fst.SymbolTable
	osyms     *fst.SymbolTable
}

// New wraps an already-populated Store with its Compactor. numStates
// must match store's own notion of state count for the variable
// regime; for the fixed regime it is taken from the caller since Store
// cannot distinguish "0 states" from "a k=0 compactor".
func New[W weight.Semiring[W], E any](compactor Compactor[E, W], store *Store[E], numStates int, start fst.StateId, props fst.Properties) *Fst[W, E] {
	return &Fst[W, E]{compactor: compactor, store: store, numStates: numStates, start: start, props: props}
}

func (f *Fst[W, E]) Type() string { return "compact_" + f.compactor.Type() }

func (f *Fst[W, E]) Start() fst.StateId { return f.start }

func (f *Fst[W, E]) NumStates() int { return f.numStates }

func (f *Fst[W, E]) Properties() fst.Properties { return f.props }

func (f *Fst[W, E]) InputSymbols() *fst.SymbolTable  { return f.isyms }
func (f *Fst[W, E]) OutputSymbols() *fst.SymbolTable { return f.osyms }

func (f *Fst[W, E]) SetInputSymbols(t *fst.SymbolTable)  { f.isyms = t }
func (f *Fst[W, E]) SetOutputSymbols(t *fst.SymbolTable) { f.osyms = t }

// realArcs returns state s's elements with any leading superfinal
// element stripped off.
func (f *Fst[W, E]) realArcs(s fst.StateId) []E {
	elems := f.store.Range(s)
	if len(elems) > 0 && f.compactor.IsFinal(elems[0]) {
		return elems[1:]
	}
	return elems
}

func (f *Fst[W, E]) Final(s fst.StateId) W {
	elems := f.store.Range(s)
	if len(elems) > 0 && f.compactor.IsFinal(elems[0]) {
		return f.compactor.FinalWeight(elems[0])
	}
	var zero W
	return zero.Zero()
}

func (f *Fst[W, E]) NumArcs(s fst.StateId) int { return len(f.realArcs(s)) }

func (f *Fst[W, E]) NumInputEpsilons(s fst.StateId) int {
	n := 0
	for _, e := range f.realArcs(s) {
		if f.compactor.Expand(s, e, ExpandLabels).ILabel == fst.Epsilon {
			n++
		}
	}
	return n
}

func (f *Fst[W, E]) NumOutputEpsilons(s fst.StateId) int {
	n := 0
	for _, e := range f.realArcs(s) {
		if f.compactor.Expand(s, e, ExpandLabels).OLabel == fst.Epsilon {
			n++
		}
	}
	return n
}

func (f *Fst[W, E]) Arcs(s fst.StateId) fst.ArcIterator[W] {
	return &compactArcIter[W, E]{fst: f, s: s, elems: f.realArcs(s)}
}

type compactArcIter[W weight.Semiring[W], E any] struct {
	fst   *Fst[W, E]
	s     fst.StateId
	elems []E
	pos   int
}

func (it *compactArcIter[W, E]) Done() bool { return it.pos >= len(it.elems) }

func (it *compactArcIter[W, E]) Value() fst.Arc[W] {
	return it.fst.compactor.Expand(it.s, it.elems[it.pos], ExpandAll)
}

func (it *compactArcIter[W, E]) Next()  { it.pos++ }
func (it *compactArcIter[W, E]) Reset() { it.pos = 0 }

var _ fst.ExpandedFst[weight.TropicalWeight] = (*Fst[weight.TropicalWeight, StringElement])(nil)
