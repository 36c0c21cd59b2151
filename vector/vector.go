// Package vector implements VectorFst, the mutable, dense, in-memory
// FST representation (spec §4.2): one final weight and one ordered arc
// slice per state, with incremental property maintenance.
package vector

import (
	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

type vstate[W weight.Semiring[W]] struct {
	final W
	arcs  []fst.Arc[W]
}

// Fst is the mutable vector representation. The zero value is not
// valid; use New.
type Fst[W weight.Semiring[W]] struct {
	states []vstate[W]
	start  fst.StateId

	props fst.Properties

	isyms *fst.SymbolTable
	osyms *fst.SymbolTable
}

// New returns an empty VectorFst with no start state.
func New[W weight.Semiring[W]]() *Fst[W] {
	f := &Fst[W]{start: fst.NoStateId}
	f.props = fst.Properties{}.
		With(fst.Acceptor, true).
		With(fst.String, true).
		With(fst.Unweighted, true).
		With(fst.Weighted, false).
		With(fst.Epsilons, false).
		With(fst.IEpsilons, false).
		With(fst.OEpsilons, false).
		With(fst.ILabelSorted, true).
		With(fst.OLabelSorted, true).
		With(fst.Cyclic, false).
		With(fst.Accessible, true).
		With(fst.Coaccessible, true).
		With(fst.Expanded, true).
		With(fst.Mutable, true)
	return f
}

func (f *Fst[W]) Type() string { return "vector" }

func (f *Fst[W]) Start() fst.StateId { return f.start }

// SetStart sets the start state. s must already exist (or be NoStateId).
func (f *Fst[W]) SetStart(s fst.StateId) {
	f.start = s
	f.props.Known &^= fst.Accessible | fst.Coaccessible
}

// AddState appends a new state with Zero final weight and no arcs,
// returning its id. O(1) amortized (spec §4.2).
func (f *Fst[W]) AddState() fst.StateId {
	var zero W
	f.states = append(f.states, vstate[W]{final: zero.Zero()})
	return fst.StateId(len(f.states) - 1)
}

// ReserveStates is a capacity hint; it changes no observable behavior.
func (f *Fst[W]) ReserveStates(n int) {
	if cap(f.states) < n {
		grown := make([]vstate[W], len(f.states), n)
		copy(grown, f.states)
		f.states = grown
	}
}

// ReserveArcs is a capacity hint for state s's arc slice.
func (f *Fst[W]) ReserveArcs(s fst.StateId, n int) {
	st := &f.states[s]
	if cap(st.arcs) < n {
		grown := make([]fst.Arc[W], len(st.arcs), n)
		copy(grown, st.arcs)
		st.arcs = grown
	}
}

func (f *Fst[W]) NumStates() int { return len(f.states) }

func (f *Fst[W]) Final(s fst.StateId) W { return f.states[s].final }

// SetFinal assigns state s's final weight.
func (f *Fst[W]) SetFinal(s fst.StateId, w W) {
	f.states[s].final = w
	var zero, one W
	zero, one = zero.Zero(), one.One()
	if !w.ApproxEqual(zero, 1e-6) && !w.ApproxEqual(one, 1e-6) {
		f.props = f.props.With(fst.Unweighted, false).With(fst.Weighted, true)
	}
	f.props.Known &^= fst.Coaccessible
}

// AddArc appends arc a to state s's out-arc list. O(1) amortized;
// clears the sortedness known-bits unless the append preserves them
// (spec §4.2).
func (f *Fst[W]) AddArc(s fst.StateId, a fst.Arc[W]) {
	st := &f.states[s]
	if n := len(st.arcs); n > 0 {
		prev := st.arcs[n-1]
		if a.ILabel < prev.ILabel {
			f.props.Known &^= fst.ILabelSorted
		}
		if a.OLabel < prev.OLabel {
			f.props.Known &^= fst.OLabelSorted
		}
	}
	if len(st.arcs) >= 1 {
		f.props = f.props.With(fst.String, false)
	}
	if a.ILabel != a.OLabel {
		f.props = f.props.With(fst.Acceptor, false)
	}
	if a.ILabel == fst.Epsilon {
		f.props = f.props.With(fst.Epsilons, true).With(fst.IEpsilons, true)
	}
	if a.OLabel == fst.Epsilon {
		f.props = f.props.With(fst.Epsilons, true).With(fst.OEpsilons, true)
	}
	var one W
	one = one.One()
	if !a.Weight.ApproxEqual(one, 1e-6) {
		f.props = f.props.With(fst.Unweighted, false).With(fst.Weighted, true)
	}
	st.arcs = append(st.arcs, a)
	f.props.Known &^= fst.Accessible | fst.Coaccessible | fst.Cyclic
}

func (f *Fst[W]) NumArcs(s fst.StateId) int { return len(f.states[s].arcs) }

func (f *Fst[W]) NumInputEpsilons(s fst.StateId) int {
	n := 0
	for _, a := range f.states[s].arcs {
		if a.ILabel == fst.Epsilon {
			n++
		}
	}
	return n
}

func (f *Fst[W]) NumOutputEpsilons(s fst.StateId) int {
	n := 0
	for _, a := range f.states[s].arcs {
		if a.OLabel == fst.Epsilon {
			n++
		}
	}
	return n
}

func (f *Fst[W]) Arcs(s fst.StateId) fst.ArcIterator[W] {
	return &arcIter[W]{arcs: f.states[s].arcs}
}

// ArcsSlice exposes the raw backing arcs of state s without copying;
// used by compact-conversion and binary-writer code that needs
// sequential access without the iterator indirection.
func (f *Fst[W]) ArcsSlice(s fst.StateId) []fst.Arc[W] { return f.states[s].arcs }

func (f *Fst[W]) Properties() fst.Properties { return f.props }

// SetProperties overwrites the bits set in mask.Value: afterwards their
// Known and Value planes are those of props for the same bits. Used after a TestProperties full pass
// (mask = StructuralMask-as-Value) or after a targeted incremental
// update recomputes one bit.
func (f *Fst[W]) SetProperties(props, mask fst.Properties) {
	bits := mask.Value
	f.props.Known = (f.props.Known &^ bits) | (props.Known & bits)
	f.props.Value = (f.props.Value &^ bits) | (props.Value & bits)
}

func (f *Fst[W]) InputSymbols() *fst.SymbolTable  { return f.isyms }
func (f *Fst[W]) OutputSymbols() *fst.SymbolTable { return f.osyms }
func (f *Fst[W]) SetInputSymbols(t *fst.SymbolTable)  { f.isyms = t }
func (f *Fst[W]) SetOutputSymbols(t *fst.SymbolTable) { f.osyms = t }

// DeleteStates removes the states in dead (order-independent), removes
// every arc that referenced them, compacts remaining StateIds to stay
// dense, and clears/updates the start state (spec §4.2).
func (f *Fst[W]) DeleteStates(dead []fst.StateId) {
	if len(dead) == 0 {
		return
	}
	remove := make(map[fst.StateId]bool, len(dead))
	for _, s := range dead {
		remove[s] = true
	}
	remap := make([]fst.StateId, len(f.states))
	next := fst.StateId(0)
	for s := range f.states {
		sid := fst.StateId(s)
		if remove[sid] {
			remap[s] = fst.NoStateId
			continue
		}
		remap[s] = next
		next++
	}
	newStates := make([]vstate[W], 0, next)
	for s := range f.states {
		sid := fst.StateId(s)
		if remove[sid] {
			continue
		}
		old := f.states[s]
		kept := old.arcs[:0:0]
		for _, a := range old.arcs {
			if remove[a.NextState] {
				continue
			}
			a.NextState = remap[a.NextState]
			kept = append(kept, a)
		}
		newStates = append(newStates, vstate[W]{final: old.final, arcs: kept})
	}
	f.states = newStates
	if f.start != fst.NoStateId {
		if remove[f.start] {
			f.start = fst.NoStateId
		} else {
			f.start = remap[f.start]
		}
	}
	f.props = fst.Properties{}
}

// DeleteArcs removes all out-arcs of state s.
func (f *Fst[W]) DeleteArcs(s fst.StateId) {
	f.states[s].arcs = nil
	f.props.Known &^= fst.Accessible | fst.Coaccessible
}

type arcIter[W weight.Semiring[W]] struct {
	arcs []fst.Arc[W]
	pos  int
}

func (it *arcIter[W]) Done() bool        { return it.pos >= len(it.arcs) }
func (it *arcIter[W]) Value() fst.Arc[W] { return it.arcs[it.pos] }
func (it *arcIter[W]) Next()             { it.pos++ }
func (it *arcIter[W]) Reset()            { it.pos = 0 }

var _ fst.MutableFst[weight.TropicalWeight] = (*Fst[weight.TropicalWeight])(nil)
