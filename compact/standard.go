package compact

import (
	"io"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

// StringElement backs the String compactor: a linear-chain acceptor
// with implicit unit weight, one label per state (spec §4.3).
type StringElement struct {
	Label int32
}

// StringCompactor compacts a "the FST is a single accepting path"
// acceptor: k=1, Element=ilabel, olabel=ilabel, weight=One, and
// nextstate is always s+1 except at the final (superfinal) slot.
type StringCompactor[W weight.Semiring[W]] struct{}

func (StringCompactor[W]) Compact(s fst.StateId, a fst.Arc[W]) StringElement {
	return StringElement{Label: int32(a.ILabel)}
}

func (StringCompactor[W]) Expand(s fst.StateId, e StringElement, flags ExpandFlags) fst.Arc[W] {
	var one W
	one = one.One()
	return fst.Arc[W]{
		ILabel:    fst.Label(e.Label),
		OLabel:    fst.Label(e.Label),
		Weight:    one,
		NextState: s + 1,
	}
}

func (StringCompactor[W]) CompactFinal(s fst.StateId, w W) StringElement {
	return StringElement{Label: int32(fst.NoLabel)}
}

func (StringCompactor[W]) IsFinal(e StringElement) bool { return e.Label == int32(fst.NoLabel) }

func (StringCompactor[W]) FinalWeight(e StringElement) W {
	var one W
	return one.One()
}

func (StringCompactor[W]) Size() int { return 1 }

func (StringCompactor[W]) Compatible(p fst.Properties) bool {
	return p.Is(fst.String | fst.Acceptor | fst.Unweighted)
}

func (StringCompactor[W]) Properties() fst.PropertyBit {
	return fst.String | fst.Acceptor | fst.Unweighted | fst.ILabelSorted | fst.OLabelSorted
}

func (StringCompactor[W]) Type() string { return "string" }

// WeightedStringElement backs WeightedString: like StringElement but
// with an explicit per-position weight.
type WeightedStringElement[W weight.Semiring[W]] struct {
	Label  int32
	Weight W
}

type WeightedStringCompactor[W weight.Semiring[W]] struct{}

func (WeightedStringCompactor[W]) Compact(s fst.StateId, a fst.Arc[W]) WeightedStringElement[W] {
	return WeightedStringElement[W]{Label: int32(a.ILabel), Weight: a.Weight}
}

func (WeightedStringCompactor[W]) Expand(s fst.StateId, e WeightedStringElement[W], flags ExpandFlags) fst.Arc[W] {
	return fst.Arc[W]{ILabel: fst.Label(e.Label), OLabel: fst.Label(e.Label), Weight: e.Weight, NextState: s + 1}
}

func (WeightedStringCompactor[W]) CompactFinal(s fst.StateId, w W) WeightedStringElement[W] {
	return WeightedStringElement[W]{Label: int32(fst.NoLabel), Weight: w}
}

func (WeightedStringCompactor[W]) IsFinal(e WeightedStringElement[W]) bool {
	return e.Label == int32(fst.NoLabel)
}

func (WeightedStringCompactor[W]) FinalWeight(e WeightedStringElement[W]) W { return e.Weight }

func (WeightedStringCompactor[W]) Size() int { return 1 }

func (WeightedStringCompactor[W]) Compatible(p fst.Properties) bool {
	return p.Is(fst.String | fst.Acceptor)
}

func (WeightedStringCompactor[W]) Properties() fst.PropertyBit {
	return fst.String | fst.Acceptor | fst.ILabelSorted | fst.OLabelSorted
}

func (WeightedStringCompactor[W]) Type() string { return "weighted_string" }

// UnweightedAcceptorElement backs UnweightedAcceptor: a general
// (branching) acceptor whose weights are always One.
type UnweightedAcceptorElement struct {
	Label     int32
	NextState int32
}

type UnweightedAcceptorCompactor[W weight.Semiring[W]] struct{}

func (UnweightedAcceptorCompactor[W]) Compact(s fst.StateId, a fst.Arc[W]) UnweightedAcceptorElement {
	return UnweightedAcceptorElement{Label: int32(a.ILabel), NextState: int32(a.NextState)}
}

func (UnweightedAcceptorCompactor[W]) Expand(s fst.StateId, e UnweightedAcceptorElement, flags ExpandFlags) fst.Arc[W] {
	var one W
	one = one.One()
	return fst.Arc[W]{ILabel: fst.Label(e.Label), OLabel: fst.Label(e.Label), Weight: one, NextState: fst.StateId(e.NextState)}
}

func (UnweightedAcceptorCompactor[W]) CompactFinal(s fst.StateId, w W) UnweightedAcceptorElement {
	return UnweightedAcceptorElement{Label: int32(fst.NoLabel), NextState: int32(fst.NoStateId)}
}

func (UnweightedAcceptorCompactor[W]) IsFinal(e UnweightedAcceptorElement) bool {
	return e.Label == int32(fst.NoLabel)
}

func (UnweightedAcceptorCompactor[W]) FinalWeight(e UnweightedAcceptorElement) W {
	var one W
	return one.One()
}

func (UnweightedAcceptorCompactor[W]) Size() int { return -1 }

func (UnweightedAcceptorCompactor[W]) Compatible(p fst.Properties) bool {
	return p.Is(fst.Acceptor | fst.Unweighted)
}

func (UnweightedAcceptorCompactor[W]) Properties() fst.PropertyBit {
	return fst.Acceptor | fst.Unweighted
}

func (UnweightedAcceptorCompactor[W]) Type() string { return "unweighted_acceptor" }

// AcceptorElement backs Acceptor: a general weighted acceptor.
type AcceptorElement[W weight.Semiring[W]] struct {
	Label     int32
	Weight    W
	NextState int32
}

type AcceptorCompactor[W weight.Semiring[W]] struct{}

func (AcceptorCompactor[W]) Compact(s fst.StateId, a fst.Arc[W]) AcceptorElement[W] {
	return AcceptorElement[W]{Label: int32(a.ILabel), Weight: a.Weight, NextState: int32(a.NextState)}
}

func (AcceptorCompactor[W]) Expand(s fst.StateId, e AcceptorElement[W], flags ExpandFlags) fst.Arc[W] {
	return fst.Arc[W]{ILabel: fst.Label(e.Label), OLabel: fst.Label(e.Label), Weight: e.Weight, NextState: fst.StateId(e.NextState)}
}

func (AcceptorCompactor[W]) CompactFinal(s fst.StateId, w W) AcceptorElement[W] {
	return AcceptorElement[W]{Label: int32(fst.NoLabel), Weight: w, NextState: int32(fst.NoStateId)}
}

func (AcceptorCompactor[W]) IsFinal(e AcceptorElement[W]) bool { return e.Label == int32(fst.NoLabel) }

func (AcceptorCompactor[W]) FinalWeight(e AcceptorElement[W]) W { return e.Weight }

func (AcceptorCompactor[W]) Size() int { return -1 }

func (AcceptorCompactor[W]) Compatible(p fst.Properties) bool { return p.Is(fst.Acceptor) }

func (AcceptorCompactor[W]) Properties() fst.PropertyBit { return fst.Acceptor }

func (AcceptorCompactor[W]) Type() string { return "acceptor" }

// UnweightedElement backs Unweighted: a general transducer (arbitrary
// ilabel/olabel) whose weights are always One.
type UnweightedElement struct {
	ILabel    int32
	OLabel    int32
	NextState int32
}

type UnweightedCompactor[W weight.Semiring[W]] struct{}

func (UnweightedCompactor[W]) Compact(s fst.StateId, a fst.Arc[W]) UnweightedElement {
	return UnweightedElement{ILabel: int32(a.ILabel), OLabel: int32(a.OLabel), NextState: int32(a.NextState)}
}

func (UnweightedCompactor[W]) Expand(s fst.StateId, e UnweightedElement, flags ExpandFlags) fst.Arc[W] {
	var one W
	one = one.One()
	return fst.Arc[W]{ILabel: fst.Label(e.ILabel), OLabel: fst.Label(e.OLabel), Weight: one, NextState: fst.StateId(e.NextState)}
}

func (UnweightedCompactor[W]) CompactFinal(s fst.StateId, w W) UnweightedElement {
	return UnweightedElement{ILabel: int32(fst.NoLabel), OLabel: int32(fst.NoLabel), NextState: int32(fst.NoStateId)}
}

func (UnweightedCompactor[W]) IsFinal(e UnweightedElement) bool { return e.ILabel == int32(fst.NoLabel) }

func (UnweightedCompactor[W]) FinalWeight(e UnweightedElement) W {
	var one W
	return one.One()
}

func (UnweightedCompactor[W]) Size() int { return -1 }

func (UnweightedCompactor[W]) Compatible(p fst.Properties) bool { return p.Is(fst.Unweighted) }

func (UnweightedCompactor[W]) Properties() fst.PropertyBit { return fst.Unweighted }

func (UnweightedCompactor[W]) Type() string { return "unweighted" }

func (StringCompactor[W]) WriteParams(w io.Writer) error { return nil }
func (StringCompactor[W]) ReadParams(r io.Reader) error { return nil }

func (WeightedStringCompactor[W]) WriteParams(w io.Writer) error { return nil }
func (WeightedStringCompactor[W]) ReadParams(r io.Reader) error { return nil }

func (UnweightedAcceptorCompactor[W]) WriteParams(w io.Writer) error { return nil }
func (UnweightedAcceptorCompactor[W]) ReadParams(r io.Reader) error { return nil }

func (AcceptorCompactor[W]) WriteParams(w io.Writer) error { return nil }
func (AcceptorCompactor[W]) ReadParams(r io.Reader) error { return nil }

func (UnweightedCompactor[W]) WriteParams(w io.Writer) error { return nil }
func (UnweightedCompactor[W]) ReadParams(r io.Reader) error { return nil }
