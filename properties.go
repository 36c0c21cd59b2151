package fst

import "golang.org/x/xerrors"

// PropertyBit is one structural-invariant flag. Properties packs a
// PropertyBit value plane and a PropertyBit known plane: a bit set in
// Known says the corresponding Value bit is authoritative; if unset, the
// property is simply unknown (spec §3/§4.4).
type PropertyBit uint64

const (
	Acceptor PropertyBit = 1 << iota
	String                // the FST is a single accepting path
	Unweighted             // every arc/final weight is One or Zero
	Weighted               // negation is not implied: both may be unknown
	Epsilons               // at least one epsilon ilabel or olabel exists
	IEpsilons
	OEpsilons
	ILabelSorted
	OLabelSorted
	Cyclic
	Accessible
	Coaccessible

	// Expanded means NumStates/ExpandedFst methods are valid.
	Expanded
	// Mutable means the FST supports AddState/AddArc/...
	Mutable
	// Error is sticky: once known-and-set, TestProperties/VerifyProperties
	// must never clear it and every subsequent derived FST inherits it.
	Error
)

// StructuralMask is every bit that TestProperties computes a real value
// for (i.e., every bit except the purely derivational Expanded/Mutable,
// which describe the implementation rather than the graph).
const StructuralMask = Acceptor | String | Unweighted | Weighted | Epsilons |
	IEpsilons | OEpsilons | ILabelSorted | OLabelSorted | Cyclic | Accessible | Coaccessible

// Properties is the (value, known) pair describing one FST instance.
type Properties struct {
	Value PropertyBit
	Known PropertyBit
}

// Is reports whether every bit in mask is known AND set in Value.
func (p Properties) Is(mask PropertyBit) bool {
	return p.Known&mask == mask && p.Value&mask == mask
}

// IsKnown reports whether every bit in mask is known (true or false).
func (p Properties) IsKnown(mask PropertyBit) bool {
	return p.Known&mask == mask
}

// Denies reports whether every bit in mask is known AND clear in Value.
func (p Properties) Denies(mask PropertyBit) bool {
	return p.Known&mask == mask && p.Value&mask == 0
}

// With returns a copy with the given bits set to val and marked known.
// A known-and-set Error bit stays set even when mask includes it.
func (p Properties) With(mask PropertyBit, val bool) Properties {
	out := p
	out.Known |= mask
	if val {
		out.Value |= mask
	} else {
		out.Value &^= mask
		if p.Is(Error) {
			out.Value |= Error
		}
	}
	return out
}

// SetError marks Error known-and-set. Once set, later And/With calls
// from this package's helpers never clear it (callers constructing
// Properties values directly must preserve that invariant themselves,
// same as upstream's "sticky" documentation-only guarantee).
func (p Properties) SetError() Properties {
	return p.With(Error, true)
}

// And intersects two known-masks the way a binary operator (e.g.
// composition of two FSTs) must: a bit is known in the result only if it
// was known *and agreed* in both operands, except for Error, which is
// known-and-set in the result if it was known-and-set in either operand.
func (p Properties) And(other Properties) Properties {
	agree := (p.Value &^ other.Value) | (other.Value &^ p.Value)
	known := p.Known & other.Known &^ agree
	value := p.Value & other.Value & known
	out := Properties{Value: value, Known: known}
	if p.Is(Error) || other.Is(Error) {
		out = out.SetError()
	}
	return out
}

// AssertProperties checks that every bit want.Known claims to know
// agrees with p's own value for that bit, returning an error that lists
// every mismatching bit otherwise. A caller that has just
// computed or received Properties and expects specific bits to hold
// (e.g. a compactor expecting Acceptor, or a composition expecting its
// operands' OLabelSorted/ILabelSorted to agree) uses this instead of
// silently trusting an unverified claim. When cfg.ErrorFatal is set,
// a mismatch panics instead of returning an error, the same escape
// hatch Config.ErrorFatal documents for a freshly-set Error property.
func (p Properties) AssertProperties(want Properties, cfg Config) error {
	mismatch := want.Known & (p.Value ^ want.Value) & (p.Known | want.Known)
	if mismatch == 0 {
		return nil
	}
	err := xerrors.Errorf("fst: property mismatch: want %v, have %v (differing: %v)", want.Value&want.Known, p.Value&p.Known, mismatch)
	if cfg.ErrorFatal {
		panic(err)
	}
	return err
}

func (p PropertyBit) String() string {
	names := []struct {
		bit  PropertyBit
		name string
	}{
		{Acceptor, "acceptor"},
		{String, "string"},
		{Unweighted, "unweighted"},
		{Weighted, "weighted"},
		{Epsilons, "epsilons"},
		{IEpsilons, "i_epsilons"},
		{OEpsilons, "o_epsilons"},
		{ILabelSorted, "i_label_sorted"},
		{OLabelSorted, "o_label_sorted"},
		{Cyclic, "cyclic"},
		{Accessible, "accessible"},
		{Coaccessible, "coaccessible"},
		{Expanded, "expanded"},
		{Mutable, "mutable"},
		{Error, "error"},
	}
	s := ""
	for _, n := range names {
		if p&n.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}
