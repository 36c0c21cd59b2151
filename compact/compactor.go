// Package compact implements CompactFst (spec §4.3): a read-only FST
// whose states and arcs are packed into a Compactor-defined POD
// Element, stored either at a fixed per-state stride or in a variable
// variable-length layout, with the per-state final weight encoded as a
// leading "superfinal" element when the state is final.
package compact

import (
	"io"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

// ExpandFlags selects which Arc fields a caller actually needs from
// Expand, letting a compactor skip decoding fields the caller will
// discard (spec §4.3: "Flags let the consumer request label-only or
// weight-only partial expansion").
type ExpandFlags uint8

const (
	ExpandLabels ExpandFlags = 1 << iota
	ExpandWeight
	ExpandDest

	ExpandAll = ExpandLabels | ExpandWeight | ExpandDest
)

// Compactor maps between (state, arc) pairs and a compactor-defined
// Element, and back. E must be a fixed-layout POD: CompactFst may
// expose the backing store as a typed slice over a memory-mapped
// region (spec §4.7) without copying.
//
// CompactFinal/IsFinal/FinalWeight give the compactor control over how
// a state's final weight is represented as its leading "superfinal"
// Element (spec §4.3: "if s is final, the superfinal transition is
// stored first among s's compacts"); this is the one place the spec's
// single Compact/Expand pair is not quite enough to pack a full state,
// so every standard compactor below implements these three alongside
// Compact/Expand.
type Compactor[E any, W weight.Semiring[W]] interface {
	Compact(s fst.StateId, a fst.Arc[W]) E
	Expand(s fst.StateId, e E, flags ExpandFlags) fst.Arc[W]

	CompactFinal(s fst.StateId, w W) E
	IsFinal(e E) bool
	FinalWeight(e E) W

	// Size returns k>0 for a fixed out-degree regime or -1 for
	// variable out-degree (spec §4.3).
	Size() int

	// Compatible asserts that p (the source FST's properties) are a
	// superset of what this compactor requires.
	Compatible(p fst.Properties) bool

	// Properties reports what this compactor guarantees about any FST
	// built from it (e.g. String|Acceptor|Unweighted).
	Properties() fst.PropertyBit

	Type() string

	// WriteParams/ReadParams (de)serialize any compactor-specific
	// configuration (spec §4.3). The five standard compactors below
	// carry no parameters, so these are no-ops; a future
	// variable-context compactor (e.g. one with a tunable delta
	// encoding) would use these to round-trip its configuration ahead
	// of the Element array.
	WriteParams(w io.Writer) error
	ReadParams(r io.Reader) error
}
