// Package fst defines the core weighted finite-state transducer
// abstractions: labels, states, arcs, the polymorphic read-only FST
// interface, and the configuration knobs threaded through the rest of
// this module (vector, compact, cache, far, ...).
package fst

import "github.com/fstkit/fst/weight"

// Label identifies an input or output symbol on an arc. Zero is epsilon;
// NoLabel marks "not a real label" (used in the superfinal-arc
// encoding).
type Label int32

const (
	Epsilon Label = 0
	NoLabel Label = -1
)

// StateId identifies a state. Non-negative values are dense indices
// starting at 0; NoStateId marks "no state" (the empty FST's start, or
// the superfinal arc's nextstate).
type StateId int32

const NoStateId StateId = -1

// Arc is a labeled, weighted transition out of an implicit source state.
type Arc[W weight.Semiring[W]] struct {
	ILabel    Label
	OLabel    Label
	Weight    W
	NextState StateId
}

// StateIterator walks a dense range of StateIds.
type StateIterator interface {
	Done() bool
	Value() StateId
	Next()
}

// ArcIterator walks a state's out-arcs in a representation-specific
// order (insertion order for VectorFst; compactor layout order, which
// mirrors insertion order at compaction time, for CompactFst).
type ArcIterator[W weight.Semiring[W]] interface {
	Done() bool
	Value() Arc[W]
	Next()
	Reset()
}

// Fst is the polymorphic read-only transducer interface over (W, arcs).
// It deliberately does not require NumStates: that is only well-defined
// when Properties().Is(Expanded) holds, which is why it lives
// on ExpandedFst instead.
type Fst[W weight.Semiring[W]] interface {
	Start() StateId
	Final(s StateId) W
	Arcs(s StateId) ArcIterator[W]
	NumArcs(s StateId) int
	NumInputEpsilons(s StateId) int
	NumOutputEpsilons(s StateId) int
	Properties() Properties
	InputSymbols() *SymbolTable
	OutputSymbols() *SymbolTable
	Type() string
}

// ExpandedFst additionally knows its total state count.
type ExpandedFst[W weight.Semiring[W]] interface {
	Fst[W]
	NumStates() int
}

// MutableFst is incrementally built and owns its states and arcs.
type MutableFst[W weight.Semiring[W]] interface {
	ExpandedFst[W]

	SetStart(s StateId)
	AddState() StateId
	AddArc(s StateId, a Arc[W])
	SetFinal(s StateId, w W)
	DeleteStates(states []StateId)
	ReserveStates(n int)
	ReserveArcs(s StateId, n int)
	SetInputSymbols(*SymbolTable)
	SetOutputSymbols(*SymbolTable)

	// SetProperties overwrites the bits set in mask.Value: afterwards
	// their Known and Value planes are those of props for the same bits.
	SetProperties(props, mask Properties)
}

// Config threads the global behavior flags named in the base spec's
// external-interfaces section (§6) explicitly through constructors
// rather than via package-level variables, following the Ctx-struct
// convention this module's teacher uses for its own build/batch
// configuration.
type Config struct {
	// ErrorFatal makes a freshly-set Error property panic instead of
	// being surfaced through normal return values. Mirrors
	// --fst_error_fatal.
	ErrorFatal bool

	// WeightSeparator is used by composite-weight text I/O. Mirrors
	// --fst_weight_separator. Zero value means use ',' .
	WeightSeparator byte

	// WeightParentheses, if non-empty, must be exactly two bytes (open,
	// close) and enables bracketed composite-weight text I/O. Mirrors
	// --fst_weight_parentheses.
	WeightParentheses string

	// DefaultCacheGC enables the lazy-FST cache's garbage collector by
	// default. Mirrors --fst_default_cache_gc.
	DefaultCacheGC bool

	// DefaultCacheGCLimit is the default cache byte budget. Mirrors
	// --fst_default_cache_gc_limit. Zero means "use the package
	// default" (see cache.DefaultGCLimit), not "no budget".
	DefaultCacheGCLimit int64

	// NativeFloatOrder selects host-native byte order for weight floats
	// instead of little-endian. The vector and compact readers/writers
	// resolve both settings to little-endian, so the field does not
	// change their output; it defaults to false.
	NativeFloatOrder bool
}

func (c Config) weightSeparator() byte {
	if c.WeightSeparator == 0 {
		return ','
	}
	return c.WeightSeparator
}

// Separator returns the configured (or default) composite-weight
// text separator.
func (c Config) Separator() byte { return c.weightSeparator() }

// FormatError reports a malformed on-disk representation: bad magic,
// unsupported version, or a truncated stream. Per spec §7, the caller
// receiving a FormatError gets a nil FST back and must propagate it; the
// core never tries to guess its way past one.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return "fst: format error: " + e.Op
	}
	return "fst: format error: " + e.Op + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }
