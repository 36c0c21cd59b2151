package compact

import (
	"unsafe"

	"golang.org/x/xerrors"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/mmap"
)

// Store holds the packed Element array underlying a CompactFst, in
// either of the two regimes spec §4.3 describes:
//
//   - Fixed out-degree k (Size() = k > 0): Compacts is a flat
//     Element[numStates*k] array, state s's slots are
//     Compacts[s*k : s*k+k].
//   - Variable out-degree (Size() = -1): States holds numStates+1
//     offsets into Compacts; state s's slots are
//     Compacts[States[s] : States[s+1]].
type Store[E any] struct {
	fixedK int
	states []int32 // nil when fixedK > 0
	compacts []E

	// region, if non-nil, is the memory-mapped backing for Compacts,
	// kept alive for as long as this Store is reachable (spec §4.7:
	// "lifetime >= lifetime of any pointer obtained from it").
	region *mmap.Shared
}

// NewFixed builds a Store in the fixed out-degree regime over an
// already-decoded element slice (len(compacts) must equal
// numStates*k).
func NewFixed[E any](k int, compacts []E) *Store[E] {
	return &Store[E]{fixedK: k, compacts: compacts}
}

// NewVariable builds a Store in the variable out-degree regime. states
// must have length numStates+1 with states[numStates] == len(compacts).
func NewVariable[E any](states []int32, compacts []E) *Store[E] {
	return &Store[E]{fixedK: -1, states: states, compacts: compacts}
}

// NewMappedFixed constructs a fixed-regime Store whose Compacts array
// is a zero-copy typed view over region's bytes, per spec §4.7's
// promise that Compact stores expose states/compacts without copying.
// region must outlive the returned Store; the Store acquires its own
// reference and releases it when Close is called.
func NewMappedFixed[E any](region *mmap.Shared, k, numStates int) (*Store[E], error) {
	n := k * numStates
	compacts, err := mappedElements[E](region, n)
	if err != nil {
		return nil, err
	}
	return &Store[E]{fixedK: k, compacts: compacts, region: region.Acquire()}, nil
}

func mappedElements[E any](region *mmap.Shared, n int) ([]E, error) {
	var zero E
	size := int(unsafe.Sizeof(zero))
	buf := region.Region().Bytes()
	if n*size > len(buf) {
		return nil, xerrors.Errorf("compact: mapped region too small for %d elements of size %d (have %d bytes)", n, size, len(buf))
	}
	if n == 0 {
		return nil, nil
	}
	ptr := (*E)(unsafe.Pointer(&buf[0]))
	return unsafe.Slice(ptr, n), nil
}

func (s *Store[E]) Size() int { return s.fixedK }

// Range returns state s's compacted elements, in write order with the
// superfinal element (if any) first.
func (s *Store[E]) Range(state fst.StateId) []E {
	si := int(state)
	if s.fixedK > 0 {
		lo := si * s.fixedK
		return s.compacts[lo : lo+s.fixedK]
	}
	return s.compacts[s.states[si]:s.states[si+1]]
}

// NumStates derives the state count from the layout: len(compacts)/k in
// the fixed regime, len(states)-1 in the variable regime.
func (s *Store[E]) NumStates() int {
	if s.fixedK > 0 {
		if s.fixedK == 0 {
			return 0
		}
		return len(s.compacts) / s.fixedK
	}
	return len(s.states) - 1
}

func (s *Store[E]) Close() error {
	if s.region != nil {
		return s.region.Release()
	}
	return nil
}
