package compact

import (
	"golang.org/x/xerrors"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

// Compile packs every state of src into compactor's Element type,
// returning a new CompactFst. src must satisfy compactor.Compatible;
// Compile returns an error instead of silently dropping information
// otherwise.
func Compile[W weight.Semiring[W], E any](src fst.ExpandedFst[W], compactor Compactor[E, W]) (*Fst[W, E], error) {
	if !compactor.Compatible(src.Properties()) {
		return nil, xerrors.Errorf("compact: source FST properties %v are not compatible with compactor %q", src.Properties().Value, compactor.Type())
	}

	n := src.NumStates()
	k := compactor.Size()

	var zero W
	zero = zero.Zero()

	perState := make([][]E, n)
	total := 0
	for s := 0; s < n; s++ {
		sid := fst.StateId(s)
		var elems []E
		if fw := src.Final(sid); !fw.ApproxEqual(zero, 1e-6) {
			elems = append(elems, compactor.CompactFinal(sid, fw))
		}
		for it := src.Arcs(sid); !it.Done(); it.Next() {
			elems = append(elems, compactor.Compact(sid, it.Value()))
		}
		if k > 0 && len(elems) != k {
			return nil, xerrors.Errorf("compact: state %d has %d compacted elements, want exactly %d for fixed-degree compactor %q", s, len(elems), k, compactor.Type())
		}
		perState[s] = elems
		total += len(elems)
	}

	compacts := make([]E, 0, total)
	var store *Store[E]
	if k > 0 {
		for s := 0; s < n; s++ {
			compacts = append(compacts, perState[s]...)
		}
		store = NewFixed(k, compacts)
	} else {
		states := make([]int32, n+1)
		for s := 0; s < n; s++ {
			states[s] = int32(len(compacts))
			compacts = append(compacts, perState[s]...)
		}
		states[n] = int32(len(compacts))
		store = NewVariable(states, compacts)
	}

	props := fst.Properties{}.
		With(compactor.Properties(), true).
		With(fst.Expanded, true)

	return New[W, E](compactor, store, n, src.Start(), props), nil
}
