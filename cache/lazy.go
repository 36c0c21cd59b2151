package cache

import (
	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

// ExpandFunc computes a state's final weight and out-arcs on first
// access. Implementations are expected to be deterministic and
// side-effect-free with respect to anything other than the Lazy cache
// that calls them.
type ExpandFunc[W weight.Semiring[W]] func(s fst.StateId) (final W, arcs []fst.Arc[W], err error)

// Lazy pairs a Store with an ExpandFunc, giving delayed-FST
// implementations a synchronous, blocking-but-not-preemptible "peek or
// expand" API (spec §4.5/§9 design note) instead of hand-rolled
// expansion bookkeeping in every delayed FST type.
type Lazy[W weight.Semiring[W]] struct {
	store  *Store[W]
	expand ExpandFunc[W]
}

func NewLazy[W weight.Semiring[W]](limit int64, gcEnabled bool, expand ExpandFunc[W]) *Lazy[W] {
	return &Lazy[W]{store: New[W](limit, gcEnabled), expand: expand}
}

func (l *Lazy[W]) Store() *Store[W] { return l.store }

func (l *Lazy[W]) ensure(s fst.StateId) ([]fst.Arc[W], error) {
	if l.store.HasArcs(s) {
		return l.store.Arcs(s), nil
	}
	final, arcs, err := l.expand(s)
	if err != nil {
		return nil, err
	}
	l.store.SetFinal(s, final)
	for _, a := range arcs {
		if err := l.store.PushArc(s, a); err != nil {
			return nil, err
		}
	}
	l.store.SetArcs(s)
	return arcs, nil
}

func (l *Lazy[W]) Final(s fst.StateId) (W, error) {
	if _, err := l.ensure(s); err != nil {
		var zero W
		return zero, err
	}
	return l.store.Final(s), nil
}

func (l *Lazy[W]) Arcs(s fst.StateId) ([]fst.Arc[W], error) {
	arcs, err := l.ensure(s)
	if err != nil {
		return nil, err
	}
	return arcs, nil
}

func (l *Lazy[W]) NumArcs(s fst.StateId) (int, error) {
	arcs, err := l.ensure(s)
	if err != nil {
		return 0, err
	}
	return len(arcs), nil
}
