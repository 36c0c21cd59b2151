// Package properties computes the structural PropertyBit plane (spec
// §4.4) for an arbitrary FST by walking its states and arcs once.
// Cyclic detection is delegated to gonum's topological sort, mirroring
// the cycle-breaking pass in the teacher's batch scheduler; Accessible
// and Coaccessible are plain forward/backward BFS over the same graph.
package properties

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

// stateNode adapts a fst.StateId to gonum's graph.Node.
type stateNode struct {
	id fst.StateId
}

func (n stateNode) ID() int64 { return int64(n.id) }

// Accessor bundles the read-only view of an FST that TestProperties
// needs. VectorFst and CompactFst both satisfy this trivially via their
// existing Arcs/Final methods.
type Accessor[W weight.Semiring[W]] struct {
	NumStates int
	Start     fst.StateId
	Final     func(fst.StateId) W
	IsFinal   func(fst.StateId) bool
	Arcs      func(fst.StateId) []fst.Arc[W]
}

// TestProperties computes every StructuralMask bit for the FST
// described by a. Bits this function computes are always returned
// Known.
func TestProperties[W weight.Semiring[W]](a Accessor[W]) fst.Properties {
	var p fst.Properties

	nodes := make([]stateNode, a.NumStates)
	g := simple.NewDirectedGraph()
	for s := 0; s < a.NumStates; s++ {
		nodes[s] = stateNode{id: fst.StateId(s)}
		g.AddNode(nodes[s])
	}

	acceptor := true
	unweighted := true
	epsilons := false
	iepsilons := false
	oepsilons := false
	ilabelSorted := true
	olabelSorted := true
	maxOutDegree := 0
	numFinal := 0
	selfLoop := false

	var zero, one W
	zero = zero.Zero()
	one = one.One()

	for s := 0; s < a.NumStates; s++ {
		sid := fst.StateId(s)
		if a.IsFinal(sid) {
			numFinal++
			if fw := a.Final(sid); !weightEqual(fw, one) && !weightEqual(fw, zero) {
				unweighted = false
			}
		}
		arcs := a.Arcs(sid)
		if len(arcs) > maxOutDegree {
			maxOutDegree = len(arcs)
		}
		var prevI, prevO fst.Label
		for i, arc := range arcs {
			if arc.ILabel != arc.OLabel {
				acceptor = false
			}
			if arc.ILabel == fst.Epsilon {
				epsilons = true
				iepsilons = true
			}
			if arc.OLabel == fst.Epsilon {
				epsilons = true
				oepsilons = true
			}
			if !weightEqual(arc.Weight, one) {
				unweighted = false
			}
			if i > 0 {
				if arc.ILabel < prevI {
					ilabelSorted = false
				}
				if arc.OLabel < prevO {
					olabelSorted = false
				}
			}
			prevI, prevO = arc.ILabel, arc.OLabel
			if arc.NextState == sid {
				// gonum's simple graphs reject self edges; a self-loop is
				// a cycle by itself and adds nothing to reachability.
				selfLoop = true
			} else if arc.NextState != fst.NoStateId {
				g.SetEdge(g.NewEdge(nodes[s], nodes[int(arc.NextState)]))
			}
		}
	}

	isString := a.Start != fst.NoStateId && maxOutDegree <= 1 && numFinal <= 1

	cyclic := selfLoop
	if _, err := topo.Sort(g); err != nil {
		if _, ok := err.(topo.Unorderable); ok {
			cyclic = true
		}
	}

	accessible := reachable(g, nodes, a.Start, true)
	var coaccessibleSeeds []stateNode
	for s := 0; s < a.NumStates; s++ {
		if a.IsFinal(fst.StateId(s)) {
			coaccessibleSeeds = append(coaccessibleSeeds, nodes[s])
		}
	}
	coaccessible := reachableFromMany(g, nodes, coaccessibleSeeds, false)

	allAccessible := a.Start != fst.NoStateId
	allCoaccessible := true
	for s := 0; s < a.NumStates; s++ {
		if !accessible[s] {
			allAccessible = false
		}
		if !coaccessible[s] {
			allCoaccessible = false
		}
	}
	if a.NumStates == 0 {
		allAccessible = true
		allCoaccessible = true
	}

	p = p.With(fst.Acceptor, acceptor)
	p = p.With(fst.String, isString)
	p = p.With(fst.Unweighted, unweighted)
	p = p.With(fst.Weighted, !unweighted)
	p = p.With(fst.Epsilons, epsilons)
	p = p.With(fst.IEpsilons, iepsilons)
	p = p.With(fst.OEpsilons, oepsilons)
	p = p.With(fst.ILabelSorted, ilabelSorted)
	p = p.With(fst.OLabelSorted, olabelSorted)
	p = p.With(fst.Cyclic, cyclic)
	p = p.With(fst.Accessible, allAccessible)
	p = p.With(fst.Coaccessible, allCoaccessible)
	return p
}

// VerifyProperties checks a known subset of want against a freshly
// computed pass over a, returning the bits that disagree (empty means
// consistent). Bits unknown in want are not compared. It runs a full
// TestProperties pass over a each time it is called.
func VerifyProperties[W weight.Semiring[W]](a Accessor[W], want fst.Properties) fst.PropertyBit {
	got := TestProperties(a)
	var mismatch fst.PropertyBit
	for bit := fst.PropertyBit(1); bit <= fst.Coaccessible; bit <<= 1 {
		if want.IsKnown(bit) && got.IsKnown(bit) && want.Is(bit) != got.Is(bit) {
			mismatch |= bit
		}
	}
	return mismatch
}

func weightEqual[W weight.Semiring[W]](a, b W) bool {
	return a.ApproxEqual(b, 1e-6)
}

func reachable(g graph.Directed, nodes []stateNode, start fst.StateId, forward bool) []bool {
	out := make([]bool, len(nodes))
	if start == fst.NoStateId {
		return out
	}
	return bfs(g, nodes, []stateNode{{id: start}}, forward)
}

func reachableFromMany(g graph.Directed, nodes []stateNode, seeds []stateNode, forward bool) []bool {
	return bfs(g, nodes, seeds, forward)
}

func bfs(g graph.Directed, nodes []stateNode, seeds []stateNode, forward bool) []bool {
	visited := make([]bool, len(nodes))
	queue := make([]stateNode, 0, len(seeds))
	for _, s := range seeds {
		if !visited[s.id] {
			visited[s.id] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		var it graph.Nodes
		if forward {
			it = g.From(n.ID())
		} else {
			it = g.To(n.ID())
		}
		for it.Next() {
			next := it.Node().(stateNode)
			if !visited[next.id] {
				visited[next.id] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}
