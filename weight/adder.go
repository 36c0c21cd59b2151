package weight

import "math"

// NaiveAdder accumulates a Plus-fold directly, suitable for any
// semiring. It satisfies Adder[W].
type NaiveAdder[W Semiring[W]] struct {
	sum W
}

func NewNaiveAdder[W Semiring[W]](zero W) *NaiveAdder[W] {
	return &NaiveAdder[W]{sum: zero}
}

func (a *NaiveAdder[W]) Add(w W)    { a.sum = a.sum.Plus(w) }
func (a *NaiveAdder[W]) Sum() W     { return a.sum }
func (a *NaiveAdder[W]) Reset(w W)  { a.sum = w }

// LogAdder accumulates LogWeight sums using a running log-sum-exp with a
// Kahan-style compensation term, which matters once many small
// probabilities are folded together (the naive repeated-Plus fold loses
// precision as the running sum grows relative to each new term).
type LogAdder struct {
	sum  LogWeight
	comp float64 // compensation, in the same -log space as sum
}

func NewLogAdder(zero LogWeight) *LogAdder {
	return &LogAdder{sum: zero}
}

func (a *LogAdder) Add(w LogWeight) {
	if math.IsInf(float64(a.sum), 1) {
		a.sum = w
		a.comp = 0
		return
	}
	if math.IsInf(float64(w), 1) {
		return
	}
	// sum ⊕ w = min - log1p(exp(min - max)); the compensation tracks the
	// rounding lost when that correction term is added to min.
	base, other := float64(a.sum), float64(w)
	if other < base {
		base, other = other, base
	}
	y := -math.Log1p(math.Exp(base-other)) - a.comp
	t := base + y
	a.comp = (t - base) - y
	a.sum = LogWeight(t)
}

func (a *LogAdder) Sum() LogWeight { return a.sum }

func (a *LogAdder) Reset(w LogWeight) {
	a.sum = w
	a.comp = 0
}

// PairAdder delegates component-wise to two sub-adders, per the spec's
// requirement that PairWeight's Adder be component-wise.
type PairAdder[W1 Semiring[W1], W2 Semiring[W2]] struct {
	AdderA Adder[W1]
	AdderB Adder[W2]
}

func NewPairAdder[W1 Semiring[W1], W2 Semiring[W2]](a Adder[W1], b Adder[W2]) *PairAdder[W1, W2] {
	return &PairAdder[W1, W2]{AdderA: a, AdderB: b}
}

func (a *PairAdder[W1, W2]) Add(w PairWeight[W1, W2]) {
	a.AdderA.Add(w.A)
	a.AdderB.Add(w.B)
}

func (a *PairAdder[W1, W2]) Sum() PairWeight[W1, W2] {
	return PairWeight[W1, W2]{A: a.AdderA.Sum(), B: a.AdderB.Sum()}
}

func (a *PairAdder[W1, W2]) Reset(w PairWeight[W1, W2]) {
	a.AdderA.Reset(w.A)
	a.AdderB.Reset(w.B)
}
