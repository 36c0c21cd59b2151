package weight

// ExpectationWeight(W1, W2) is the expectation semiring of Eisner (2002):
// pairs (p, v) where p is a probability-like weight and v an associated
// value, with
//
//	Times((p1,v1),(p2,v2)) = (p1*p2, p1*v2 + p2*v1)
//	One                    = (W1.One, W2.Zero)
//
// Plus remains component-wise, same as PairWeight. Divide is undefined.
type ExpectationWeight[W1 Semiring[W1], W2 Semiring[W2]] struct {
	P W1
	V W2
}

func NewExpectationWeight[W1 Semiring[W1], W2 Semiring[W2]](p W1, v W2) ExpectationWeight[W1, W2] {
	return ExpectationWeight[W1, W2]{P: p, V: v}
}

func (w ExpectationWeight[W1, W2]) Plus(other ExpectationWeight[W1, W2]) ExpectationWeight[W1, W2] {
	return ExpectationWeight[W1, W2]{P: w.P.Plus(other.P), V: w.V.Plus(other.V)}
}

func (w ExpectationWeight[W1, W2]) Times(other ExpectationWeight[W1, W2]) ExpectationWeight[W1, W2] {
	return ExpectationWeight[W1, W2]{
		P: w.P.Times(other.P),
		V: w.P.Times(other.V).Plus(other.P.Times(w.V)),
	}
}

func (w ExpectationWeight[W1, W2]) Zero() ExpectationWeight[W1, W2] {
	return ExpectationWeight[W1, W2]{P: w.P.Zero(), V: w.V.Zero()}
}

func (w ExpectationWeight[W1, W2]) One() ExpectationWeight[W1, W2] {
	return ExpectationWeight[W1, W2]{P: w.P.One(), V: w.V.Zero()}
}

func (w ExpectationWeight[W1, W2]) Member() bool { return w.P.Member() && w.V.Member() }

func (w ExpectationWeight[W1, W2]) Quantize(delta float64) ExpectationWeight[W1, W2] {
	return ExpectationWeight[W1, W2]{P: w.P.Quantize(delta), V: w.V.Quantize(delta)}
}

func (w ExpectationWeight[W1, W2]) Reverse() ExpectationWeight[W1, W2] {
	return ExpectationWeight[W1, W2]{P: w.P.Reverse(), V: w.V.Reverse()}
}

func (w ExpectationWeight[W1, W2]) Type() string { return "expectation_" + w.P.Type() + "_" + w.V.Type() }

func (w ExpectationWeight[W1, W2]) Properties() Properties {
	// Expectation weights are neither idempotent nor path in general,
	// even when both components are: the cross term p1*v2 + p2*v1
	// breaks both.
	return (w.P.Properties() & w.V.Properties()) &^ (Idempotent | Path)
}

func (w ExpectationWeight[W1, W2]) ApproxEqual(other ExpectationWeight[W1, W2], delta float64) bool {
	return w.P.ApproxEqual(other.P, delta) && w.V.ApproxEqual(other.V, delta)
}
