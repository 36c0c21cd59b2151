package weight

// PairWeight is the Cartesian-product semiring (W1 x W2) with
// component-wise Plus/Times. It is the basis ExpectationWeight refines
// with a different Times/One.
type PairWeight[W1 Semiring[W1], W2 Semiring[W2]] struct {
	A W1
	B W2
}

func NewPairWeight[W1 Semiring[W1], W2 Semiring[W2]](a W1, b W2) PairWeight[W1, W2] {
	return PairWeight[W1, W2]{A: a, B: b}
}

func (w PairWeight[W1, W2]) Plus(other PairWeight[W1, W2]) PairWeight[W1, W2] {
	return PairWeight[W1, W2]{A: w.A.Plus(other.A), B: w.B.Plus(other.B)}
}

func (w PairWeight[W1, W2]) Times(other PairWeight[W1, W2]) PairWeight[W1, W2] {
	return PairWeight[W1, W2]{A: w.A.Times(other.A), B: w.B.Times(other.B)}
}

func (w PairWeight[W1, W2]) Zero() PairWeight[W1, W2] {
	return PairWeight[W1, W2]{A: w.A.Zero(), B: w.B.Zero()}
}

func (w PairWeight[W1, W2]) One() PairWeight[W1, W2] {
	return PairWeight[W1, W2]{A: w.A.One(), B: w.B.One()}
}

func (w PairWeight[W1, W2]) Member() bool { return w.A.Member() && w.B.Member() }

func (w PairWeight[W1, W2]) Quantize(delta float64) PairWeight[W1, W2] {
	return PairWeight[W1, W2]{A: w.A.Quantize(delta), B: w.B.Quantize(delta)}
}

func (w PairWeight[W1, W2]) Reverse() PairWeight[W1, W2] {
	return PairWeight[W1, W2]{A: w.A.Reverse(), B: w.B.Reverse()}
}

func (w PairWeight[W1, W2]) Type() string { return w.A.Type() + "_" + w.B.Type() }

func (w PairWeight[W1, W2]) Properties() Properties {
	return w.A.Properties() & w.B.Properties()
}

func (w PairWeight[W1, W2]) ApproxEqual(other PairWeight[W1, W2], delta float64) bool {
	return w.A.ApproxEqual(other.A, delta) && w.B.ApproxEqual(other.B, delta)
}

// Divide is undefined for PairWeight in general (spec §4.1: "Divide is
// undefined [for composites] and must return NoWeight"); callers that
// need it must define it on a concrete pair of divisible semirings via a
// local wrapper. We expose no Divide method here so PairWeight never
// satisfies Divisible by accident.
