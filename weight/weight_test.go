package weight

import (
	"math"
	"testing"
)

func TestTropicalSemiringLaws(t *testing.T) {
	a, b, c := TropicalWeight(2), TropicalWeight(3), TropicalWeight(5)
	zero, one := a.Zero(), a.One()

	if got := a.Plus(zero); got != a {
		t.Errorf("Plus(a, Zero) = %v, want %v", got, a)
	}
	if got := a.Times(one); got != a {
		t.Errorf("Times(a, One) = %v, want %v", got, a)
	}
	if got := a.Times(zero); got != zero {
		t.Errorf("Times(a, Zero) = %v, want %v", got, zero)
	}
	if got, want := a.Plus(b).Plus(c), a.Plus(b.Plus(c)); got != want {
		t.Errorf("Plus not associative: %v != %v", got, want)
	}
	if got, want := a.Times(b).Times(c), a.Times(b.Times(c)); got != want {
		t.Errorf("Times not associative: %v != %v", got, want)
	}
	if got, want := a.Times(b), b.Times(a); got != want {
		t.Errorf("Commutative claimed but Times(a,b) != Times(b,a): %v != %v", got, want)
	}
	if got := a.Plus(a); got != a {
		t.Errorf("Idempotent claimed but Plus(a,a) != a: %v", got)
	}
}

func TestLogSemiringLaws(t *testing.T) {
	a, b := LogWeight(1.5), LogWeight(0.25)
	zero, one := a.Zero(), a.One()
	if got := a.Plus(zero); !got.ApproxEqual(a, DefaultDelta) {
		t.Errorf("Plus(a, Zero) = %v, want %v", got, a)
	}
	if got := a.Times(one); got != a {
		t.Errorf("Times(a, One) = %v, want %v", got, a)
	}
	if got, want := a.Times(b), b.Times(a); got != want {
		t.Errorf("log semiring should be commutative: %v != %v", got, want)
	}
}

func TestExpectationWeightProduct(t *testing.T) {
	// Scenario from spec §8 item 4: Times((p1,v1),(p2,v2)) with both p and
	// v in the log semiring (⊗ = +, ⊕ = log-add), giving
	// (p1 ⊗ p2, p1 ⊗ v2 ⊕ p2 ⊗ v1), i.e. (p1·p2, p1·v2 + p2·v1) in linear
	// probability terms.
	p1, v1 := LogWeight(2), LogWeight(3)
	p2, v2 := LogWeight(5), LogWeight(7)

	w1 := NewExpectationWeight[LogWeight, LogWeight](p1, v1)
	w2 := NewExpectationWeight[LogWeight, LogWeight](p2, v2)

	got := w1.Times(w2)
	wantP := p1.Times(p2)
	wantV := p1.Times(v2).Plus(p2.Times(v1))

	if got.P != wantP {
		t.Errorf("P = %v, want %v", got.P, wantP)
	}
	if got.V != wantV {
		t.Errorf("V = %v, want %v", got.V, wantV)
	}

	one := w1.One()
	if one.P != p1.One() {
		t.Errorf("One().P = %v, want %v", one.P, p1.One())
	}
	if one.V != v1.Zero() {
		t.Errorf("One().V = %v, want %v", one.V, v1.Zero())
	}
}

func TestPairWeightComponentWise(t *testing.T) {
	a := NewPairWeight[TropicalWeight, BooleanWeight](2, true)
	b := NewPairWeight[TropicalWeight, BooleanWeight](3, false)

	sum := a.Plus(b)
	if sum.A != TropicalWeight(2) || sum.B != true {
		t.Errorf("Plus = %+v, want A=2 B=true", sum)
	}
	prod := a.Times(b)
	if prod.A != TropicalWeight(5) || prod.B != false {
		t.Errorf("Times = %+v, want A=5 B=false", prod)
	}
}

func TestStringWeightModes(t *testing.T) {
	left := NewStringWeight(StringLeft, 1, 2, 3)
	left2 := NewStringWeight(StringLeft, 1, 2, 9)
	if got := left.Plus(left2); !equalLabels(got.Labels, []int32{1, 2}) {
		t.Errorf("left Plus = %v, want [1 2]", got.Labels)
	}

	right := NewStringWeight(StringRight, 9, 2, 3)
	right2 := NewStringWeight(StringRight, 1, 2, 3)
	if got := right.Plus(right2); !equalLabels(got.Labels, []int32{2, 3}) {
		t.Errorf("right Plus = %v, want [2 3]", got.Labels)
	}

	restrict := NewStringWeight(StringRestrict, 1, 2)
	restrict2 := NewStringWeight(StringRestrict, 1, 3)
	if got := restrict.Plus(restrict2); got.Member() {
		t.Errorf("restricted Plus of unequal strings should not be a Member")
	}

	cat := left.Times(NewStringWeight(StringLeft, 4, 5))
	if !equalLabels(cat.Labels, []int32{1, 2, 3, 4, 5}) {
		t.Errorf("Times concatenation = %v", cat.Labels)
	}
}

func TestTupleWeightIsPowerWeight(t *testing.T) {
	pw := NewPowerWeight[TropicalWeight](3, 1)
	pw2 := NewPowerWeight[TropicalWeight](3, 2)
	sum := pw.Plus(pw2)
	for _, c := range sum.Components {
		if c != 1 {
			t.Errorf("component = %v, want 1 (min)", c)
		}
	}
}

func TestLogAdderMatchesNaiveWithinDelta(t *testing.T) {
	terms := []LogWeight{1, 2, 3, 0.5, 4.25}
	naive := NewNaiveAdder[LogWeight](LogWeight(math.Inf(1)))
	kahan := NewLogAdder(LogWeight(math.Inf(1)))
	for _, term := range terms {
		naive.Add(term)
		kahan.Add(term)
	}
	if !naive.Sum().ApproxEqual(kahan.Sum(), 1e-9) {
		t.Errorf("naive sum %v vs kahan sum %v diverge", naive.Sum(), kahan.Sum())
	}
}

func TestCompositeWeightTextRoundTrip(t *testing.T) {
	w, err := NewCompositeWeightWriter(',', "()")
	if err != nil {
		t.Fatal(err)
	}
	w.WriteBegin()
	w.WriteElement("1.5")
	w.WriteElement("2.5")
	w.WriteEnd()
	text := w.String()
	if text != "(1.5,2.5)" {
		t.Fatalf("got %q, want (1.5,2.5)", text)
	}

	r, err := NewCompositeWeightReader(text, ',', "()")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.ReadBegin(); err != nil {
		t.Fatal(err)
	}
	first, err := r.ReadElement()
	if err != nil {
		t.Fatal(err)
	}
	if first != "1.5" {
		t.Fatalf("first = %q, want 1.5", first)
	}
	second, err := r.ReadElement()
	if err != nil {
		t.Fatal(err)
	}
	if second != "2.5" {
		t.Fatalf("second = %q, want 2.5", second)
	}
	if err := r.ReadEnd(); err != nil {
		t.Fatal(err)
	}
}
