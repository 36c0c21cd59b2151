package weight

// GallicMode mirrors StringMode plus an additional Min variant, used by
// the Gallic weight construction that rewrites a transducer's (ilabel,
// olabel, w) arcs as an acceptor over pairs (olabel-string, w) so that
// generic acceptor algorithms (e.g. determinization) can be applied to
// transducers.
type GallicMode int

const (
	GallicLeft GallicMode = iota
	GallicRight
	GallicRestrict
	// GallicMin behaves like GallicRestrict for Times, but Plus keeps
	// whichever operand has the lesser underlying weight (by natural
	// order), taking that operand's label string as well -- used when
	// only the shortest-path label sequence is wanted.
	GallicMin
)

func (m GallicMode) stringMode() StringMode {
	switch m {
	case GallicRight:
		return StringRight
	case GallicRestrict, GallicMin:
		return StringRestrict
	default:
		return StringLeft
	}
}

// GallicWeight(W) pairs a StringWeight label with a weight W.
type GallicWeight[W Semiring[W]] struct {
	Mode   GallicMode
	Label  StringWeight
	Weight W
}

func NewGallicWeight[W Semiring[W]](mode GallicMode, label StringWeight, w W) GallicWeight[W] {
	return GallicWeight[W]{Mode: mode, Label: label, Weight: w}
}

func (w GallicWeight[W]) Zero() GallicWeight[W] {
	return GallicWeight[W]{Mode: w.Mode, Label: NewStringWeight(w.Mode.stringMode()).Zero(), Weight: w.Weight.Zero()}
}

func (w GallicWeight[W]) One() GallicWeight[W] {
	return GallicWeight[W]{Mode: w.Mode, Label: NewStringWeight(w.Mode.stringMode()), Weight: w.Weight.One()}
}

func (w GallicWeight[W]) Plus(other GallicWeight[W]) GallicWeight[W] {
	if w.Mode == GallicMin {
		if naturalLess(w.Weight, other.Weight, DefaultDelta) {
			return w
		}
		if naturalLess(other.Weight, w.Weight, DefaultDelta) {
			return other
		}
		return GallicWeight[W]{Mode: w.Mode, Label: w.Label.Plus(other.Label), Weight: w.Weight}
	}
	return GallicWeight[W]{
		Mode:   w.Mode,
		Label:  w.Label.Plus(other.Label),
		Weight: w.Weight.Plus(other.Weight),
	}
}

func (w GallicWeight[W]) Times(other GallicWeight[W]) GallicWeight[W] {
	return GallicWeight[W]{
		Mode:   w.Mode,
		Label:  w.Label.Times(other.Label),
		Weight: w.Weight.Times(other.Weight),
	}
}

func (w GallicWeight[W]) Member() bool { return w.Label.Member() && w.Weight.Member() }

func (w GallicWeight[W]) Quantize(delta float64) GallicWeight[W] {
	return GallicWeight[W]{Mode: w.Mode, Label: w.Label.Quantize(delta), Weight: w.Weight.Quantize(delta)}
}

func (w GallicWeight[W]) Reverse() GallicWeight[W] {
	return GallicWeight[W]{Mode: w.Mode, Label: w.Label.Reverse(), Weight: w.Weight.Reverse()}
}

func (w GallicWeight[W]) Type() string { return "gallic_" + w.Weight.Type() }

func (w GallicWeight[W]) Properties() Properties {
	props := w.Weight.Properties()
	if w.Mode == GallicRestrict || w.Mode == GallicMin {
		props |= Idempotent
	}
	return props
}

func (w GallicWeight[W]) ApproxEqual(other GallicWeight[W], delta float64) bool {
	return w.Label.ApproxEqual(other.Label, delta) && w.Weight.ApproxEqual(other.Weight, delta)
}
