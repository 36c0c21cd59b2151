package compact

import (
	"encoding/binary"
	"io"

	"github.com/fstkit/fst/weight"
)

// ElementCodec (de)serializes one Element at a time, the same
// caller-supplied-codec pattern weight.WritePair/vector.WeightCodec
// use to sidestep Go generics' inability to require "E has its own
// Write/Read method".
type ElementCodec[E any] struct {
	Write func(io.Writer, binary.ByteOrder, E) error
	Read  func(io.Reader, binary.ByteOrder) (E, error)
}

func writeLabel(w io.Writer, order binary.ByteOrder, l int32) error {
	return binary.Write(w, order, l)
}

func readLabel(r io.Reader, order binary.ByteOrder) (int32, error) {
	var l int32
	err := binary.Read(r, order, &l)
	return l, err
}

// StringElementCodec is parameterless since StringElement carries only
// a label.
func StringElementCodec() ElementCodec[StringElement] {
	return ElementCodec[StringElement]{
		Write: func(w io.Writer, order binary.ByteOrder, e StringElement) error {
			return writeLabel(w, order, e.Label)
		},
		Read: func(r io.Reader, order binary.ByteOrder) (StringElement, error) {
			l, err := readLabel(r, order)
			return StringElement{Label: l}, err
		},
	}
}

// WeightedStringElementCodec needs the weight type's own float codec
// (e.g. weight.WriteTropical) since the Element embeds a W.
func WeightedStringElementCodec[W weight.Semiring[W]](writeW func(io.Writer, binary.ByteOrder, W) error, readW func(io.Reader, binary.ByteOrder) (W, error)) ElementCodec[WeightedStringElement[W]] {
	return ElementCodec[WeightedStringElement[W]]{
		Write: func(w io.Writer, order binary.ByteOrder, e WeightedStringElement[W]) error {
			if err := writeLabel(w, order, e.Label); err != nil {
				return err
			}
			return writeW(w, order, e.Weight)
		},
		Read: func(r io.Reader, order binary.ByteOrder) (WeightedStringElement[W], error) {
			l, err := readLabel(r, order)
			if err != nil {
				return WeightedStringElement[W]{}, err
			}
			wv, err := readW(r, order)
			return WeightedStringElement[W]{Label: l, Weight: wv}, err
		},
	}
}

func UnweightedAcceptorElementCodec() ElementCodec[UnweightedAcceptorElement] {
	return ElementCodec[UnweightedAcceptorElement]{
		Write: func(w io.Writer, order binary.ByteOrder, e UnweightedAcceptorElement) error {
			if err := writeLabel(w, order, e.Label); err != nil {
				return err
			}
			return writeLabel(w, order, e.NextState)
		},
		Read: func(r io.Reader, order binary.ByteOrder) (UnweightedAcceptorElement, error) {
			l, err := readLabel(r, order)
			if err != nil {
				return UnweightedAcceptorElement{}, err
			}
			ns, err := readLabel(r, order)
			return UnweightedAcceptorElement{Label: l, NextState: ns}, err
		},
	}
}

func AcceptorElementCodec[W weight.Semiring[W]](writeW func(io.Writer, binary.ByteOrder, W) error, readW func(io.Reader, binary.ByteOrder) (W, error)) ElementCodec[AcceptorElement[W]] {
	return ElementCodec[AcceptorElement[W]]{
		Write: func(w io.Writer, order binary.ByteOrder, e AcceptorElement[W]) error {
			if err := writeLabel(w, order, e.Label); err != nil {
				return err
			}
			if err := writeW(w, order, e.Weight); err != nil {
				return err
			}
			return writeLabel(w, order, e.NextState)
		},
		Read: func(r io.Reader, order binary.ByteOrder) (AcceptorElement[W], error) {
			l, err := readLabel(r, order)
			if err != nil {
				return AcceptorElement[W]{}, err
			}
			wv, err := readW(r, order)
			if err != nil {
				return AcceptorElement[W]{}, err
			}
			ns, err := readLabel(r, order)
			return AcceptorElement[W]{Label: l, Weight: wv, NextState: ns}, err
		},
	}
}

func UnweightedElementCodec() ElementCodec[UnweightedElement] {
	return ElementCodec[UnweightedElement]{
		Write: func(w io.Writer, order binary.ByteOrder, e UnweightedElement) error {
			if err := writeLabel(w, order, e.ILabel); err != nil {
				return err
			}
			if err := writeLabel(w, order, e.OLabel); err != nil {
				return err
			}
			return writeLabel(w, order, e.NextState)
		},
		Read: func(r io.Reader, order binary.ByteOrder) (UnweightedElement, error) {
			il, err := readLabel(r, order)
			if err != nil {
				return UnweightedElement{}, err
			}
			ol, err := readLabel(r, order)
			if err != nil {
				return UnweightedElement{}, err
			}
			ns, err := readLabel(r, order)
			return UnweightedElement{ILabel: il, OLabel: ol, NextState: ns}, err
		},
	}
}
