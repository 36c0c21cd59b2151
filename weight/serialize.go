package weight

import (
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/xerrors"
)

// Each weight type's Write/Read pair serializes only its raw payload; the
// surrounding FST header carries the arc_type string that identifies
// which pair to use (spec §4.1). Floats are written according to the
// caller-supplied byte order rather than a hardcoded one, so that
// fst.Config.NativeFloatOrder (the open question resolved in
// SPEC_FULL.md) can steer old-format compatibility without this package
// knowing about FST headers at all.

func WriteFloat64(w io.Writer, order binary.ByteOrder, v float64) error {
	var buf [8]byte
	order.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

func ReadFloat64(r io.Reader, order binary.ByteOrder) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(order.Uint64(buf[:])), nil
}

func WriteTropical(w io.Writer, order binary.ByteOrder, v TropicalWeight) error {
	return WriteFloat64(w, order, float64(v))
}

func ReadTropical(r io.Reader, order binary.ByteOrder) (TropicalWeight, error) {
	f, err := ReadFloat64(r, order)
	return TropicalWeight(f), err
}

func WriteLog(w io.Writer, order binary.ByteOrder, v LogWeight) error {
	return WriteFloat64(w, order, float64(v))
}

func ReadLog(r io.Reader, order binary.ByteOrder) (LogWeight, error) {
	f, err := ReadFloat64(r, order)
	return LogWeight(f), err
}

func WriteMinMax(w io.Writer, order binary.ByteOrder, v MinMaxWeight) error {
	return WriteFloat64(w, order, float64(v))
}

func ReadMinMax(r io.Reader, order binary.ByteOrder) (MinMaxWeight, error) {
	f, err := ReadFloat64(r, order)
	return MinMaxWeight(f), err
}

func WriteBoolean(w io.Writer, v BooleanWeight) error {
	var b [1]byte
	if v {
		b[0] = 1
	}
	_, err := w.Write(b[:])
	return err
}

func ReadBoolean(r io.Reader) (BooleanWeight, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	return BooleanWeight(b[0] != 0), nil
}

func WriteSignedLog(w io.Writer, order binary.ByteOrder, v SignedLogWeight) error {
	if err := WriteBoolean(w, BooleanWeight(v.Neg)); err != nil {
		return err
	}
	return WriteLog(w, order, v.Mag)
}

func ReadSignedLog(r io.Reader, order binary.ByteOrder) (SignedLogWeight, error) {
	neg, err := ReadBoolean(r)
	if err != nil {
		return SignedLogWeight{}, err
	}
	mag, err := ReadLog(r, order)
	if err != nil {
		return SignedLogWeight{}, err
	}
	return SignedLogWeight{Neg: bool(neg), Mag: mag}, nil
}

// WriteString writes a StringWeight as an int64 length (-1 for Zero) in
// the caller-supplied byte order, followed by that many int32 labels,
// matching the length-prefixed
// convention used throughout the FST binary format (spec §4.6).
func WriteString(w io.Writer, order binary.ByteOrder, v StringWeight) error {
	n := int64(len(v.Labels))
	if v.zeroish {
		n = -1
	}
	if err := binary.Write(w, order, n); err != nil {
		return err
	}
	for _, l := range v.Labels {
		if err := binary.Write(w, order, l); err != nil {
			return err
		}
	}
	return nil
}

func ReadString(r io.Reader, order binary.ByteOrder, mode StringMode) (StringWeight, error) {
	var n int64
	if err := binary.Read(r, order, &n); err != nil {
		return StringWeight{}, err
	}
	if n < -1 {
		return StringWeight{}, xerrors.Errorf("weight: corrupt string weight length %d", n)
	}
	if n == -1 {
		return StringWeight{Mode: mode, zeroish: true}, nil
	}
	labels := make([]int32, n)
	for i := range labels {
		if err := binary.Read(r, order, &labels[i]); err != nil {
			return StringWeight{}, err
		}
	}
	return StringWeight{Mode: mode, Labels: labels}, nil
}

// WritePair/ReadPair serialize a PairWeight given the components' own
// codecs, since Go cannot express "call W1's Write method" generically
// without every semiring also being a self-describing binary codec.
func WritePair[W1 Semiring[W1], W2 Semiring[W2]](w io.Writer, v PairWeight[W1, W2], writeA func(io.Writer, W1) error, writeB func(io.Writer, W2) error) error {
	if err := writeA(w, v.A); err != nil {
		return err
	}
	return writeB(w, v.B)
}

func ReadPair[W1 Semiring[W1], W2 Semiring[W2]](r io.Reader, readA func(io.Reader) (W1, error), readB func(io.Reader) (W2, error)) (PairWeight[W1, W2], error) {
	a, err := readA(r)
	if err != nil {
		return PairWeight[W1, W2]{}, err
	}
	b, err := readB(r)
	if err != nil {
		return PairWeight[W1, W2]{}, err
	}
	return PairWeight[W1, W2]{A: a, B: b}, nil
}

// WriteTuple/ReadTuple serialize a TupleWeight as its component count
// followed by each component via the supplied codec.
func WriteTuple[W Semiring[W]](w io.Writer, order binary.ByteOrder, v TupleWeight[W], writeOne func(io.Writer, W) error) error {
	if err := binary.Write(w, order, int64(len(v.Components))); err != nil {
		return err
	}
	for _, c := range v.Components {
		if err := writeOne(w, c); err != nil {
			return err
		}
	}
	return nil
}

func ReadTuple[W Semiring[W]](r io.Reader, order binary.ByteOrder, readOne func(io.Reader) (W, error)) (TupleWeight[W], error) {
	var n int64
	if err := binary.Read(r, order, &n); err != nil {
		return TupleWeight[W]{}, err
	}
	if n < 0 {
		return TupleWeight[W]{}, xerrors.Errorf("weight: corrupt tuple length %d", n)
	}
	out := make([]W, n)
	for i := range out {
		v, err := readOne(r)
		if err != nil {
			return TupleWeight[W]{}, err
		}
		out[i] = v
	}
	return TupleWeight[W]{Components: out}, nil
}
