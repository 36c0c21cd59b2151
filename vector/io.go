package vector

import (
	"encoding/binary"
	"io"

	"github.com/google/renameio"
	"golang.org/x/xerrors"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/header"
	"github.com/fstkit/fst/weight"
)

// WeightCodec supplies the per-arc-type Write/Read pair a generic
// VectorFst body reader/writer needs. Go generics cannot express "call
// W's own binary method" (weight.Semiring doesn't require one), so the
// caller names the concrete codec explicitly, the same pattern
// weight.WritePair/WriteTuple use for their component weights.
type WeightCodec[W weight.Semiring[W]] struct {
	ArcType string
	Write   func(io.Writer, binary.ByteOrder, W) error
	Read    func(io.Reader, binary.ByteOrder) (W, error)
}

// byteOrder resolves Config.NativeFloatOrder to a concrete order. The
// returned order is used for every body field (symbol tables, arc counts,
// labels and float payloads alike). Both branches return little-endian,
// which coincides with native order on the little-endian platforms this
// module targets.
func byteOrder(cfg fst.Config) binary.ByteOrder {
	if cfg.NativeFloatOrder {
		return binary.LittleEndian
	}
	return binary.LittleEndian
}

// Write serializes f as a complete FST file: header, optional symbol
// tables, then the Vector body (spec §4.6).
func Write[W weight.Semiring[W]](w io.Writer, f *Fst[W], codec WeightCodec[W], cfg fst.Config) error {
	order := byteOrder(cfg)

	var flags int32
	if f.isyms != nil {
		flags |= header.FlagHasInputSymbols
	}
	if f.osyms != nil {
		flags |= header.FlagHasOutputSymbols
	}

	numArcs := int64(0)
	for s := range f.states {
		numArcs += int64(len(f.states[s].arcs))
	}

	h := &header.FstHeader{
		FstType:    "vector",
		ArcType:    codec.ArcType,
		Version:    1,
		Flags:      flags,
		Properties: uint64(f.props.Value),
		Start:      int64(f.start),
		NumStates:  int64(len(f.states)),
		NumArcs:    numArcs,
	}
	if err := h.Write(w); err != nil {
		return xerrors.Errorf("vector: writing header: %w", err)
	}

	if f.isyms != nil {
		if err := f.isyms.Write(w, order); err != nil {
			return xerrors.Errorf("vector: writing input symbols: %w", err)
		}
	}
	if f.osyms != nil {
		if err := f.osyms.Write(w, order); err != nil {
			return xerrors.Errorf("vector: writing output symbols: %w", err)
		}
	}

	for s := range f.states {
		st := &f.states[s]
		if err := codec.Write(w, order, st.final); err != nil {
			return xerrors.Errorf("vector: writing state %d final weight: %w", s, err)
		}
		if err := binary.Write(w, order, int64(len(st.arcs))); err != nil {
			return xerrors.Errorf("vector: writing state %d arc count: %w", s, err)
		}
		for _, a := range st.arcs {
			if err := binary.Write(w, order, int32(a.ILabel)); err != nil {
				return err
			}
			if err := binary.Write(w, order, int32(a.OLabel)); err != nil {
				return err
			}
			if err := codec.Write(w, order, a.Weight); err != nil {
				return xerrors.Errorf("vector: writing state %d arc weight: %w", s, err)
			}
			if err := binary.Write(w, order, int32(a.NextState)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFile serializes f to path by write-temp-then-rename, the same
// github.com/google/renameio pattern this module's teacher uses for
// every on-disk artifact it finalizes (cmd/distri's
// build/install/bump/mirror commands): a reader never observes a
// partially-written Vector FST file.
func WriteFile[W weight.Semiring[W]](path string, f *Fst[W], codec WeightCodec[W], cfg fst.Config) error {
	pf, err := renameio.TempFile("", path)
	if err != nil {
		return xerrors.Errorf("vector: creating temp file for %q: %w", path, err)
	}
	defer pf.Cleanup()
	if err := Write(pf, f, codec, cfg); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return xerrors.Errorf("vector: replacing %q: %w", path, err)
	}
	return nil
}

// Read parses a complete Vector FST file written by Write.
func Read[W weight.Semiring[W]](r io.Reader, codec WeightCodec[W], cfg fst.Config) (*Fst[W], error) {
	order := byteOrder(cfg)

	h, err := header.Read(r)
	if err != nil {
		return nil, xerrors.Errorf("vector: reading header: %w", err)
	}
	if h.FstType != "vector" {
		return nil, xerrors.Errorf("vector: fst_type %q is not vector", h.FstType)
	}
	if h.ArcType != codec.ArcType {
		return nil, xerrors.Errorf("vector: arc_type %q does not match codec %q", h.ArcType, codec.ArcType)
	}
	if h.Version != 1 {
		return nil, &fst.FormatError{Op: "vector: reading header", Err: xerrors.Errorf("unsupported version %d", h.Version)}
	}

	f := New[W]()
	f.start = fst.StateId(h.Start)

	if h.HasInputSymbols() {
		isyms, err := fst.ReadSymbolTable(r, order)
		if err != nil {
			return nil, xerrors.Errorf("vector: reading input symbols: %w", err)
		}
		f.isyms = isyms
	}
	if h.HasOutputSymbols() {
		osyms, err := fst.ReadSymbolTable(r, order)
		if err != nil {
			return nil, xerrors.Errorf("vector: reading output symbols: %w", err)
		}
		f.osyms = osyms
	}

	f.states = make([]vstate[W], h.NumStates)
	for s := int64(0); s < h.NumStates; s++ {
		final, err := codec.Read(r, order)
		if err != nil {
			return nil, xerrors.Errorf("vector: reading state %d final weight: %w", s, err)
		}
		var narcs int64
		if err := binary.Read(r, order, &narcs); err != nil {
			return nil, xerrors.Errorf("vector: reading state %d arc count: %w", s, err)
		}
		arcs := make([]fst.Arc[W], narcs)
		for i := range arcs {
			var il, ol, ns int32
			if err := binary.Read(r, order, &il); err != nil {
				return nil, err
			}
			if err := binary.Read(r, order, &ol); err != nil {
				return nil, err
			}
			w, err := codec.Read(r, order)
			if err != nil {
				return nil, xerrors.Errorf("vector: reading state %d arc weight: %w", s, err)
			}
			if err := binary.Read(r, order, &ns); err != nil {
				return nil, err
			}
			arcs[i] = fst.Arc[W]{ILabel: fst.Label(il), OLabel: fst.Label(ol), Weight: w, NextState: fst.StateId(ns)}
		}
		f.states[s] = vstate[W]{final: final, arcs: arcs}
	}
	f.props = fst.Properties{Value: fst.PropertyBit(h.Properties), Known: fst.PropertyBit(h.Properties)}
	return f, nil
}
