package compact

import (
	"encoding/binary"
	"io"

	"github.com/google/renameio"
	"golang.org/x/xerrors"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/header"
	"github.com/fstkit/fst/weight"
)

// countingWriter tracks exact stream position so alignment padding
// (spec §4.6) can be computed without assuming anything about the
// header's own length-prefixed string sizes.
type countingWriter struct {
	w   io.Writer
	pos int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.pos += int64(n)
	return n, err
}

type countingReader struct {
	r   io.Reader
	pos int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.pos += int64(n)
	return n, err
}

// Write serializes f as a complete FST file: header, optional symbol
// tables, compactor parameters, then the Compact body (states array
// when variable, then the compacts array), each aligned per spec §4.6
// when align > 1.
func Write[W weight.Semiring[W], E any](w io.Writer, f *Fst[W, E], codec ElementCodec[E], align int64, cfg fst.Config) error {
	order := byteOrder(cfg)
	cw := &countingWriter{w: w}

	var flags int32
	if f.isyms != nil {
		flags |= header.FlagHasInputSymbols
	}
	if f.osyms != nil {
		flags |= header.FlagHasOutputSymbols
	}
	if align > 1 {
		flags |= header.FlagIsAligned
	}

	h := &header.FstHeader{
		FstType:    f.Type(),
		ArcType:    "standard",
		Version:    1,
		Flags:      flags,
		Properties: uint64(f.props.Value),
		Start:      int64(f.start),
		NumStates:  int64(f.numStates),
		NumArcs:    int64(len(f.store.compacts)),
	}
	if err := h.Write(cw); err != nil {
		return xerrors.Errorf("compact: writing header: %w", err)
	}

	if f.isyms != nil {
		if err := f.isyms.Write(cw, order); err != nil {
			return xerrors.Errorf("compact: writing input symbols: %w", err)
		}
	}
	if f.osyms != nil {
		if err := f.osyms.Write(cw, order); err != nil {
			return xerrors.Errorf("compact: writing output symbols: %w", err)
		}
	}

	if err := f.compactor.WriteParams(cw); err != nil {
		return xerrors.Errorf("compact: writing compactor params: %w", err)
	}

	if err := binary.Write(cw, order, int32(f.store.fixedK)); err != nil {
		return err
	}

	if f.store.fixedK <= 0 {
		if align > 1 {
			if _, err := header.PadToAlignment(cw, cw.pos, align); err != nil {
				return err
			}
		}
		for _, v := range f.store.states {
			if err := binary.Write(cw, order, v); err != nil {
				return err
			}
		}
	}

	if align > 1 {
		if _, err := header.PadToAlignment(cw, cw.pos, align); err != nil {
			return err
		}
	}
	for _, e := range f.store.compacts {
		if err := codec.Write(cw, order, e); err != nil {
			return xerrors.Errorf("compact: writing element: %w", err)
		}
	}
	return nil
}

// WriteFile serializes f to path by write-temp-then-rename, the same
// github.com/google/renameio pattern this module's teacher uses for
// every on-disk artifact it finalizes (cmd/distri's
// build/install/bump/mirror commands): a reader never observes a
// partially-written Compact FST file.
func WriteFile[W weight.Semiring[W], E any](path string, f *Fst[W, E], codec ElementCodec[E], align int64, cfg fst.Config) error {
	pf, err := renameio.TempFile("", path)
	if err != nil {
		return xerrors.Errorf("compact: creating temp file for %q: %w", path, err)
	}
	defer pf.Cleanup()
	if err := Write(pf, f, codec, align, cfg); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return xerrors.Errorf("compact: replacing %q: %w", path, err)
	}
	return nil
}

// Read parses a Compact FST file written by Write, using compactor and
// codec to interpret fst_type-specific parameters and elements.
func Read[W weight.Semiring[W], E any](r io.Reader, compactor Compactor[E, W], codec ElementCodec[E], align int64, cfg fst.Config) (*Fst[W, E], error) {
	order := byteOrder(cfg)
	cr := &countingReader{r: r}

	h, err := header.Read(cr)
	if err != nil {
		return nil, xerrors.Errorf("compact: reading header: %w", err)
	}
	if h.FstType != "compact_"+compactor.Type() {
		return nil, xerrors.Errorf("compact: fst_type %q does not match compactor %q", h.FstType, compactor.Type())
	}
	if h.Version != 1 {
		return nil, &fst.FormatError{Op: "compact: reading header", Err: xerrors.Errorf("unsupported version %d", h.Version)}
	}

	var isyms, osyms *fst.SymbolTable
	if h.HasInputSymbols() {
		isyms, err = fst.ReadSymbolTable(cr, order)
		if err != nil {
			return nil, xerrors.Errorf("compact: reading input symbols: %w", err)
		}
	}
	if h.HasOutputSymbols() {
		osyms, err = fst.ReadSymbolTable(cr, order)
		if err != nil {
			return nil, xerrors.Errorf("compact: reading output symbols: %w", err)
		}
	}

	if err := compactor.ReadParams(cr); err != nil {
		return nil, xerrors.Errorf("compact: reading compactor params: %w", err)
	}

	var fixedK int32
	if err := binary.Read(cr, order, &fixedK); err != nil {
		return nil, xerrors.Errorf("compact: reading fixed-k marker: %w", err)
	}

	var store *Store[E]
	if fixedK <= 0 {
		if h.IsAligned() && align > 1 {
			if _, err := header.ConsumeAlignment(cr, cr.pos, align); err != nil {
				return nil, err
			}
		}
		states := make([]int32, h.NumStates+1)
		for i := range states {
			if err := binary.Read(cr, order, &states[i]); err != nil {
				return nil, xerrors.Errorf("compact: reading states array: %w", err)
			}
		}
		if h.IsAligned() && align > 1 {
			if _, err := header.ConsumeAlignment(cr, cr.pos, align); err != nil {
				return nil, err
			}
		}
		n := int(states[len(states)-1])
		compacts := make([]E, n)
		for i := range compacts {
			e, err := codec.Read(cr, order)
			if err != nil {
				return nil, xerrors.Errorf("compact: reading element %d: %w", i, err)
			}
			compacts[i] = e
		}
		store = NewVariable(states, compacts)
	} else {
		if h.IsAligned() && align > 1 {
			if _, err := header.ConsumeAlignment(cr, cr.pos, align); err != nil {
				return nil, err
			}
		}
		n := int(h.NumArcs)
		compacts := make([]E, n)
		for i := range compacts {
			e, err := codec.Read(cr, order)
			if err != nil {
				return nil, xerrors.Errorf("compact: reading element %d: %w", i, err)
			}
			compacts[i] = e
		}
		store = NewFixed(int(fixedK), compacts)
	}

	f := New[W, E](compactor, store, int(h.NumStates), fst.StateId(h.Start), fst.Properties{Value: fst.PropertyBit(h.Properties), Known: fst.PropertyBit(h.Properties)})
	f.isyms = isyms
	f.osyms = osyms
	return f, nil
}

func byteOrder(cfg fst.Config) binary.ByteOrder {
	if cfg.NativeFloatOrder {
		return binary.LittleEndian
	}
	return binary.LittleEndian
}
