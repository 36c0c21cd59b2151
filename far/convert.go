package far

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/vector"
	"github.com/fstkit/fst/weight"
)

// EntryType selects how a text source is split into one string per FST
// (spec §4.8: "one input line = one string FST" vs "whole file = one
// string FST"). This governs only the text<->string-FST conversion
// convention; the archive itself is agnostic to it.
type EntryType int

const (
	Line EntryType = iota
	File
)

// ParseEntryType maps a --entry_type flag value to an EntryType.
func ParseEntryType(s string) (EntryType, error) {
	switch s {
	case "line", "":
		return Line, nil
	case "file":
		return File, nil
	default:
		return 0, xerrors.Errorf("far: unknown --entry_type %q", s)
	}
}

// TokenType selects how a string is split into arc labels.
type TokenType int

const (
	Byte TokenType = iota
	UTF8
	Symbol
)

// ParseTokenType maps a --token_type flag value to a TokenType.
func ParseTokenType(s string) (TokenType, error) {
	switch s {
	case "byte", "":
		return Byte, nil
	case "utf8":
		return UTF8, nil
	case "symbol":
		return Symbol, nil
	default:
		return 0, xerrors.Errorf("far: unknown --token_type %q", s)
	}
}

// tokenize splits s into arc labels per tt. Symbol tokenization splits
// on whitespace and requires every token already be present in syms (a
// missing symbol is a hard error, not an implicit insertion -- the
// symbol table is assumed built ahead of time, the same discipline
// textual symbol-table I/O uses elsewhere in this spec).
func tokenize(s string, tt TokenType, syms *fst.SymbolTable) ([]fst.Label, error) {
	switch tt {
	case Byte:
		labels := make([]fst.Label, len(s))
		for i := 0; i < len(s); i++ {
			labels[i] = fst.Label(s[i])
		}
		return labels, nil
	case UTF8:
		var labels []fst.Label
		for _, r := range s {
			labels = append(labels, fst.Label(r))
		}
		return labels, nil
	case Symbol:
		if syms == nil {
			return nil, xerrors.Errorf("far: symbol token type requires a symbol table")
		}
		var labels []fst.Label
		for _, tok := range strings.Fields(s) {
			id, ok := syms.Find(tok)
			if !ok {
				return nil, xerrors.Errorf("far: symbol %q not found in table %q", tok, syms.Name())
			}
			labels = append(labels, id)
		}
		return labels, nil
	default:
		return nil, xerrors.Errorf("far: unknown token type %d", tt)
	}
}

// StringToFst builds the linear-chain acceptor for s: a single-state
// FST with start=0, Final(0)=One when s tokenizes to no labels (spec
// §4.3's empty-string case), or otherwise a chain of len(tokens)+1
// states joined by unit-weight arcs with a final One at the last state.
func StringToFst[W weight.Semiring[W]](s string, tt TokenType, syms *fst.SymbolTable) (*vector.Fst[W], error) {
	labels, err := tokenize(s, tt, syms)
	if err != nil {
		return nil, err
	}
	f := vector.New[W]()
	var one W
	one = one.One()
	cur := f.AddState()
	f.SetStart(cur)
	for _, lbl := range labels {
		next := f.AddState()
		f.AddArc(cur, fst.Arc[W]{ILabel: lbl, OLabel: lbl, Weight: one, NextState: next})
		cur = next
	}
	f.SetFinal(cur, one)
	return f, nil
}

// entry is one (key, string) pair produced by splitting a text source
// per EntryType.
type entry struct {
	key  string
	text string
}

// splitEntries reads every source according to entryType, yielding one
// entry per line (key = zero-padded line number, counted from 0 within
// each source, without the source's name) or one entry per whole file
// (key = basename), matching spec §4.8.
func splitEntries(sources []string, entryType EntryType) ([]entry, error) {
	var entries []entry
	for _, src := range sources {
		f, err := os.Open(src)
		if err != nil {
			return nil, xerrors.Errorf("far: opening %q: %w", src, err)
		}
		switch entryType {
		case Line:
			sc := bufio.NewScanner(f)
			sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
			n := 0
			for sc.Scan() {
				entries = append(entries, entry{key: fmt.Sprintf("%08d", n), text: sc.Text()})
				n++
			}
			if err := sc.Err(); err != nil {
				f.Close()
				return nil, xerrors.Errorf("far: scanning %q: %w", src, err)
			}
		case File:
			data, err := io.ReadAll(f)
			if err != nil {
				f.Close()
				return nil, xerrors.Errorf("far: reading %q: %w", src, err)
			}
			entries = append(entries, entry{key: filepath.Base(src), text: string(data)})
		default:
			f.Close()
			return nil, xerrors.Errorf("far: unknown entry type %d", entryType)
		}
		f.Close()
	}
	return entries, nil
}

// WriteEntries converts every line (or file, per entryType) of sources
// into a string FST (per tokenType) and adds each to w under its
// derived key, serializing with codec. This is the library-level form
// of the conversion an external farcompilestrings-style CLI tool would
// otherwise gate-keep: the base spec names the conversion as something
// "external tools consume", but the conversion functions themselves
// produce ordinary FSTs, so they belong here for any caller.
func WriteEntries[W weight.Semiring[W]](w *Writer, entryType EntryType, tokenType TokenType, sources []string, syms *fst.SymbolTable, codec vector.WeightCodec[W], cfg fst.Config) error {
	entries, err := splitEntries(sources, entryType)
	if err != nil {
		return err
	}
	for _, e := range entries {
		vf, err := StringToFst[W](e.text, tokenType, syms)
		if err != nil {
			return xerrors.Errorf("far: converting entry %q: %w", e.key, err)
		}
		var buf bytes.Buffer
		if err := vector.Write(&buf, vf, codec, cfg); err != nil {
			return xerrors.Errorf("far: serializing entry %q: %w", e.key, err)
		}
		if err := w.Add(e.key, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
