// Package header implements the FST binary file header (spec §4.6) and
// the stream-alignment helpers used by memory-mappable body sections.
// The layout mirrors how this module's teacher frames its own
// fixed-layout binary superblock (internal/squashfs's magic-checked,
// binary.Read-populated struct), generalized to FST's length-prefixed
// string fields and explicit little-endian wire format.
package header

import (
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// Magic identifies an FST file (spec §6).
const Magic int32 = 0x7eb2fdd4

// Flag bits (spec §4.6).
const (
	FlagHasInputSymbols  int32 = 1 << 0
	FlagHasOutputSymbols int32 = 1 << 1
	FlagIsAligned        int32 = 1 << 2
)

// FstHeader is the fixed prefix of every FST file.
type FstHeader struct {
	FstType    string
	ArcType    string
	Version    int32
	Flags      int32
	Properties uint64
	Start      int64
	NumStates  int64
	NumArcs    int64
}

func (h *FstHeader) HasInputSymbols() bool  { return h.Flags&FlagHasInputSymbols != 0 }
func (h *FstHeader) HasOutputSymbols() bool { return h.Flags&FlagHasOutputSymbols != 0 }
func (h *FstHeader) IsAligned() bool        { return h.Flags&FlagIsAligned != 0 }

func writeLenPrefixed(w io.Writer, order binary.ByteOrder, s string) error {
	if err := binary.Write(w, order, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readLenPrefixed(r io.Reader, order binary.ByteOrder) (string, error) {
	var n int32
	if err := binary.Read(r, order, &n); err != nil {
		return "", err
	}
	if n < 0 || n > 1<<20 {
		return "", xerrors.Errorf("header: implausible length-prefixed string length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Write serializes the header. Integers are little-endian throughout,
// per spec §4.6/§6.
func (h *FstHeader) Write(w io.Writer) error {
	order := binary.LittleEndian
	if err := binary.Write(w, order, Magic); err != nil {
		return err
	}
	if err := writeLenPrefixed(w, order, h.FstType); err != nil {
		return err
	}
	if err := writeLenPrefixed(w, order, h.ArcType); err != nil {
		return err
	}
	for _, v := range []interface{}{h.Version, h.Flags, h.Properties, h.Start, h.NumStates, h.NumArcs} {
		if err := binary.Write(w, order, v); err != nil {
			return err
		}
	}
	return nil
}

// Read parses a header and validates its magic. An unrecognized version
// is the caller's responsibility to reject (Read does not know, per
// fst_type, which versions are supported -- spec §9's open question says
// version is opaque per fst_type).
func Read(r io.Reader) (*FstHeader, error) {
	order := binary.LittleEndian
	var magic int32
	if err := binary.Read(r, order, &magic); err != nil {
		return nil, xerrors.Errorf("header: reading magic: %w", err)
	}
	if magic != Magic {
		return nil, xerrors.Errorf("header: bad magic: got %#x, want %#x", magic, Magic)
	}
	h := &FstHeader{}
	var err error
	if h.FstType, err = readLenPrefixed(r, order); err != nil {
		return nil, xerrors.Errorf("header: reading fst_type: %w", err)
	}
	if h.ArcType, err = readLenPrefixed(r, order); err != nil {
		return nil, xerrors.Errorf("header: reading arc_type: %w", err)
	}
	for _, v := range []interface{}{&h.Version, &h.Flags, &h.Properties, &h.Start, &h.NumStates, &h.NumArcs} {
		if err := binary.Read(r, order, v); err != nil {
			return nil, xerrors.Errorf("header: reading fixed fields: %w", err)
		}
	}
	return h, nil
}
