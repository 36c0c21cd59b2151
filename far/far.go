// Package far implements the FST archive (FAR) format (spec §4.8): a
// keyed collection of serialized FSTs in one of three container
// layouts. The archive operates on already-serialized FST byte
// payloads (as produced by vector.Write/compact.Write) rather than on a
// typed Fst[W] directly, matching the base spec's framing that "the FAR
// itself is agnostic" to weight/arc type.
//
// The container shape mirrors this module's teacher's own keyed-fetch
// abstraction (internal/repo.Reader's "fetch by key from one of several
// backing sources" contract) layered over the binary-container style of
// internal/squashfs (magic-checked header, explicit little-endian
// layout).
package far

import (
	"bufio"
	"encoding/binary"
	"io"
	"log"

	"golang.org/x/xerrors"
)

// Type selects a FAR container layout.
type Type int

const (
	// Sttable is the sorted-table, random-access container. Add
	// requires strictly increasing keys.
	Sttable Type = iota
	// Stlist is the streamable, append-any-order container with no
	// tail index.
	Stlist
	// Fst is the degenerate single-entry container: a plain FST file
	// whose key is the basename of its source.
	Fst
)

func (t Type) String() string {
	switch t {
	case Sttable:
		return "sttable"
	case Stlist:
		return "stlist"
	case Fst:
		return "fst"
	default:
		return "unknown"
	}
}

// Magic numbers (spec §4.8/§6). The Fst container has no magic of its
// own; it is a plain FST file and is distinguished from Sttable/Stlist
// by the absence of either magic.
const (
	SttableMagic int32 = 0x71a8c0e6
	StlistMagic  int32 = 0x3cb9b4b8
)

// byteOrder is little-endian throughout, per spec §6.
var byteOrder = binary.LittleEndian

// Logger returns l, or log.Default() if l is nil, mirroring
// internal/batch.Ctx's "zero Log means the package default" convention
// named in SPEC_FULL.md's ambient-stack section.
func Logger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}

// Config threads the FAR-specific behavior knobs alongside the base
// fst.Config the rest of this module uses; a nil Log uses the package
// default logger.
type Config struct {
	Log *log.Logger
}

func (c Config) logger() *log.Logger { return Logger(c.Log) }

// ErrNotFound is returned by Reader.FindFst when a key is not present in
// any opened archive (Reader.Find reports that case as a plain false). Named and shaped after internal/repo.ErrNotFound, this
// module's teacher's own "distinguish absent from broken" sentinel.
type ErrNotFound struct {
	Key string
}

func (e *ErrNotFound) Error() string { return xerrors.Errorf("far: key %q not found", e.Key).Error() }

func writeLenPrefixed(w io.Writer, b []byte) error {
	if err := binary.Write(w, byteOrder, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readLenPrefixed(r io.Reader, maxLen int32) ([]byte, error) {
	var n int32
	if err := binary.Read(r, byteOrder, &n); err != nil {
		return nil, err
	}
	if n < 0 || n > maxLen {
		return nil, xerrors.Errorf("far: implausible length-prefixed size %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

const maxRecordLen int32 = 1 << 30

// peekMagic reads the first 4 little-endian bytes from br without
// consuming them, used by Open to sniff which container a source uses.
func peekMagic(br *bufio.Reader) (int32, error) {
	head, err := br.Peek(4)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, xerrors.Errorf("far: source too short to contain a magic number: %w", err)
		}
		return 0, err
	}
	return int32(byteOrder.Uint32(head)), nil
}
