package header

import (
	"io"

	"golang.org/x/xerrors"
)

// PadToAlignment writes NUL bytes so that, assuming w's next write lands
// at offset pos, the stream is positioned at a multiple of alignment
// before the aligned section begins. It returns the number of bytes
// written.
func PadToAlignment(w io.Writer, pos int64, alignment int64) (int64, error) {
	if alignment <= 1 {
		return 0, nil
	}
	pad := (alignment - pos%alignment) % alignment
	if pad == 0 {
		return 0, nil
	}
	if _, err := w.Write(make([]byte, pad)); err != nil {
		return 0, err
	}
	return pad, nil
}

// ConsumeAlignment discards the NUL padding a writer using PadToAlignment
// would have inserted, given the reader's current position.
func ConsumeAlignment(r io.Reader, pos int64, alignment int64) (int64, error) {
	if alignment <= 1 {
		return 0, nil
	}
	pad := (alignment - pos%alignment) % alignment
	if pad == 0 {
		return 0, nil
	}
	n, err := io.CopyN(io.Discard, r, pad)
	if err != nil {
		return n, xerrors.Errorf("header: consuming alignment padding: %w", err)
	}
	return n, nil
}

// AlignedOffset rounds pos up to the next multiple of alignment.
func AlignedOffset(pos, alignment int64) int64 {
	if alignment <= 1 {
		return pos
	}
	return pos + (alignment-pos%alignment)%alignment
}
