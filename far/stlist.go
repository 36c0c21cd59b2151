package far

import (
	"io"

	"golang.org/x/xerrors"
)

// stlistWriter implements the STLIST container (spec §4.8): magic, then
// concatenated (key-length, key, fst-length, fst-bytes) records with no
// tail index and no ordering requirement. Needs only a plain io.Writer,
// which is what makes it writable to stdout.
type stlistWriter struct {
	w io.Writer
}

func newStlistWriter(w io.Writer) (*stlistWriter, error) {
	if _, err := w.Write(magicBytes(StlistMagic)); err != nil {
		return nil, xerrors.Errorf("far: writing stlist magic: %w", err)
	}
	return &stlistWriter{w: w}, nil
}

func (lw *stlistWriter) Add(key string, fstBytes []byte) error {
	if _, err := lw.w.Write(lenPrefixed(key)); err != nil {
		return err
	}
	if _, err := lw.w.Write(lenPrefixedBytes(fstBytes)); err != nil {
		return err
	}
	return nil
}

func (lw *stlistWriter) Close() error { return nil }

// stlistReader implements sequential-only reading: Find is a linear
// forward seek, never backwards, matching spec §4.8.
type stlistReader struct {
	r      io.Reader
	curKey string
	curFst []byte
	done   bool
}

func openStlist(r io.Reader) (*stlistReader, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, xerrors.Errorf("far: reading stlist magic: %w", err)
	}
	if int32(byteOrder.Uint32(magic[:])) != StlistMagic {
		return nil, xerrors.Errorf("far: bad stlist magic")
	}
	lr := &stlistReader{r: r}
	if err := lr.advance(); err != nil {
		return nil, err
	}
	return lr, nil
}

func (lr *stlistReader) advance() error {
	key, err := readLenPrefixed(lr.r, maxRecordLen)
	if err != nil {
		if err == io.EOF {
			lr.done = true
			lr.curKey, lr.curFst = "", nil
			return nil
		}
		return xerrors.Errorf("far: reading stlist record key: %w", err)
	}
	fstBytes, err := readLenPrefixed(lr.r, maxRecordLen)
	if err != nil {
		return xerrors.Errorf("far: reading stlist record fst: %w", err)
	}
	lr.curKey, lr.curFst, lr.done = string(key), fstBytes, false
	return nil
}

func (lr *stlistReader) Reset() error {
	return xerrors.Errorf("far: stlist does not support Reset (sequential-only container)")
}

func (lr *stlistReader) Done() bool              { return lr.done }
func (lr *stlistReader) Next() error             { return lr.advance() }
func (lr *stlistReader) GetKey() string          { return lr.curKey }
func (lr *stlistReader) GetFst() ([]byte, error) { return lr.curFst, nil }

func (lr *stlistReader) Find(key string) (bool, error) {
	for !lr.done {
		if lr.curKey == key {
			return true, nil
		}
		if err := lr.advance(); err != nil {
			return false, err
		}
	}
	return false, nil
}
