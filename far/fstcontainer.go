package far

import (
	"io"
	"io/ioutil"
	"path/filepath"

	"golang.org/x/xerrors"
)

// fstWriter implements the degenerate Fst container: exactly one FST,
// written as a plain FST file with no FAR wrapper at all (spec §4.8).
// The key passed to Add is ignored on the wire (a plain FST file has no
// room for one); Reader derives it back from the source's basename.
type fstWriter struct {
	w     io.Writer
	added bool
}

func newFstWriter(w io.Writer) (*fstWriter, error) {
	return &fstWriter{w: w}, nil
}

func (fw *fstWriter) Add(key string, fstBytes []byte) error {
	if fw.added {
		return xerrors.Errorf("far: fst container holds exactly one entry; Add called a second time")
	}
	if _, err := fw.w.Write(fstBytes); err != nil {
		return err
	}
	fw.added = true
	return nil
}

func (fw *fstWriter) Close() error { return nil }

// fstReader wraps a single whole-file FST payload under a key derived
// from the source path's basename.
type fstReader struct {
	key  string
	data []byte
	done bool
}

func openFstContainer(r io.Reader, sourceName string) (*fstReader, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("far: reading fst container: %w", err)
	}
	return &fstReader{key: filepath.Base(sourceName), data: data}, nil
}

func (fr *fstReader) Reset() error { fr.done = false; return nil }
func (fr *fstReader) Done() bool   { return fr.done }
func (fr *fstReader) Next() error  { fr.done = true; return nil }
func (fr *fstReader) GetKey() string {
	if fr.done {
		return ""
	}
	return fr.key
}
func (fr *fstReader) GetFst() ([]byte, error) {
	if fr.done {
		return nil, xerrors.Errorf("far: no current entry")
	}
	return fr.data, nil
}

func (fr *fstReader) Find(key string) (bool, error) {
	if !fr.done && fr.key == key {
		return true, nil
	}
	return false, nil
}
