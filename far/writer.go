package far

import (
	"io"
	"log"

	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

// containerWriter is the per-container-type implementation Writer
// dispatches to.
type containerWriter interface {
	Add(key string, fstBytes []byte) error
	Close() error
}

// Writer appends keyed, pre-serialized FST payloads to one of the three
// FAR container layouts (spec §4.8). Construct with Create or
// CreateFile.
type Writer struct {
	typ      Type
	impl     containerWriter
	pending  *renameio.PendingFile // non-nil only when created via CreateFile
	destPath string
	log      *log.Logger
}

// Create opens a new archive of the given type writing to w. w need
// not be seekable: Sttable buffers its tail index separately (see
// sttableWriter) and flushes it sequentially at Close.
func Create(w io.Writer, typ Type, cfg Config) (*Writer, error) {
	var impl containerWriter
	var err error
	switch typ {
	case Sttable:
		impl, err = newSttableWriter(w)
	case Stlist:
		impl, err = newStlistWriter(w)
	case Fst:
		impl, err = newFstWriter(w)
	default:
		return nil, xerrors.Errorf("far: unknown container type %v", typ)
	}
	if err != nil {
		return nil, err
	}
	return &Writer{typ: typ, impl: impl, log: cfg.logger()}, nil
}

// CreateFile opens path for atomic replacement (write-temp-then-rename,
// the same github.com/google/renameio pattern this module's teacher
// uses for every on-disk artifact it finalizes -- cmd/distri's
// build/install/bump/mirror commands) and wraps it in a Writer. Close
// both finalizes the container body and performs the atomic rename.
func CreateFile(path string, typ Type, cfg Config) (*Writer, error) {
	pf, err := renameio.TempFile("", path)
	if err != nil {
		return nil, xerrors.Errorf("far: creating temp file for %q: %w", path, err)
	}
	w, err := Create(pf, typ, cfg)
	if err != nil {
		pf.Cleanup()
		return nil, err
	}
	w.pending = pf
	w.destPath = path
	return w, nil
}

// Type reports which container this writer is producing.
func (w *Writer) Type() Type { return w.typ }

// Add appends key -> fstBytes. For Sttable, key must be strictly
// greater than the previously added key or Add returns an error
// (spec §4.8, §8 scenario 3); Stlist and Fst accept any key.
func (w *Writer) Add(key string, fstBytes []byte) error {
	if err := w.impl.Add(key, fstBytes); err != nil {
		return xerrors.Errorf("far: %s: adding key %q: %w", w.typ, key, err)
	}
	return nil
}

// Close finalizes the container (writing the Sttable tail index, if
// applicable) and, for a CreateFile-backed Writer, atomically replaces
// the destination file.
func (w *Writer) Close() error {
	if err := w.impl.Close(); err != nil {
		if w.pending != nil {
			w.pending.Cleanup()
		}
		return xerrors.Errorf("far: closing %s container: %w", w.typ, err)
	}
	if w.pending != nil {
		if err := w.pending.CloseAtomicallyReplace(); err != nil {
			return xerrors.Errorf("far: replacing %q: %w", w.destPath, err)
		}
		w.log.Printf("far: wrote %s archive %q", w.typ, w.destPath)
	}
	return nil
}

// ParseType maps a --far_type flag value (fst, stlist, sttable) to a
// Type, per spec §6's CLI surface. "default" resolves to Sttable, the
// teacher's own convention of defaulting to the random-access container.
func ParseType(s string) (Type, error) {
	switch s {
	case "sttable", "default", "":
		return Sttable, nil
	case "stlist":
		return Stlist, nil
	case "fst":
		return Fst, nil
	default:
		return 0, xerrors.Errorf("far: unknown --far_type %q", s)
	}
}
