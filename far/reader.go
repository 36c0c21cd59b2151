package far

import (
	"bufio"
	"io"
	"log"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// containerReader is the per-container-type implementation Reader
// dispatches to. A reader starts positioned at its first entry (if
// any); Done reports whether a current entry exists.
type containerReader interface {
	Reset() error
	Done() bool
	Next() error
	GetKey() string
	GetFst() ([]byte, error)
	Find(key string) (bool, error)
}

// Reader iterates, or randomly accesses by key, the logical
// concatenation of one or more FAR sources (spec §4.8: "Open(sources)
// opens one or a concatenation of FARs... iteration visits each archive
// in turn; Find tries each archive's Find").
type Reader struct {
	archives []containerReader
	closers  []io.Closer
	idx      int
	log      *log.Logger
}

// detectType peeks a source's magic to classify its container. A
// source with neither the Sttable nor Stlist magic is assumed to be a
// plain Fst container.
func detectType(br *bufio.Reader) (Type, error) {
	magic, err := peekMagic(br)
	if err != nil {
		// Too short for even a 4-byte magic: still could be an empty
		// Fst container edge case, but that has no entries either way.
		return Fst, nil
	}
	switch magic {
	case SttableMagic:
		return Sttable, nil
	case StlistMagic:
		return Stlist, nil
	default:
		return Fst, nil
	}
}

// openOne opens a single source path and returns its containerReader
// plus the underlying closer.
func openOne(path string) (containerReader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, xerrors.Errorf("far: opening %q: %w", path, err)
	}
	br := bufio.NewReader(f)
	typ, err := detectType(br)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	switch typ {
	case Sttable:
		// Random access needs direct Seek on the file, not the
		// buffered wrapper used only to peek the magic.
		cr, err := openSttable(f)
		if err != nil {
			f.Close()
			return nil, nil, xerrors.Errorf("far: opening sttable %q: %w", path, err)
		}
		return cr, f, nil
	case Stlist:
		cr, err := openStlist(br)
		if err != nil {
			f.Close()
			return nil, nil, xerrors.Errorf("far: opening stlist %q: %w", path, err)
		}
		return cr, f, nil
	default:
		cr, err := openFstContainer(br, path)
		if err != nil {
			f.Close()
			return nil, nil, xerrors.Errorf("far: opening fst container %q: %w", path, err)
		}
		return cr, f, nil
	}
}

// Open opens one or more FAR sources and merges them into a single
// logical iteration, visiting each archive's entries in turn in the
// order sources are given. Sources are opened concurrently via
// errgroup (this module's teacher threads its own batch-build fan-out
// through errgroup.WithContext the same way) -- still single-threaded
// per resulting Reader, per spec §5's concurrency model.
func Open(sources []string, cfg Config) (*Reader, error) {
	if len(sources) == 0 {
		return nil, xerrors.Errorf("far: Open requires at least one source")
	}
	archives := make([]containerReader, len(sources))
	closers := make([]io.Closer, len(sources))

	var eg errgroup.Group
	for i, src := range sources {
		i, src := i, src
		eg.Go(func() error {
			cr, closer, err := openOne(src)
			if err != nil {
				return err
			}
			archives[i] = cr
			closers[i] = closer
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, c := range closers {
			if c != nil {
				c.Close()
			}
		}
		return nil, err
	}

	r := &Reader{archives: archives, closers: closers, log: cfg.logger()}
	r.skipExhausted()
	r.log.Printf("far: opened %d source(s)", len(sources))
	return r, nil
}

// skipExhausted advances idx past any archive that is already Done
// (including empty ones just opened), so Done()/GetKey()/GetFst()
// always reflect a real current entry when one exists anywhere ahead.
func (r *Reader) skipExhausted() {
	for r.idx < len(r.archives) && r.archives[r.idx].Done() {
		r.idx++
	}
}

// Done reports whether every archive has been fully consumed.
func (r *Reader) Done() bool {
	return r.idx >= len(r.archives)
}

// Next advances to the next entry, moving to the next archive in order
// once the current one is exhausted.
func (r *Reader) Next() error {
	if r.Done() {
		return nil
	}
	if err := r.archives[r.idx].Next(); err != nil {
		return err
	}
	r.skipExhausted()
	return nil
}

// GetKey returns the current entry's key. Valid only when !Done().
func (r *Reader) GetKey() string {
	if r.Done() {
		return ""
	}
	return r.archives[r.idx].GetKey()
}

// GetFst returns the current entry's serialized FST payload. Valid only
// when !Done().
func (r *Reader) GetFst() ([]byte, error) {
	if r.Done() {
		return nil, xerrors.Errorf("far: GetFst called with no current entry")
	}
	return r.archives[r.idx].GetFst()
}

// Find looks for key in each archive in source order, stopping at the
// first match and positioning the reader there; later archives are
// left untouched. Returns (false, nil) when key is absent from every
// archive; FindFst turns that case into *ErrNotFound (spec §4.8: "Find
// tries each archive's Find").
func (r *Reader) Find(key string) (bool, error) {
	for i, a := range r.archives {
		ok, err := a.Find(key)
		if err != nil {
			return false, xerrors.Errorf("far: Find(%q) in source %d: %w", key, i, err)
		}
		if ok {
			r.idx = i
			return true, nil
		}
	}
	return false, nil
}

// FindFst is the one-shot keyed fetch: Find followed by GetFst, failing
// with *ErrNotFound (rather than a plain false) when key is absent from
// every archive. Named and shaped after internal/repo.Reader's own
// fetch-by-key contract, this module's teacher's closest analogue to
// "look up by key, distinguish absent from broken".
func (r *Reader) FindFst(key string) ([]byte, error) {
	ok, err := r.Find(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ErrNotFound{Key: key}
	}
	return r.GetFst()
}

// Close releases every opened source.
func (r *Reader) Close() error {
	var first error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
