package far

import (
	"io"
	"sort"

	"golang.org/x/xerrors"

	"github.com/orcaman/writerseeker"
)

// sttableIndexEntry is one (key, record-offset) pair in the tail index.
type sttableIndexEntry struct {
	key    string
	offset int64
}

// sttableWriter implements the STTABLE container (spec §4.8): magic,
// then concatenated (key-length, key, fst-length, fst-bytes) records in
// strictly increasing key order, then a tail index and an i64
// index-offset trailer.
//
// The tail index is accumulated in an in-memory writerseeker.WriteSeeker
// as records are written -- each record's starting offset is known the
// moment it is written, long before the whole archive (and hence the
// index's own position) is final -- and flushed to the underlying
// stream in one sequential pass at Close, exactly the DOMAIN STACK entry
// for github.com/orcaman/writerseeker describes.
type sttableWriter struct {
	w   io.Writer
	pos int64

	index   writerseeker.WriteSeeker
	lastKey string
	hasLast bool
}

func newSttableWriter(w io.Writer) (*sttableWriter, error) {
	sw := &sttableWriter{w: w}
	if err := sw.writeRaw(magicBytes(SttableMagic)); err != nil {
		return nil, xerrors.Errorf("far: writing sttable magic: %w", err)
	}
	return sw, nil
}

func magicBytes(m int32) []byte {
	b := make([]byte, 4)
	byteOrder.PutUint32(b, uint32(m))
	return b
}

func (sw *sttableWriter) writeRaw(p []byte) error {
	n, err := sw.w.Write(p)
	sw.pos += int64(n)
	return err
}

func (sw *sttableWriter) Add(key string, fstBytes []byte) error {
	if sw.hasLast && key <= sw.lastKey {
		return xerrors.Errorf("far: sttable requires strictly increasing keys, got %q after %q", key, sw.lastKey)
	}
	offset := sw.pos
	if err := sw.writeRaw(lenPrefixed(key)); err != nil {
		return err
	}
	if err := sw.writeRaw(lenPrefixedBytes(fstBytes)); err != nil {
		return err
	}
	if _, err := sw.index.Write(lenPrefixed(key)); err != nil {
		return xerrors.Errorf("far: buffering sttable index entry: %w", err)
	}
	var off [8]byte
	byteOrder.PutUint64(off[:], uint64(offset))
	if _, err := sw.index.Write(off[:]); err != nil {
		return xerrors.Errorf("far: buffering sttable index offset: %w", err)
	}
	sw.lastKey = key
	sw.hasLast = true
	return nil
}

func lenPrefixed(s string) []byte { return lenPrefixedBytes([]byte(s)) }

func lenPrefixedBytes(b []byte) []byte {
	out := make([]byte, 4+len(b))
	byteOrder.PutUint32(out, uint32(len(b)))
	copy(out[4:], b)
	return out
}

func (sw *sttableWriter) Close() error {
	indexOffset := sw.pos
	r := sw.index.Reader()
	if _, err := io.Copy(&posWriter{sw}, r); err != nil {
		return xerrors.Errorf("far: flushing sttable index: %w", err)
	}
	var trailer [8]byte
	byteOrder.PutUint64(trailer[:], uint64(indexOffset))
	return sw.writeRaw(trailer[:])
}

// posWriter adapts sttableWriter's position-tracking Write for
// io.Copy's dst argument without exposing writeRaw as a public method.
type posWriter struct{ sw *sttableWriter }

func (p *posWriter) Write(b []byte) (int, error) {
	n, err := p.sw.w.Write(b)
	p.sw.pos += int64(n)
	return n, err
}

// sttableReader implements random-access reading of an STTABLE archive.
// It requires io.ReadSeeker because the tail index lives at the end of
// the stream and Find needs to seek to arbitrary record offsets.
type sttableReader struct {
	r    io.ReadSeeker
	size int64

	indexOffset int64
	index       []sttableIndexEntry

	pos    int64 // offset of the next unread record
	curKey string
	curFst []byte
	done   bool
}

func openSttable(r io.ReadSeeker) (*sttableReader, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if size < 12 {
		return nil, xerrors.Errorf("far: sttable source too short (%d bytes)", size)
	}
	if _, err := r.Seek(size-8, io.SeekStart); err != nil {
		return nil, err
	}
	var trailer [8]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return nil, xerrors.Errorf("far: reading sttable trailer: %w", err)
	}
	indexOffset := int64(byteOrder.Uint64(trailer[:]))
	if indexOffset < 4 || indexOffset > size-8 {
		return nil, xerrors.Errorf("far: sttable index offset %d out of range", indexOffset)
	}

	if _, err := r.Seek(indexOffset, io.SeekStart); err != nil {
		return nil, err
	}
	var index []sttableIndexEntry
	for pos := indexOffset; pos < size-8; {
		key, err := readLenPrefixed(r, maxRecordLen)
		if err != nil {
			return nil, xerrors.Errorf("far: reading sttable index key: %w", err)
		}
		var off [8]byte
		if _, err := io.ReadFull(r, off[:]); err != nil {
			return nil, xerrors.Errorf("far: reading sttable index offset: %w", err)
		}
		index = append(index, sttableIndexEntry{key: string(key), offset: int64(byteOrder.Uint64(off[:]))})
		pos += 4 + int64(len(key)) + 8
	}

	sr := &sttableReader{r: r, size: size, indexOffset: indexOffset, index: index}
	if err := sr.Reset(); err != nil {
		return nil, err
	}
	return sr, nil
}

func (sr *sttableReader) Reset() error {
	sr.pos = 4
	sr.done = false
	return sr.advance()
}

func (sr *sttableReader) advance() error {
	if sr.pos >= sr.indexOffset {
		sr.done = true
		sr.curKey, sr.curFst = "", nil
		return nil
	}
	if _, err := sr.r.Seek(sr.pos, io.SeekStart); err != nil {
		return err
	}
	key, err := readLenPrefixed(sr.r, maxRecordLen)
	if err != nil {
		return xerrors.Errorf("far: reading sttable record key: %w", err)
	}
	fstBytes, err := readLenPrefixed(sr.r, maxRecordLen)
	if err != nil {
		return xerrors.Errorf("far: reading sttable record fst: %w", err)
	}
	sr.pos += 4 + int64(len(key)) + 4 + int64(len(fstBytes))
	sr.curKey, sr.curFst, sr.done = string(key), fstBytes, false
	return nil
}

func (sr *sttableReader) Done() bool              { return sr.done }
func (sr *sttableReader) Next() error             { return sr.advance() }
func (sr *sttableReader) GetKey() string          { return sr.curKey }
func (sr *sttableReader) GetFst() ([]byte, error) { return sr.curFst, nil }

// Find binary searches the sorted tail index -- a plain sort.Search
// rather than golang.org/x/exp/slices.BinarySearchFunc, because the
// x/exp pseudo-version this module pins predates the slices package by
// several years (see DESIGN.md); leaves the reader positioned at key on
// success, per spec §8's testable STTABLE property, and is a no-op on
// failure.
func (sr *sttableReader) Find(key string) (bool, error) {
	i := sort.Search(len(sr.index), func(i int) bool { return sr.index[i].key >= key })
	if i >= len(sr.index) || sr.index[i].key != key {
		return false, nil
	}
	sr.pos = sr.index[i].offset
	if err := sr.advance(); err != nil {
		return false, err
	}
	return true, nil
}
