package weight

import (
	"bufio"
	"strings"
	"unicode"

	"golang.org/x/xerrors"
)

// CompositeWeightWriter serializes nested composite weights (PairWeight,
// TupleWeight, ...) as text, one component at a time, separated by a
// single-character separator and optionally wrapped in a bracket pair
// (spec §4.9). The caller is responsible for formatting each leaf
// weight's own text form and passing it to WriteElement.
type CompositeWeightWriter struct {
	sb        strings.Builder
	sep       byte
	open      byte
	close     byte
	bracketed bool
	depth     int
	count     int
}

// NewCompositeWeightWriter constructs a writer. An empty brackets string
// disables bracketing; otherwise it must be exactly two bytes (open,
// close).
func NewCompositeWeightWriter(sep byte, brackets string) (*CompositeWeightWriter, error) {
	w := &CompositeWeightWriter{sep: sep}
	if brackets != "" {
		if len(brackets) != 2 {
			return nil, xerrors.Errorf("weight: brackets must be exactly two characters, got %q", brackets)
		}
		w.bracketed = true
		w.open = brackets[0]
		w.close = brackets[1]
	}
	return w, nil
}

// WriteBegin opens a new nesting level (emitting the open bracket if
// bracketing is enabled).
func (w *CompositeWeightWriter) WriteBegin() {
	if w.bracketed {
		w.sb.WriteByte(w.open)
	}
	w.depth++
	w.count = 0
}

// WriteElement appends one already-formatted leaf component, inserting
// the separator before every component after the first at this nesting
// level.
func (w *CompositeWeightWriter) WriteElement(text string) {
	if w.count > 0 {
		w.sb.WriteByte(w.sep)
	}
	w.sb.WriteString(text)
	w.count++
}

// WriteEnd closes the current nesting level.
func (w *CompositeWeightWriter) WriteEnd() {
	if w.bracketed {
		w.sb.WriteByte(w.close)
	}
	w.depth--
	w.count = 1 // the level we popped back into already had one element
}

func (w *CompositeWeightWriter) String() string { return w.sb.String() }

// CompositeWeightReader is the dual of CompositeWeightWriter: it slices
// an input string into components bounded by the configured separator
// and, if enabled, bracket pair. Reader discipline (spec §4.9):
// ReadBegin skips leading whitespace and, with bracketing enabled,
// requires the open bracket; ReadEnd requires EOF, whitespace, or the
// close bracket after the last component.
type CompositeWeightReader struct {
	r         *bufio.Reader
	sep       byte
	open      byte
	close     byte
	bracketed bool
	depth     int
}

func NewCompositeWeightReader(s string, sep byte, brackets string) (*CompositeWeightReader, error) {
	r := &CompositeWeightReader{r: bufio.NewReader(strings.NewReader(s)), sep: sep}
	if brackets != "" {
		if len(brackets) != 2 {
			return nil, xerrors.Errorf("weight: brackets must be exactly two characters, got %q", brackets)
		}
		r.bracketed = true
		r.open = brackets[0]
		r.close = brackets[1]
	}
	return r, nil
}

func (r *CompositeWeightReader) skipSpace() {
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			return
		}
		if !unicode.IsSpace(rune(b)) {
			r.r.UnreadByte()
			return
		}
	}
}

func (r *CompositeWeightReader) ReadBegin() error {
	r.skipSpace()
	if r.bracketed {
		b, err := r.r.ReadByte()
		if err != nil || b != r.open {
			return xerrors.Errorf("weight: expected open bracket %q", r.open)
		}
	}
	r.depth++
	return nil
}

// ReadElement returns the next component's raw text, stopping at the
// configured separator, the close bracket (if bracketed and this is the
// last element), or EOF.
func (r *CompositeWeightReader) ReadElement() (string, error) {
	var sb strings.Builder
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			return sb.String(), nil // caller's ReadEnd decides if EOF is valid here
		}
		if b == r.sep {
			return sb.String(), nil
		}
		if r.bracketed && b == r.close {
			r.r.UnreadByte()
			return sb.String(), nil
		}
		sb.WriteByte(b)
	}
}

func (r *CompositeWeightReader) ReadEnd() error {
	r.depth--
	if r.bracketed {
		b, err := r.r.ReadByte()
		if err != nil {
			return xerrors.Errorf("weight: expected close bracket %q, got EOF", r.close)
		}
		if b != r.close {
			return xerrors.Errorf("weight: expected close bracket %q, got %q", r.close, b)
		}
	}
	r.skipSpace()
	if b, err := r.r.ReadByte(); err == nil {
		if !unicode.IsSpace(rune(b)) {
			return xerrors.Errorf("weight: trailing garbage %q after composite weight", b)
		}
	}
	return nil
}
