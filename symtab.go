package fst

import (
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// SymbolTable is a bidirectional mapping between Labels and strings,
// carried optionally by an FST. Textual symbol-table I/O (the
// "symbol<TAB>id" convention consumed by external tools) is out of
// scope for this module; SymbolTable only needs to round-trip through
// the FST binary format (spec §4.6: "if the flags indicate symbol
// tables, input then output symbol tables are written (their own
// serialization)").
type SymbolTable struct {
	name      string
	symToID   map[string]Label
	idToSym   map[Label]string
	nextFresh Label
}

func NewSymbolTable(name string) *SymbolTable {
	return &SymbolTable{
		name:    name,
		symToID: map[string]Label{"<eps>": Epsilon},
		idToSym: map[Label]string{Epsilon: "<eps>"},
	}
}

func (t *SymbolTable) Name() string { return t.name }

// AddSymbol assigns the next unused id to sym if it is not already
// present, and returns its id either way.
func (t *SymbolTable) AddSymbol(sym string) Label {
	if id, ok := t.symToID[sym]; ok {
		return id
	}
	for t.idToSym[t.nextFresh] != "" {
		t.nextFresh++
	}
	id := t.nextFresh
	t.symToID[sym] = id
	t.idToSym[id] = sym
	t.nextFresh++
	return id
}

// AddSymbolID inserts sym at an explicit id, overwriting any previous
// symbol at that id.
func (t *SymbolTable) AddSymbolID(sym string, id Label) {
	if old, ok := t.idToSym[id]; ok {
		delete(t.symToID, old)
	}
	t.symToID[sym] = id
	t.idToSym[id] = sym
}

func (t *SymbolTable) Find(sym string) (Label, bool) {
	id, ok := t.symToID[sym]
	return id, ok
}

func (t *SymbolTable) FindSymbol(id Label) (string, bool) {
	sym, ok := t.idToSym[id]
	return sym, ok
}

func (t *SymbolTable) NumSymbols() int { return len(t.symToID) }

func writeLenPrefixedString(w io.Writer, order binary.ByteOrder, s string) error {
	if err := binary.Write(w, order, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readLenPrefixedString(r io.Reader, order binary.ByteOrder) (string, error) {
	var n int32
	if err := binary.Read(r, order, &n); err != nil {
		return "", err
	}
	if n < 0 || n > 1<<28 {
		return "", xerrors.Errorf("fst: corrupt length-prefixed string length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Write serializes the table as: name, symbol count, then
// (symbol, id) pairs in ascending id order for determinism.
func (t *SymbolTable) Write(w io.Writer, order binary.ByteOrder) error {
	if err := writeLenPrefixedString(w, order, t.name); err != nil {
		return err
	}
	if err := binary.Write(w, order, int64(len(t.idToSym))); err != nil {
		return err
	}
	ids := make([]Label, 0, len(t.idToSym))
	for id := range t.idToSym {
		ids = append(ids, id)
	}
	sortLabels(ids)
	for _, id := range ids {
		if err := writeLenPrefixedString(w, order, t.idToSym[id]); err != nil {
			return err
		}
		if err := binary.Write(w, order, int32(id)); err != nil {
			return err
		}
	}
	return nil
}

func sortLabels(ids []Label) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

func ReadSymbolTable(r io.Reader, order binary.ByteOrder) (*SymbolTable, error) {
	name, err := readLenPrefixedString(r, order)
	if err != nil {
		return nil, err
	}
	var n int64
	if err := binary.Read(r, order, &n); err != nil {
		return nil, err
	}
	if n < 0 || n > 1<<28 {
		return nil, xerrors.Errorf("fst: corrupt symbol table size %d", n)
	}
	t := &SymbolTable{name: name, symToID: make(map[string]Label, n), idToSym: make(map[Label]string, n)}
	for i := int64(0); i < n; i++ {
		sym, err := readLenPrefixedString(r, order)
		if err != nil {
			return nil, err
		}
		var id int32
		if err := binary.Read(r, order, &id); err != nil {
			return nil, err
		}
		t.symToID[sym] = Label(id)
		t.idToSym[Label(id)] = sym
	}
	return t, nil
}
