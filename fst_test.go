package fst

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestPropertiesAnd(t *testing.T) {
	a := Properties{}.With(Acceptor, true).With(Cyclic, false)
	b := Properties{}.With(Acceptor, true).With(Cyclic, true)

	got := a.And(b)
	if !got.Is(Acceptor) {
		t.Errorf("expected Acceptor known-and-set in intersection")
	}
	if got.IsKnown(Cyclic) {
		t.Errorf("Cyclic disagreed between operands, should be unknown in intersection")
	}
}

func TestPropertiesErrorSticky(t *testing.T) {
	a := Properties{}.SetError()
	b := Properties{}
	if !a.And(b).Is(Error) {
		t.Errorf("Error must propagate through And even if only one side has it")
	}
}

func TestSymbolTableRoundTrip(t *testing.T) {
	tbl := NewSymbolTable("test")
	a := tbl.AddSymbol("a")
	b := tbl.AddSymbol("b")
	if a == b {
		t.Fatalf("distinct symbols got the same id")
	}

	var buf bytes.Buffer
	if err := tbl.Write(&buf, binary.LittleEndian); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSymbolTable(&buf, binary.LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name() != "test" {
		t.Errorf("Name() = %q, want test", got.Name())
	}
	if id, ok := got.Find("a"); !ok || id != a {
		t.Errorf("Find(a) = %v,%v want %v,true", id, ok, a)
	}
	if sym, ok := got.FindSymbol(b); !ok || sym != "b" {
		t.Errorf("FindSymbol(b) = %v,%v want b,true", sym, ok)
	}
}
