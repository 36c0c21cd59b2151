package far

import (
	"bytes"
	"os"
	"testing"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/vector"
	"github.com/fstkit/fst/weight"
)

func tropicalFstBytes(t *testing.T, w weight.TropicalWeight) []byte {
	t.Helper()
	f := vector.New[weight.TropicalWeight]()
	s0 := f.AddState()
	f.SetStart(s0)
	f.SetFinal(s0, w)
	var buf bytes.Buffer
	if err := vector.Write(&buf, f, vector.TropicalCodec, fst.Config{}); err != nil {
		t.Fatalf("serializing test fst: %v", err)
	}
	return buf.Bytes()
}

func TestSttableOrderEnforcement(t *testing.T) {
	var buf bytes.Buffer
	w, err := Create(&buf, Sttable, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Add("a", tropicalFstBytes(t, 0)); err != nil {
		t.Fatalf("Add(a): %v", err)
	}
	if err := w.Add("c", tropicalFstBytes(t, 0)); err != nil {
		t.Fatalf("Add(c): %v", err)
	}
	// spec §8 scenario 3: out-of-order key must fail.
	if err := w.Add("b", tropicalFstBytes(t, 0)); err == nil {
		t.Fatalf("Add(b) after a,c: want error, got nil")
	}
}

func TestStlistAcceptsAnyOrder(t *testing.T) {
	var buf bytes.Buffer
	w, err := Create(&buf, Stlist, Config{})
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"c", "a", "b"} {
		if err := w.Add(k, tropicalFstBytes(t, 0)); err != nil {
			t.Fatalf("Add(%s): %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeSttable(t *testing.T, keys []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := Create(&buf, Sttable, Config{})
	if err != nil {
		t.Fatal(err)
	}
	for i, k := range keys {
		if err := w.Add(k, tropicalFstBytes(t, weight.TropicalWeight(i))); err != nil {
			t.Fatalf("Add(%s): %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSttableFindPositionsReaderAndContinuesInOrder(t *testing.T) {
	data := writeSttable(t, []string{"a", "b", "c", "d"})
	sr, err := openSttable(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	ok, err := sr.Find("b")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("Find(b) = false, want true")
	}
	if sr.GetKey() != "b" {
		t.Fatalf("GetKey() = %q after Find(b), want %q", sr.GetKey(), "b")
	}
	var seen []string
	for !sr.Done() {
		seen = append(seen, sr.GetKey())
		if err := sr.Next(); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"b", "c", "d"}
	if len(seen) != len(want) {
		t.Fatalf("subsequent Next() sequence = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("subsequent Next() sequence = %v, want %v", seen, want)
		}
	}
}

func TestSttableFindMissingKey(t *testing.T) {
	data := writeSttable(t, []string{"a", "c", "e"})
	sr, err := openSttable(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	ok, err := sr.Find("d")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("Find(d) = true, want false (not present)")
	}
}

func TestReaderIterationVisitsAllKeysInOrder(t *testing.T) {
	data := writeSttable(t, []string{"a", "b", "c"})

	dir := t.TempDir()
	path := dir + "/archive.far"
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Open([]string{path}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var keys []string
	for !r.Done() {
		keys = append(keys, r.GetKey())
		if err := r.Next(); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestKeyRangeExtractsInclusiveRange(t *testing.T) {
	data := writeSttable(t, []string{"k1", "k2", "k3", "k4"})
	dir := t.TempDir()
	path := dir + "/archive.far"
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Open([]string{path}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := KeyRange(r, "k2", "k3")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Key != "k2" || got[1].Key != "k3" {
		t.Fatalf("KeyRange(k2,k3) = %+v, want exactly [k2 k3] in order", got)
	}
}

func TestStringToFstEmptyString(t *testing.T) {
	f, err := StringToFst[weight.TropicalWeight]("", Byte, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumStates() != 1 || f.Start() != 0 || f.Final(0) != 0 {
		t.Fatalf("empty string fst mismatch: states=%d start=%d final=%v", f.NumStates(), f.Start(), f.Final(0))
	}
}

func TestStringToFstByteChain(t *testing.T) {
	f, err := StringToFst[weight.TropicalWeight]("ab", Byte, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumStates() != 3 {
		t.Fatalf("NumStates() = %d, want 3", f.NumStates())
	}
	it := f.Arcs(0)
	if it.Done() || it.Value().ILabel != fst.Label('a') {
		t.Fatalf("state 0's arc should carry label 'a'")
	}
}

func TestFindFstReturnsErrNotFound(t *testing.T) {
	data := writeSttable(t, []string{"a", "c"})
	dir := t.TempDir()
	path := dir + "/archive.far"
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Open([]string{path}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.FindFst("b"); err == nil {
		t.Fatalf("FindFst(b): want *ErrNotFound, got nil")
	} else if _, ok := err.(*ErrNotFound); !ok {
		t.Fatalf("FindFst(b) error = %T, want *ErrNotFound", err)
	}

	if _, err := r.FindFst("a"); err != nil {
		t.Fatalf("FindFst(a): %v", err)
	}
}

func TestWriteEntriesLineMode(t *testing.T) {
	dir := t.TempDir()
	src := dir + "/strings.txt"
	if err := os.WriteFile(src, []byte("ab\ncd\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w, err := Create(&buf, Sttable, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteEntries[weight.TropicalWeight](w, Line, Byte, []string{src}, nil, vector.TropicalCodec, fst.Config{}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	sr, err := openSttable(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for !sr.Done() {
		keys = append(keys, sr.GetKey())
		if err := sr.Next(); err != nil {
			t.Fatal(err)
		}
	}
	if len(keys) != 2 {
		t.Fatalf("got %d entries, want 2", len(keys))
	}
}
