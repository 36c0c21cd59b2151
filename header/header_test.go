package header

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &FstHeader{
		FstType:    "vector",
		ArcType:    "standard",
		Version:    2,
		Flags:      FlagIsAligned,
		Properties: 0,
		Start:      0,
		NumStates:  2,
		NumArcs:    1,
	}
	var buf bytes.Buffer
	if err := h.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *h {
		t.Errorf("got %+v, want %+v", got, h)
	}
}

func TestHeaderBadMagic(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0})
	if _, err := Read(buf); err == nil {
		t.Errorf("expected error for bad magic")
	}
}

func TestAlignmentRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("abc") // pos = 3
	pad, err := PadToAlignment(&buf, 3, 8)
	if err != nil {
		t.Fatal(err)
	}
	if pad != 5 {
		t.Fatalf("pad = %d, want 5", pad)
	}
	if buf.Len() != 8 {
		t.Fatalf("buf.Len() = %d, want 8", buf.Len())
	}

	r := bytes.NewReader(buf.Bytes()[3:])
	consumed, err := ConsumeAlignment(r, 3, 8)
	if err != nil {
		t.Fatal(err)
	}
	if consumed != 5 {
		t.Fatalf("consumed = %d, want 5", consumed)
	}
	if r.Len() != 0 {
		t.Fatalf("remaining = %d, want 0", r.Len())
	}
}
