package mmap

import (
	"os"
	"testing"
)

func TestHeapRegion(t *testing.T) {
	r := NewHeap(16, 8)
	if r.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", r.Len())
	}
	if r.Provenance() != Heap {
		t.Fatalf("Provenance() = %v, want Heap", r.Provenance())
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestBorrowedRegion(t *testing.T) {
	data := []byte("hello")
	r := NewBorrowed(data)
	if string(r.Bytes()) != "hello" {
		t.Fatalf("Bytes() = %q", r.Bytes())
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	// Borrowed Close must not touch the caller's slice.
	if string(data) != "hello" {
		t.Fatalf("borrowed data mutated by Close: %q", data)
	}
}

func TestMappedRegionRoundTrip(t *testing.T) {
	f, err := os.CreateTemp("", "mmap_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	want := []byte("the quick brown fox")
	if _, err := f.Write(want); err != nil {
		t.Fatal(err)
	}

	r, err := NewMapped(f, 0, len(want))
	if err != nil {
		t.Skipf("mmap unavailable in this environment: %v", err)
	}
	defer r.Close()
	if string(r.Bytes()) != string(want) {
		t.Fatalf("mapped bytes = %q, want %q", r.Bytes(), want)
	}
}

func TestSharedRefcounting(t *testing.T) {
	r := NewHeap(4, 1)
	s := NewShared(r)
	s2 := s.Acquire()
	if err := s.Release(); err != nil {
		t.Fatal(err)
	}
	// Region must still be usable: s2 holds a reference.
	if s2.Region().Len() != 4 {
		t.Fatalf("region released too early")
	}
	if err := s2.Release(); err != nil {
		t.Fatal(err)
	}
}
