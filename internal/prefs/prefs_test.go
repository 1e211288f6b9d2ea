package prefs

import (
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	f := NewFileStore(path)

	if _, ok := f.Get("current"); ok {
		t.Fatalf("want miss on fresh store")
	}

	f.Set("current", "s2")
	f.Set("other", "x")

	// A second store on the same path sees the persisted values.
	g := NewFileStore(path)
	v, ok := g.Get("current")
	if !ok || v != "s2" {
		t.Fatalf("want s2, got %q (%v)", v, ok)
	}
}

func TestFileStore_UnwritablePathIsSilent(t *testing.T) {
	f := NewFileStore(filepath.Join(t.TempDir(), "missing", "deep", "prefs.json"))
	f.Set("current", "s1") // must not panic or error
	if _, ok := f.Get("current"); ok {
		t.Fatalf("want miss when the file cannot be written")
	}
}
