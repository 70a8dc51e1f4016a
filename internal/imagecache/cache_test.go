package imagecache

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRequirements(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLookupMiss(t *testing.T) {
	cache := NewAt(filepath.Join(t.TempDir(), "cache.json"))
	reqs := writeRequirements(t, "torch==1.7.0\n")

	_, ok, err := cache.Lookup(reqs)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if ok {
		t.Error("Lookup hit on empty cache")
	}
}

func TestStoreAndLookup(t *testing.T) {
	cache := NewAt(filepath.Join(t.TempDir(), "cache.json"))
	reqs := writeRequirements(t, "torch==1.7.0\n")

	if err := cache.Store(reqs, "image-1"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	image, ok, err := cache.Lookup(reqs)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !ok || image != "image-1" {
		t.Errorf("Lookup = (%q, %t), want (image-1, true)", image, ok)
	}
}

func TestContentChangeInvalidates(t *testing.T) {
	cache := NewAt(filepath.Join(t.TempDir(), "cache.json"))
	reqs := writeRequirements(t, "torch==1.7.0\n")

	if err := cache.Store(reqs, "image-1"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := os.WriteFile(reqs, []byte("torch==1.8.0\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, ok, err := cache.Lookup(reqs)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if ok {
		t.Error("Lookup hit after requirements content changed")
	}
}
