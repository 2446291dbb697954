package tracker

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestComputeHash(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.pdf", "hello world")

	hash, err := ComputeHash(path)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	// md5 of "hello world"
	if hash != "5eb63bbbe01eeed093cb22bb8f5acdc3" {
		t.Errorf("unexpected hash %s", hash)
	}

	again, _ := ComputeHash(path)
	if again != hash {
		t.Error("hash is not stable")
	}
}

func TestBuildRegistry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", "AAA")
	writeFile(t, dir, "b.pdf", "BBB")
	writeFile(t, dir, "notes.txt", "ignored")

	registry, err := BuildRegistry(dir)
	if err != nil {
		t.Fatalf("BuildRegistry failed: %v", err)
	}
	if len(registry) != 2 {
		t.Fatalf("expected 2 tracked files, got %d", len(registry))
	}
	if registry["a.pdf"] == "" || registry["b.pdf"] == "" {
		t.Error("pdf files missing from registry")
	}
	if _, ok := registry["notes.txt"]; ok {
		t.Error("non-pdf file should not be tracked")
	}
}

func TestBuildRegistry_MissingFolder(t *testing.T) {
	registry, err := BuildRegistry(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing folder should not fail: %v", err)
	}
	if len(registry) != 0 {
		t.Errorf("expected empty registry, got %d entries", len(registry))
	}
}

func TestSaveAndLoadRegistry(t *testing.T) {
	indexDir := filepath.Join(t.TempDir(), "vector_store")
	registry := Registry{"a.pdf": "h1", "b.pdf": "h2"}

	if err := SaveRegistry(indexDir, registry); err != nil {
		t.Fatalf("SaveRegistry failed: %v", err)
	}

	loaded, err := LoadRegistry(indexDir)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}
	if len(loaded) != 2 || loaded["a.pdf"] != "h1" || loaded["b.pdf"] != "h2" {
		t.Errorf("round trip mismatch: %v", loaded)
	}
}

func TestLoadRegistry_Missing(t *testing.T) {
	loaded, err := LoadRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("missing registry should not fail: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil registry, got %v", loaded)
	}
}

func TestNeedsReindex(t *testing.T) {
	base := Registry{"a.pdf": "h1", "b.pdf": "h2"}

	cases := []struct {
		name    string
		stored  Registry
		current Registry
		want    bool
	}{
		{"no previous build", nil, base, true},
		{"identical corpus", Registry{"a.pdf": "h1", "b.pdf": "h2"}, base, false},
		{"file added", Registry{"a.pdf": "h1"}, base, true},
		{"file removed", Registry{"a.pdf": "h1", "b.pdf": "h2", "c.pdf": "h3"}, base, true},
		{"file modified", Registry{"a.pdf": "h1", "b.pdf": "changed"}, base, true},
		{"both empty", Registry{}, Registry{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NeedsReindex(tc.stored, tc.current); got != tc.want {
				t.Errorf("NeedsReindex = %v, want %v", got, tc.want)
			}
		})
	}
}
