package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	if err := SafeWriteFile(path, []byte("x\n1\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "x\n1\n" {
		t.Fatalf("content = %q", b)
	}
}

func TestFindRunRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ManifestName), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "plots")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := FindRunRoot(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != root {
		t.Fatalf("root = %q, want %q", got, root)
	}
	if _, err := FindRunRoot(t.TempDir()); err == nil {
		t.Fatalf("expected error without run.json")
	}
}

func TestExpandHomeAndBaseName(t *testing.T) {
	t.Setenv("HOME", "/home/u")
	if got := ExpandHome("~/results"); got != "/home/u/results" {
		t.Fatalf("expand = %q", got)
	}
	if got := ExpandHome("data/x.csv"); got != "data/x.csv" {
		t.Fatalf("expand relative = %q", got)
	}
	if got := BaseName("/tmp/hastalar.v2.xlsx"); got != "hastalar.v2" {
		t.Fatalf("base = %q", got)
	}
}
