package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func testFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs, dir
}

func TestWriteReadDelete(t *testing.T) {
	fs, _ := testFS(t)

	content := []byte("id: brine\ntitle: Pickle Brine\n")
	if err := fs.Write("sauces/brine.yaml", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := fs.Read("sauces/brine.yaml")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Read = %q, want %q", got, content)
	}
	if err := fs.Delete("sauces/brine.yaml"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.Read("sauces/brine.yaml"); err == nil {
		t.Error("expected read error after delete")
	}
}

func TestList_OnlyRecipeFiles(t *testing.T) {
	fs, dir := testFS(t)

	_ = fs.Write("a.yaml", []byte("title: A\n"))
	_ = fs.Write("sub/b.yml", []byte("title: B\n"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	infos, err := fs.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len(infos) = %d, want 2", len(infos))
	}
	for _, fi := range infos {
		if fi.Checksum == "" {
			t.Errorf("missing checksum for %s", fi.Path)
		}
	}
}

func TestSafePath_RejectsTraversal(t *testing.T) {
	fs, _ := testFS(t)
	if _, err := fs.Read("../escape.yaml"); err == nil {
		t.Error("expected traversal rejection")
	}
	if err := fs.Write("/abs.yaml", []byte("x")); err == nil {
		t.Error("expected absolute path rejection")
	}
}
