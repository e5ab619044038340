package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/znznow/agreements-backend/internal/platform/logger"
)

func newStore(t *testing.T) FileStore {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	fs, err := NewFileStore(log, t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return fs
}

func TestNewFileStoreCreatesCategoryDirs(t *testing.T) {
	fs := newStore(t)
	for _, c := range []Category{CategoryPDF, CategorySignature, CategoryArchive} {
		dir := filepath.Join(fs.Root(), string(c))
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("%s dir missing: %v", c, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
}

func TestSaveReadExists(t *testing.T) {
	fs := newStore(t)

	data := []byte("%PDF-1.4 fake")
	path, err := fs.Save(CategoryPDF, "abc.pdf", data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != fs.Path(CategoryPDF, "abc.pdf") {
		t.Fatalf("path = %q, want %q", path, fs.Path(CategoryPDF, "abc.pdf"))
	}
	if !fs.Exists(path) {
		t.Fatal("saved file does not exist")
	}

	got, err := fs.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("Read = %q, want %q", got, data)
	}

	if fs.Exists("") {
		t.Fatal("empty path should not exist")
	}
	if fs.Exists(filepath.Join(fs.Root(), string(CategoryPDF))) {
		t.Fatal("directory should not count as an existing file")
	}
	if fs.Exists(fs.Path(CategoryPDF, "nope.pdf")) {
		t.Fatal("missing file should not exist")
	}
}
