package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/znznow/agreements-backend/internal/platform/logger"
)

// Category names the subdirectory an artifact lives under. Files are named
// by agreement ID, so one agreement maps to at most one file per category.
type Category string

const (
	CategoryPDF       Category = "pdfs"
	CategorySignature Category = "signatures"
	CategoryArchive   Category = "archives"
)

type FileStore interface {
	Save(category Category, name string, data []byte) (string, error)
	Path(category Category, name string) string
	Exists(path string) bool
	Read(path string) ([]byte, error)
	Root() string
}

type fileStore struct {
	root string
	log  *logger.Logger
}

func NewFileStore(log *logger.Logger, root string) (FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root required")
	}
	for _, c := range []Category{CategoryPDF, CategorySignature, CategoryArchive} {
		if err := os.MkdirAll(filepath.Join(root, string(c)), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", c, err)
		}
	}
	return &fileStore{
		root: root,
		log:  log.With("service", "FileStore"),
	}, nil
}

func (fs *fileStore) Save(category Category, name string, data []byte) (string, error) {
	path := fs.Path(category, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	fs.log.Debug("artifact saved", "category", string(category), "path", path, "bytes", len(data))
	return path, nil
}

func (fs *fileStore) Path(category Category, name string) string {
	return filepath.Join(fs.root, string(category), name)
}

func (fs *fileStore) Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (fs *fileStore) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (fs *fileStore) Root() string { return fs.root }
