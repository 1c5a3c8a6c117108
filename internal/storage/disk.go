package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperjump/mundap/internal/models"
)

// DiskDocumentStore stores document files in a single directory, one file per
// document ID.
type DiskDocumentStore struct {
	root string
}

// NewDiskDocumentStore creates root if needed and returns a store over it.
func NewDiskDocumentStore(root string) (*DiskDocumentStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}
	return &DiskDocumentStore{root: root}, nil
}

// Root returns the directory documents are stored in.
func (s *DiskDocumentStore) Root() string {
	return s.root
}

// path validates the ID and maps it to a file path. IDs with path separators
// or traversal segments are rejected so a crafted ID cannot escape root.
func (s *DiskDocumentStore) path(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("document id is empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid document id: %s", id)
	}
	return filepath.Join(s.root, id), nil
}

// Write stores content under id, replacing any previous content.
func (s *DiskDocumentStore) Write(ctx context.Context, id string, content []byte) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, content, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Read returns the raw bytes stored under id.
func (s *DiskDocumentStore) Read(ctx context.Context, id string) ([]byte, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return content, nil
}

// Delete removes the document file. Deleting a missing document is not an error.
func (s *DiskDocumentStore) Delete(ctx context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Exists reports whether a document file is stored under id.
func (s *DiskDocumentStore) Exists(ctx context.Context, id string) (bool, error) {
	p, err := s.path(id)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns info for every stored document, newest first.
func (s *DiskDocumentStore) List(ctx context.Context) ([]models.DocumentInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	var docs []models.DocumentInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, models.DocumentInfo{
			Filename: entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
			Type:     strings.ToLower(filepath.Ext(entry.Name())),
		})
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Modified.After(docs[j].Modified)
	})
	return docs, nil
}

// DiskUsageBytes returns the total size in bytes of the given paths.
// Each path may be a file or a directory (recursively summed).
// Missing or inaccessible paths are skipped (contribute 0); errors during walk are returned.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if info.IsDir() {
			n, err := dirSize(p)
			if err != nil {
				return 0, err
			}
			total += n
		} else {
			total += info.Size()
		}
	}
	return total, nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info != nil && !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}
