package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSStore persists files and session snapshots under a root directory.
// File content lives at root/files/<path> with a JSON metadata sidecar;
// session blobs live at root/sessions/<id>.json.
type FSStore struct {
	root string
}

// NewFSStore creates the directory layout under root.
func NewFSStore(root string) (*FSStore, error) {
	for _, d := range []string{root, filepath.Join(root, "files"), filepath.Join(root, "sessions")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("creating storage dir %s: %w", d, err)
		}
	}
	return &FSStore{root: root}, nil
}

// SaveSession writes the session blob atomically.
func (s *FSStore) SaveSession(ctx context.Context, sessionID string, blob []byte) error {
	if err := validKey(sessionID); err != nil {
		return err
	}
	return writeFileAtomic(s.sessionPath(sessionID), blob, 0644)
}

// LoadSession reads the session blob, or ErrNotFound if absent.
func (s *FSStore) LoadSession(ctx context.Context, sessionID string) ([]byte, error) {
	if err := validKey(sessionID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.sessionPath(sessionID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// SaveFile writes content and its metadata sidecar.
func (s *FSStore) SaveFile(ctx context.Context, path, content string, meta Metadata) error {
	if err := validKey(path); err != nil {
		return err
	}
	target := s.filePath(path)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating dir for %s: %w", path, err)
	}
	if err := writeFileAtomic(target, []byte(content), 0644); err != nil {
		return err
	}
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(target+".meta.json", metaData, 0644)
}

// LoadFile reads content and metadata, or ErrNotFound if the path was never saved.
func (s *FSStore) LoadFile(ctx context.Context, path string) (string, Metadata, error) {
	if err := validKey(path); err != nil {
		return "", Metadata{}, err
	}
	target := s.filePath(path)
	content, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", Metadata{}, ErrNotFound
		}
		return "", Metadata{}, err
	}
	var meta Metadata
	if metaData, err := os.ReadFile(target + ".meta.json"); err == nil {
		// A corrupt or missing sidecar degrades to zero metadata.
		_ = json.Unmarshal(metaData, &meta)
	}
	return string(content), meta, nil
}

// DeleteFile removes content and sidecar. Deleting an absent path returns ErrNotFound.
func (s *FSStore) DeleteFile(ctx context.Context, path string) error {
	if err := validKey(path); err != nil {
		return err
	}
	target := s.filePath(path)
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	os.Remove(target + ".meta.json")
	return nil
}

func (s *FSStore) sessionPath(id string) string {
	return filepath.Join(s.root, "sessions", id+".json")
}

func (s *FSStore) filePath(path string) string {
	return filepath.Join(s.root, "files", filepath.FromSlash(path))
}

// validKey rejects keys that would escape the storage root.
func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage: empty key")
	}
	if filepath.IsAbs(key) {
		return fmt.Errorf("storage: key %q must be relative", key)
	}
	for _, seg := range strings.Split(filepath.ToSlash(key), "/") {
		if seg == ".." {
			return fmt.Errorf("storage: key %q must not contain '..'", key)
		}
	}
	return nil
}
