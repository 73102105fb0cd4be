package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"chonkit/internal/apperr"
)

// LocalStore stores document bytes on the local filesystem under Root.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at root, creating the directory
// if it doesn't exist.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

func (l *LocalStore) resolve(p string) (string, error) {
	rel, err := safeRelPath(p)
	if err != nil {
		return "", apperr.Wrap(apperr.ConfigError, "document path", err)
	}
	return filepath.Join(l.root, filepath.FromSlash(rel)), nil
}

func (l *LocalStore) Write(_ context.Context, path string, data []byte, overwrite bool) (string, error) {
	full, err := l.resolve(path)
	if err != nil {
		return "", err
	}
	if !overwrite {
		if _, err := os.Stat(full); err == nil {
			return "", alreadyExists(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create parent dirs: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (l *LocalStore) Read(_ context.Context, path string) ([]byte, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFound(path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (l *LocalStore) Delete(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (l *LocalStore) List(_ context.Context, prefix string) ([]Entry, error) {
	root := l.root
	if prefix != "" {
		rel, err := safeRelPath(prefix)
		if err != nil {
			return nil, err
		}
		root = filepath.Join(l.root, filepath.FromSlash(rel))
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", prefix, err)
	}
	if !info.IsDir() {
		rel, _ := filepath.Rel(l.root, root)
		return []Entry{{Path: filepath.ToSlash(rel), Name: filepath.Base(root), IsDir: false}}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		full := filepath.Join(root, e.Name())
		rel, err := filepath.Rel(l.root, full)
		if err != nil {
			continue
		}
		out = append(out, Entry{Path: filepath.ToSlash(rel), Name: e.Name(), IsDir: e.IsDir()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

var _ Store = (*LocalStore)(nil)
