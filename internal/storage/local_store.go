package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes objects under a directory. Used for development and tests.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root string, baseURL string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("local store root is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{root: root, baseURL: baseURL}, nil
}

func (store *LocalStore) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := store.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return joinURL(store.baseURL, key), nil
}

func (store *LocalStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(store.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (store *LocalStore) path(key string) string {
	return filepath.Join(store.root, filepath.FromSlash(key))
}
