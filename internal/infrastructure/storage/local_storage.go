package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"audio-translator/pkg/errors"
	"audio-translator/pkg/file"
)

// LocalStorage keeps artifacts under BasePath/<namespace>/<key>. Used for
// development runs without cloud storage.
type LocalStorage struct {
	BasePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{BasePath: basePath}
}

func (l *LocalStorage) path(namespace, key string) (string, error) {
	full := filepath.Join(l.BasePath, namespace, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.BasePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes storage root", key)
	}
	return full, nil
}

func (l *LocalStorage) Put(ctx context.Context, namespace, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := l.path(namespace, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (l *LocalStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := l.path(namespace, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return nil, errors.ErrNotFound(fmt.Sprintf("%s/%s does not exist", namespace, key))
	}
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// PutFile copies localPath into the store and writes its sha256 next to it.
func (l *LocalStorage) PutFile(ctx context.Context, namespace, key, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := l.path(namespace, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	in, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer in.Close()

	outFile, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, in); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := outFile.Sync(); err != nil {
		return fmt.Errorf("sync file: %w", err)
	}

	sum, err := file.CalculateFileHash(fullPath)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath+".sha256", []byte(sum+"\n"), 0o644)
}
