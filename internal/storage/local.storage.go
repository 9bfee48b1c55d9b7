package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"hotelparadise/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

// LocalStore keeps photos on the API host's disk.
type LocalStore struct {
	root      string
	publicURL string
	log       logger.Logger
}

func NewLocalStore(root, publicURL string) (*LocalStore, error) {
	log := logger.New("localStore").Function("NewLocalStore")

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, log.Err("failed to create upload directory", err, "root", root)
	}

	return &LocalStore{
		root:      root,
		publicURL: publicURL,
		log:       logger.New("localStore"),
	}, nil
}

func (s *LocalStore) Save(ctx context.Context, folder string, uploads []Upload) ([]string, error) {
	log := s.log.TraceFromContext(ctx).Function("Save")

	if err := ValidateFolder(folder); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(s.root, folder), 0o755); err != nil {
		return nil, log.Err("failed to create room folder", err, "folder", folder)
	}

	keys := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		key := objectName(folder, upload.Filename)
		if err := s.write(key, upload.Body); err != nil {
			_ = s.Delete(ctx, keys)
			return nil, log.Err("failed to save photo", err, "key", key)
		}
		keys = append(keys, key)
	}

	log.Info("Photos saved", "folder", folder, "count", len(keys))
	return keys, nil
}

func (s *LocalStore) write(key string, body io.Reader) error {
	file, err := os.Create(s.path(key))
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, body); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

// Delete removes every key it can and returns the first failure.
func (s *LocalStore) Delete(ctx context.Context, keys []string) error {
	log := s.log.TraceFromContext(ctx).Function("Delete")

	var firstErr error
	for _, key := range keys {
		if err := ValidateKey(key); err != nil {
			log.Warn("Skipping invalid photo key", "key", key)
			continue
		}

		err := os.Remove(s.path(key))
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Photo already missing", "key", key)
			continue
		}
		if err != nil && firstErr == nil {
			firstErr = log.Err("failed to delete photo", err, "key", key)
		}
	}
	return firstErr
}

func (s *LocalStore) DeleteFolderIfEmpty(ctx context.Context, folder string) error {
	if err := ValidateFolder(folder); err != nil {
		return err
	}

	dir := filepath.Join(s.root, folder)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return s.log.Function("DeleteFolderIfEmpty").Err("failed to read folder", err, "folder", folder)
	}
	if len(entries) > 0 {
		return nil
	}

	return os.Remove(dir)
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if err := ValidateKey(key); err != nil {
		return nil, "", err
	}

	file, err := os.Open(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", types.NewNotFoundError("photo not found")
	}
	if err != nil {
		return nil, "", s.log.Function("Open").Err("failed to open photo", err, "key", key)
	}

	return file, contentTypeFor(key, ""), nil
}

func (s *LocalStore) URL(key string) string {
	return joinURL(s.publicURL, key)
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}
