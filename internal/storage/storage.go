package storage

import (
	"context"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"hotelparadise/config"
	"hotelparadise/internal/types"

	"github.com/google/uuid"
)

// Upload is one file received with an incident report.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// PhotoStorage stores incident photos under a per-room folder. Keys have the
// form "<folder>/<name>" and are what the database keeps.
type PhotoStorage interface {
	Save(ctx context.Context, folder string, uploads []Upload) ([]string, error)
	Delete(ctx context.Context, keys []string) error
	DeleteFolderIfEmpty(ctx context.Context, folder string) error
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	URL(key string) string
}

func New(ctx context.Context, cfg config.Config) (PhotoStorage, error) {
	if cfg.StorageDriver == config.StorageDriverS3 {
		return NewS3Store(ctx, cfg)
	}
	return NewLocalStore(cfg.StorageUploadDir, cfg.StoragePublicURL)
}

// objectName keeps the upload's extension and replaces its name with a uuid.
func objectName(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

func contentTypeFor(key, declared string) string {
	if declared != "" {
		return declared
	}
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(key))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ValidateKey accepts only "<folder>/<file>" keys without traversal.
func ValidateKey(key string) error {
	parts := strings.Split(key, "/")
	if len(parts) != 2 {
		return types.NewValidationError("invalid photo key")
	}
	for _, part := range parts {
		if err := ValidateFolder(part); err != nil {
			return types.NewValidationError("invalid photo key")
		}
	}
	return nil
}

func ValidateFolder(folder string) error {
	if folder == "" || folder == "." || folder == ".." ||
		strings.ContainsAny(folder, `/\`) || strings.Contains(folder, "..") {
		return types.NewValidationError("invalid folder name")
	}
	return nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

// IsExternal reports whether a stored photo reference is a full URL supplied
// by the client rather than a key owned by this storage.
func IsExternal(ref string) bool {
	return strings.Contains(ref, "://")
}

// ResolveURL returns the public URL of a stored photo reference.
func ResolveURL(store PhotoStorage, ref string) string {
	if IsExternal(ref) || store == nil {
		return ref
	}
	return store.URL(ref)
}

// OwnedKeys filters refs down to the keys this storage is responsible for.
func OwnedKeys(refs []string) []string {
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !IsExternal(ref) && ValidateKey(ref) == nil {
			keys = append(keys, ref)
		}
	}
	return keys
}
