package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hotelparadise/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{key: "HTL-3-305/photo.jpg", valid: true},
		{key: "HTL-3-305", valid: false},
		{key: "../etc/passwd", valid: false},
		{key: "HTL-3-305/../../secret", valid: false},
		{key: "HTL-3-305/..", valid: false},
		{key: "/photo.jpg", valid: false},
		{key: `HTL-3-305\photo.jpg`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, types.ErrValidation)
			}
		})
	}
}

func TestLocalStore_Lifecycle(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/api/incidents/images/")
	require.NoError(t, err)

	ctx := context.Background()
	keys, err := store.Save(ctx, "HTL-3-305", []Upload{
		{Filename: "sink.JPG", Body: strings.NewReader("first")},
		{Filename: "floor.png", Body: strings.NewReader("second")},
	})
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.True(t, strings.HasPrefix(keys[0], "HTL-3-305/"))
	assert.True(t, strings.HasSuffix(keys[0], ".jpg"))
	assert.Equal(t, "/api/incidents/images/"+keys[1], store.URL(keys[1]))

	reader, contentType, err := store.Open(ctx, keys[0])
	require.NoError(t, err)
	content, err := io.ReadAll(reader)
	require.NoError(t, reader.Close())
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))
	assert.Equal(t, "image/jpeg", contentType)

	require.NoError(t, store.DeleteFolderIfEmpty(ctx, "HTL-3-305"))
	assert.DirExists(t, filepath.Join(root, "HTL-3-305"))

	require.NoError(t, store.Delete(ctx, keys))
	require.NoError(t, store.Delete(ctx, keys))
	require.NoError(t, store.DeleteFolderIfEmpty(ctx, "HTL-3-305"))

	_, err = os.Stat(filepath.Join(root, "HTL-3-305"))
	assert.True(t, os.IsNotExist(err))

	_, _, err = store.Open(ctx, keys[0])
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/images")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../outside", []Upload{
		{Filename: "x.jpg", Body: strings.NewReader("x")},
	})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, _, err = store.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, types.ErrValidation)
}
