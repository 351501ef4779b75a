package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSaveOpenRemove(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	ref, err := store.Save(ctx, "../../etc/Photo.JPG", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".jpg"))
	assert.Equal(t, filepath.Base(ref), ref)

	f, err := store.Open(ref)
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))

	require.NoError(t, store.Remove(ctx, ref))
	_, err = os.Stat(filepath.Join(store.Dir(), ref))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Remove(ctx, ref), "removing twice is harmless")
	assert.ErrorIs(t, store.Remove(ctx, "../secret"), ErrInvalidRef)
	_, err = store.Open("../secret")
	assert.ErrorIs(t, err, ErrInvalidRef)
}
