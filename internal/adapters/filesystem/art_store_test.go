package filesystem

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/muse/internal/ports/secondary"
)

func TestArtStore_WriteOnce(t *testing.T) {
	store, err := NewArtStore(t.TempDir(), "")
	require.NoError(t, err)
	ctx := context.Background()

	key := "lucas-darkthorn/20240101120000abcdef0123.png"
	require.NoError(t, store.Write(ctx, key, []byte("first")))

	err = store.Write(ctx, key, []byte("second"))
	assert.ErrorIs(t, err, secondary.ErrAlreadyExists)

	data, err := store.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)
}

func TestArtStore_ReadMissing(t *testing.T) {
	store, err := NewArtStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "lucas-darkthorn/nothing.png")
	assert.ErrorIs(t, err, secondary.ErrArtworkMissing)
}

func TestArtStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewArtStore(t.TempDir(), "")
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../outside.png", "/abs.png", "a/../../b.png", "a//b.png"} {
		assert.Error(t, store.Write(ctx, key, []byte("x")), "key %q", key)
	}
}

func TestArtStore_Location(t *testing.T) {
	root := t.TempDir()
	local, err := NewArtStore(root, "")
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(root, "p", "x.png")), local.Location("p/x.png"))

	remote, err := NewArtStore(root, "https://cdn.example.com/images/")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/p/x.png", remote.Location("p/x.png"))

	// Location does not require the blob to exist.
	_, err = remote.Read(context.Background(), "p/x.png")
	assert.ErrorIs(t, err, secondary.ErrArtworkMissing)
}
