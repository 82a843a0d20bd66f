package fs

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionsReadonly(t *testing.T) {
	perm := FromMode(0o644)
	assert.False(t, perm.Readonly())

	perm.SetReadonly(true)
	assert.True(t, perm.Readonly())
	assert.Equal(t, uint32(0o444), perm.Mode())

	perm.SetReadonly(false)
	assert.False(t, perm.Readonly())
	assert.Equal(t, uint32(0o666), perm.Mode())
}

func TestPermissionsReadonlyNeedsEveryWriteBit(t *testing.T) {
	// A single remaining write bit still counts as writable.
	assert.False(t, FromMode(0o200).Readonly())
	assert.False(t, FromMode(0o644).Readonly())
	assert.True(t, FromMode(0o444).Readonly())
	assert.True(t, FromMode(0o555).Readonly())
}

func TestMetadataAccessors(t *testing.T) {
	md := NewMetadata(9, false, FromMode(0o644))
	assert.True(t, md.IsFile())
	assert.False(t, md.IsDir())
	assert.Equal(t, uint64(9), md.Len())
	assert.Equal(t, uint32(0o644), md.Permissions().Mode())

	dir := NewMetadata(4096, true, FromMode(0o755))
	assert.True(t, dir.IsDir())
	assert.False(t, dir.IsFile())
}

func TestDirEntryPath(t *testing.T) {
	entry := NewDirEntry("/parent", "child.txt")
	assert.Equal(t, "child.txt", entry.FileName())
	assert.Equal(t, "/parent/child.txt", entry.Path())

	relative := NewDirEntry("parent", "child.txt")
	assert.Equal(t, "parent/child.txt", relative.Path())
}

func TestReadDirDrains(t *testing.T) {
	listing := NewReadDir([]DirEntry{
		NewDirEntry("/d", "a.txt"),
		NewDirEntry("/d", "b.txt"),
	})

	first, err := listing.Next()
	require.NoError(t, err)
	assert.Equal(t, "a.txt", first.FileName())

	second, err := listing.Next()
	require.NoError(t, err)
	assert.Equal(t, "b.txt", second.FileName())

	_, err = listing.Next()
	assert.ErrorIs(t, err, io.EOF)
	// The listing stays exhausted.
	_, err = listing.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadDirEmpty(t *testing.T) {
	listing := NewReadDir(nil)
	_, err := listing.Next()
	assert.ErrorIs(t, err, io.EOF)
}
