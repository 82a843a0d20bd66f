package fakefs_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miragefs/miragefs/pkg/fs/fakefs"
)

func TestTempDirLivesUnderTmp(t *testing.T) {
	fsys := fakefs.New()

	td, err := fsys.TempDir("scratch")
	require.NoError(t, err)
	defer td.Close()

	assert.True(t, strings.HasPrefix(td.Path(), "/tmp/scratch-"))
	assert.True(t, fsys.IsDir(td.Path()))
	assert.True(t, fsys.IsDir("/tmp"))
}

func TestTempDirCloseRemovesContents(t *testing.T) {
	fsys := fakefs.New()

	td, err := fsys.TempDir("scratch")
	require.NoError(t, err)
	require.NoError(t, fsys.CreateDirAll(td.Path()+"/nested"))
	require.NoError(t, fsys.WriteFile(td.Path()+"/nested/file.txt", []byte("x")))

	require.NoError(t, td.Close())

	assert.False(t, fsys.IsDir(td.Path()))
	// The shared base directory stays for the next caller.
	assert.True(t, fsys.IsDir("/tmp"))
}
