package fstest

import (
	"path"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miragefs/miragefs/pkg/fs"
	fserrors "github.com/miragefs/miragefs/pkg/fs/errors"
)

// setReadonly flips the readonly bit on an existing node, preserving the
// rest of its permission word.
func setReadonly(t *testing.T, fsys Backend, p string, readonly bool) {
	t.Helper()
	md, err := fsys.Metadata(p)
	require.NoError(t, err)
	perm := md.Permissions()
	perm.SetReadonly(readonly)
	require.NoError(t, fsys.SetPermissions(p, perm))
}

// listNames drains a directory listing into sorted entry names.
func listNames(t *testing.T, fsys Backend, p string) []string {
	t.Helper()
	listing, err := fsys.ReadDir(p)
	require.NoError(t, err)
	var names []string
	for {
		entry, err := listing.Next()
		if err != nil {
			break
		}
		names = append(names, entry.FileName())
	}
	return names
}

func testCreateDir(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "new")
	require.False(t, fsys.IsDir(dir))

	require.NoError(t, fsys.CreateDir(dir))

	assert.True(t, fsys.IsDir(dir))
	assert.False(t, fsys.IsFile(dir))
}

func testCreateDirAlreadyExists(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "new")
	require.NoError(t, fsys.CreateDir(dir))

	err := fsys.CreateDir(dir)

	require.Error(t, err)
	assert.True(t, fserrors.IsAlreadyExists(err))
}

func testCreateDirMissingParent(t *testing.T, fsys Backend, tmp string) {
	err := fsys.CreateDir(path.Join(tmp, "missing", "new"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testCreateDirAll(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "a", "b", "c")

	require.NoError(t, fsys.CreateDirAll(dir))

	assert.True(t, fsys.IsDir(path.Join(tmp, "a")))
	assert.True(t, fsys.IsDir(path.Join(tmp, "a", "b")))
	assert.True(t, fsys.IsDir(dir))

	// Re-running over an existing chain is not an error.
	assert.NoError(t, fsys.CreateDirAll(dir))
}

func testRemoveDir(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "doomed")
	require.NoError(t, fsys.CreateDir(dir))

	require.NoError(t, fsys.RemoveDir(dir))

	assert.False(t, fsys.IsDir(dir))
	assert.True(t, fsys.IsDir(tmp))
}

func testRemoveDirMissing(t *testing.T, fsys Backend, tmp string) {
	err := fsys.RemoveDir(path.Join(tmp, "missing"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testRemoveDirOfFile(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("contents")))

	assert.Error(t, fsys.RemoveDir(file))
	assert.True(t, fsys.IsFile(file))
}

func testRemoveDirNotEmpty(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "parent")
	require.NoError(t, fsys.CreateDir(dir))
	require.NoError(t, fsys.WriteFile(path.Join(dir, "child.txt"), []byte("x")))

	assert.Error(t, fsys.RemoveDir(dir))
	assert.True(t, fsys.IsDir(dir))
	assert.True(t, fsys.IsFile(path.Join(dir, "child.txt")))
}

func testRemoveDirAll(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "tree")
	require.NoError(t, fsys.CreateDirAll(path.Join(dir, "a", "b")))
	require.NoError(t, fsys.WriteFile(path.Join(dir, "a", "file.txt"), []byte("x")))
	require.NoError(t, fsys.WriteFile(path.Join(dir, "a", "b", "deep.txt"), []byte("y")))

	require.NoError(t, fsys.RemoveDirAll(dir))

	assert.False(t, fsys.IsDir(dir))
	assert.True(t, fsys.IsDir(tmp))
}

func testRemoveDirAllOfFile(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("contents")))

	assert.Error(t, fsys.RemoveDirAll(file))
	assert.True(t, fsys.IsFile(file))
}

func testRemoveDirAllUnreadableDescendant(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "tree")
	locked := path.Join(dir, "locked")
	require.NoError(t, fsys.CreateDirAll(locked))
	require.NoError(t, fsys.WriteFile(path.Join(locked, "inner.txt"), []byte("x")))

	// Drop the read bit so the locked directory cannot be listed.
	require.NoError(t, fsys.SetPermissions(locked, fs.FromMode(0o311)))
	// Restore it on the way out so the temp dir can be cleaned up.
	defer func() {
		require.NoError(t, fsys.SetPermissions(locked, fs.FromMode(0o755)))
	}()

	err := fsys.RemoveDirAll(dir)

	require.Error(t, err)
	assert.True(t, fserrors.IsPermissionDenied(err))
}

func testReadDir(t *testing.T, fsys Backend, tmp string) {
	require.NoError(t, fsys.CreateDir(path.Join(tmp, "dir")))
	require.NoError(t, fsys.WriteFile(path.Join(tmp, "alpha.txt"), []byte("a")))
	require.NoError(t, fsys.WriteFile(path.Join(tmp, "beta.txt"), []byte("b")))
	// Children of children never show up in a listing.
	require.NoError(t, fsys.WriteFile(path.Join(tmp, "dir", "nested.txt"), []byte("n")))

	listing, err := fsys.ReadDir(tmp)
	require.NoError(t, err)

	var names, paths []string
	for {
		entry, err := listing.Next()
		if err != nil {
			break
		}
		names = append(names, entry.FileName())
		paths = append(paths, entry.Path())
	}

	want := []string{"alpha.txt", "beta.txt", "dir"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
	wantPaths := []string{
		path.Join(tmp, "alpha.txt"),
		path.Join(tmp, "beta.txt"),
		path.Join(tmp, "dir"),
	}
	if diff := cmp.Diff(wantPaths, paths); diff != "" {
		t.Errorf("entry path mismatch (-want +got):\n%s", diff)
	}
}

func testReadDirMissing(t *testing.T, fsys Backend, tmp string) {
	_, err := fsys.ReadDir(path.Join(tmp, "missing"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testReadDirOfFile(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("contents")))

	_, err := fsys.ReadDir(file)

	assert.Error(t, err)
}
