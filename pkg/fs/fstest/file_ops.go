package fstest

import (
	"path"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fserrors "github.com/miragefs/miragefs/pkg/fs/errors"
)

func testWriteFileRoundTrip(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")

	require.NoError(t, fsys.WriteFile(file, []byte("test text")))

	data, err := fsys.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("test text"), data)

	text, err := fsys.ReadFileToString(file)
	require.NoError(t, err)
	assert.Equal(t, "test text", text)
}

func testWriteFileOverwrites(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("original, longer text")))

	require.NoError(t, fsys.WriteFile(file, []byte("new")))

	data, err := fsys.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func testWriteFileReadonly(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("original")))
	setReadonly(t, fsys, file, true)

	err := fsys.WriteFile(file, []byte("new"))

	require.Error(t, err)
	assert.True(t, fserrors.IsPermissionDenied(err))

	setReadonly(t, fsys, file, false)
	data, err := fsys.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)
}

func testWriteFileOnDir(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "dir")
	require.NoError(t, fsys.CreateDir(dir))

	assert.Error(t, fsys.WriteFile(dir, []byte("contents")))
	assert.True(t, fsys.IsDir(dir))
}

func testOverwriteFile(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("original")))

	require.NoError(t, fsys.OverwriteFile(file, []byte("new")))

	data, err := fsys.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func testOverwriteFileMissing(t *testing.T, fsys Backend, tmp string) {
	err := fsys.OverwriteFile(path.Join(tmp, "missing.txt"), []byte("new"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testOverwriteFileReadonly(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("original")))
	setReadonly(t, fsys, file, true)
	defer setReadonly(t, fsys, file, false)

	err := fsys.OverwriteFile(file, []byte("new"))

	require.Error(t, err)
	assert.True(t, fserrors.IsPermissionDenied(err))
}

func testReadFileMissing(t *testing.T, fsys Backend, tmp string) {
	_, err := fsys.ReadFile(path.Join(tmp, "missing.txt"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testReadFileToStringInvalidUTF8(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "binary.bin")
	require.NoError(t, fsys.WriteFile(file, []byte{0xff, 0xfe, 0x00, 0x80}))

	_, err := fsys.ReadFileToString(file)

	require.Error(t, err)
	assert.True(t, fserrors.IsInvalidData(err))

	// The bytes are still readable through the binary path.
	data, err := fsys.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe, 0x00, 0x80}, data)
}

func testRemoveFile(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("contents")))

	require.NoError(t, fsys.RemoveFile(file))

	assert.False(t, fsys.IsFile(file))
}

func testRemoveFileMissing(t *testing.T, fsys Backend, tmp string) {
	err := fsys.RemoveFile(path.Join(tmp, "missing.txt"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testRemoveFileOnDir(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "dir")
	require.NoError(t, fsys.CreateDir(dir))

	assert.Error(t, fsys.RemoveFile(dir))
	assert.True(t, fsys.IsDir(dir))
}

func testCopyFile(t *testing.T, fsys Backend, tmp string) {
	from := path.Join(tmp, "from.txt")
	to := path.Join(tmp, "to.txt")
	require.NoError(t, fsys.WriteFile(from, []byte("test text")))

	require.NoError(t, fsys.CopyFile(from, to))

	data, err := fsys.ReadFile(to)
	require.NoError(t, err)
	assert.Equal(t, []byte("test text"), data)

	// The source is untouched and the copies are independent.
	require.NoError(t, fsys.WriteFile(to, []byte("changed")))
	data, err = fsys.ReadFile(from)
	require.NoError(t, err)
	assert.Equal(t, []byte("test text"), data)
}

func testCopyFileOverwrites(t *testing.T, fsys Backend, tmp string) {
	from := path.Join(tmp, "from.txt")
	to := path.Join(tmp, "to.txt")
	require.NoError(t, fsys.WriteFile(from, []byte("new")))
	require.NoError(t, fsys.WriteFile(to, []byte("old contents")))

	require.NoError(t, fsys.CopyFile(from, to))

	data, err := fsys.ReadFile(to)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func testCopyFileMissingSource(t *testing.T, fsys Backend, tmp string) {
	err := fsys.CopyFile(path.Join(tmp, "missing.txt"), path.Join(tmp, "to.txt"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
	assert.False(t, fsys.IsFile(path.Join(tmp, "to.txt")))
}

func testCopyFileSourceIsDir(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "dir")
	require.NoError(t, fsys.CreateDir(dir))

	err := fsys.CopyFile(dir, path.Join(tmp, "to.txt"))

	require.Error(t, err)
	assert.True(t, fserrors.IsInvalidInput(err))
}

func testCopyFileReadonlyDest(t *testing.T, fsys Backend, tmp string) {
	from := path.Join(tmp, "from.txt")
	to := path.Join(tmp, "to.txt")
	require.NoError(t, fsys.WriteFile(from, []byte("new")))
	require.NoError(t, fsys.WriteFile(to, []byte("old")))
	setReadonly(t, fsys, to, true)
	defer setReadonly(t, fsys, to, false)

	err := fsys.CopyFile(from, to)

	require.Error(t, err)
	assert.True(t, fserrors.IsPermissionDenied(err))
}

func testRenameFile(t *testing.T, fsys Backend, tmp string) {
	from := path.Join(tmp, "from.txt")
	to := path.Join(tmp, "to.txt")
	require.NoError(t, fsys.WriteFile(from, []byte("test text")))

	require.NoError(t, fsys.Rename(from, to))

	assert.False(t, fsys.IsFile(from))
	data, err := fsys.ReadFile(to)
	require.NoError(t, err)
	assert.Equal(t, []byte("test text"), data)
}

func testRenameFileReplacesDest(t *testing.T, fsys Backend, tmp string) {
	from := path.Join(tmp, "from.txt")
	to := path.Join(tmp, "to.txt")
	require.NoError(t, fsys.WriteFile(from, []byte("new")))
	require.NoError(t, fsys.WriteFile(to, []byte("old")))

	require.NoError(t, fsys.Rename(from, to))

	assert.False(t, fsys.IsFile(from))
	data, err := fsys.ReadFile(to)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func testRenameDirCarriesDescendants(t *testing.T, fsys Backend, tmp string) {
	from := path.Join(tmp, "from")
	to := path.Join(tmp, "to")
	require.NoError(t, fsys.CreateDirAll(path.Join(from, "sub")))
	require.NoError(t, fsys.WriteFile(path.Join(from, "file.txt"), []byte("a")))
	require.NoError(t, fsys.WriteFile(path.Join(from, "sub", "deep.txt"), []byte("b")))

	require.NoError(t, fsys.Rename(from, to))

	assert.False(t, fsys.IsDir(from))
	assert.True(t, fsys.IsDir(to))
	assert.True(t, fsys.IsDir(path.Join(to, "sub")))

	data, err := fsys.ReadFile(path.Join(to, "sub", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), data)

	names := listNames(t, fsys, to)
	if diff := cmp.Diff([]string{"file.txt", "sub"}, names); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func testRenameDirToEmptyDir(t *testing.T, fsys Backend, tmp string) {
	from := path.Join(tmp, "from")
	to := path.Join(tmp, "to")
	require.NoError(t, fsys.CreateDir(from))
	require.NoError(t, fsys.WriteFile(path.Join(from, "file.txt"), []byte("x")))
	require.NoError(t, fsys.CreateDir(to))

	require.NoError(t, fsys.Rename(from, to))

	assert.False(t, fsys.IsDir(from))
	assert.True(t, fsys.IsFile(path.Join(to, "file.txt")))
}

func testRenameToSamePath(t *testing.T, fsys Backend, tmp string) {
	p := path.Join(tmp, "same.txt")
	require.NoError(t, fsys.WriteFile(p, []byte("test text")))

	require.NoError(t, fsys.Rename(p, p))

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("test text"), data)
}

func testRenameMissingSource(t *testing.T, fsys Backend, tmp string) {
	err := fsys.Rename(path.Join(tmp, "missing"), path.Join(tmp, "to"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testRenameTypeMismatch(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	dir := path.Join(tmp, "dir")
	require.NoError(t, fsys.WriteFile(file, []byte("x")))
	require.NoError(t, fsys.CreateDir(dir))

	assert.Error(t, fsys.Rename(file, dir))
	assert.Error(t, fsys.Rename(dir, file))

	// Nothing moved.
	assert.True(t, fsys.IsFile(file))
	assert.True(t, fsys.IsDir(dir))
}

func testRenameDirToNonEmptyDir(t *testing.T, fsys Backend, tmp string) {
	from := path.Join(tmp, "from")
	to := path.Join(tmp, "to")
	require.NoError(t, fsys.CreateDir(from))
	require.NoError(t, fsys.CreateDir(to))
	require.NoError(t, fsys.WriteFile(path.Join(to, "occupant.txt"), []byte("x")))

	assert.Error(t, fsys.Rename(from, to))
	assert.True(t, fsys.IsDir(from))
	assert.True(t, fsys.IsFile(path.Join(to, "occupant.txt")))
}

func testMetadataFile(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("test text")))

	md, err := fsys.Metadata(file)
	require.NoError(t, err)

	assert.True(t, md.IsFile())
	assert.False(t, md.IsDir())
	assert.Equal(t, uint64(len("test text")), md.Len())
	assert.False(t, md.Permissions().Readonly())
}

func testMetadataDir(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "dir")
	require.NoError(t, fsys.CreateDir(dir))

	md, err := fsys.Metadata(dir)
	require.NoError(t, err)

	assert.True(t, md.IsDir())
	assert.False(t, md.IsFile())
}

func testMetadataMissing(t *testing.T, fsys Backend, tmp string) {
	_, err := fsys.Metadata(path.Join(tmp, "missing"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testSetPermissionsReadonlyToggle(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	require.NoError(t, fsys.WriteFile(file, []byte("contents")))

	setReadonly(t, fsys, file, true)
	md, err := fsys.Metadata(file)
	require.NoError(t, err)
	assert.True(t, md.Permissions().Readonly())

	setReadonly(t, fsys, file, false)
	md, err = fsys.Metadata(file)
	require.NoError(t, err)
	assert.False(t, md.Permissions().Readonly())
}

func testIsDirIsFile(t *testing.T, fsys Backend, tmp string) {
	file := path.Join(tmp, "file.txt")
	dir := path.Join(tmp, "dir")
	require.NoError(t, fsys.WriteFile(file, []byte("x")))
	require.NoError(t, fsys.CreateDir(dir))

	assert.True(t, fsys.IsFile(file))
	assert.False(t, fsys.IsDir(file))
	assert.True(t, fsys.IsDir(dir))
	assert.False(t, fsys.IsFile(dir))
	assert.False(t, fsys.IsDir(path.Join(tmp, "missing")))
	assert.False(t, fsys.IsFile(path.Join(tmp, "missing")))
}
