package fstest

import (
	"io"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miragefs/miragefs/pkg/fs"
	fserrors "github.com/miragefs/miragefs/pkg/fs/errors"
)

// writeSeeded creates a file with the given content and returns its path.
func writeSeeded(t *testing.T, fsys Backend, tmp, name, content string) string {
	t.Helper()
	p := path.Join(tmp, name)
	require.NoError(t, fsys.WriteFile(p, []byte(content)))
	return p
}

func readAll(t *testing.T, f fs.File) string {
	t.Helper()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

func testOpenMissing(t *testing.T, fsys Backend, tmp string) {
	_, err := fsys.Open(path.Join(tmp, "missing.txt"))

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testOpenDir(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "dir")
	require.NoError(t, fsys.CreateDir(dir))

	f, err := fsys.Open(dir)
	if err == nil {
		// Some kernels hand out a descriptor for a directory; reading
		// from it must still fail.
		defer f.Close()
		_, err = io.ReadAll(f)
	}
	assert.Error(t, err)
}

func testOpenReadsContent(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "test text", readAll(t, f))

	// The cursor is exhausted; the next read reports EOF.
	n, err := f.Read(make([]byte, 8))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func testOpenIndependentCursors(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	first, err := fsys.Open(p)
	require.NoError(t, err)
	defer first.Close()
	second, err := fsys.Open(p)
	require.NoError(t, err)
	defer second.Close()

	buf := make([]byte, 5)
	_, err = io.ReadFull(first, buf)
	require.NoError(t, err)
	assert.Equal(t, "test ", string(buf))

	// The second handle still starts at the beginning.
	assert.Equal(t, "test text", readAll(t, second))
	assert.Equal(t, "text", readAll(t, first))
}

func testOpenChunkedReads(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 4)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "test", string(buf[:n]))

	n, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, " tex", string(buf[:n]))

	n, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "t", string(buf[:n]))
}

func testReadPastEOF(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Seek(5, io.SeekEnd)
	require.NoError(t, err)

	assert.Equal(t, "", readAll(t, f))
}

func testHandleSurvivesDelete(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, fsys.RemoveFile(p))
	assert.False(t, fsys.IsFile(p))

	// The open handle keeps the bytes alive after the path is gone.
	assert.Equal(t, "test text", readAll(t, f))
}

func testHandleSurvivesRecreate(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "original text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, fsys.RemoveFile(p))
	require.NoError(t, fsys.WriteFile(p, []byte("new file at the same path")))

	// Removing and recreating minted a new file; the handle still reads
	// the one it was opened on.
	assert.Equal(t, "original text", readAll(t, f))
}

func testHandleSurvivesParentDirRemoval(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "dir")
	require.NoError(t, fsys.CreateDir(dir))
	p := writeSeeded(t, fsys, dir, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, fsys.RemoveDirAll(dir))
	assert.False(t, fsys.IsDir(dir))

	assert.Equal(t, "test text", readAll(t, f))
}

func testHandleSurvivesRename(t *testing.T, fsys Backend, tmp string) {
	from := writeSeeded(t, fsys, tmp, "from.txt", "test text")
	to := path.Join(tmp, "to.txt")

	f, err := fsys.Open(from)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, fsys.Rename(from, to))

	assert.Equal(t, "test text", readAll(t, f))
}

func testHandleSeesInPlaceUpdate(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "original text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	// Rewriting the path without removing it updates the same file, so
	// the open handle observes the new bytes.
	require.NoError(t, fsys.WriteFile(p, []byte("updated content")))

	assert.Equal(t, "updated content", readAll(t, f))
}

func testHandleToleratesShrink(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "a long original body")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 7)
	_, err = io.ReadFull(f, buf)
	require.NoError(t, err)
	assert.Equal(t, "a long ", string(buf))

	// The file shrinks below the handle's cursor; further reads just
	// report end of file instead of failing.
	require.NoError(t, fsys.WriteFile(p, []byte("tiny")))

	assert.Equal(t, "", readAll(t, f))
}

func testSeekFromStart(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	pos, err := f.Seek(5, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)
	assert.Equal(t, "text", readAll(t, f))
}

func testSeekFromCurrent(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	_, err = io.ReadFull(f, make([]byte, 5))
	require.NoError(t, err)

	pos, err := f.Seek(-4, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pos)
	assert.Equal(t, "est text", readAll(t, f))
}

func testSeekFromEnd(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	pos, err := f.Seek(-4, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)
	assert.Equal(t, "text", readAll(t, f))
}

func testSeekNegativeFails(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	_, err = io.ReadFull(f, make([]byte, 5))
	require.NoError(t, err)

	_, err = f.Seek(-55, io.SeekCurrent)
	require.Error(t, err)

	// A failed seek leaves the cursor where it was.
	assert.Equal(t, "text", readAll(t, f))
}

func testSeekBeyondEOFThenWrite(t *testing.T, fsys Backend, tmp string) {
	p := path.Join(tmp, "file.txt")

	f, err := fsys.Create(p)
	require.NoError(t, err)
	_, err = f.Write([]byte("test"))
	require.NoError(t, err)

	pos, err := f.Seek(9, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(9), pos)

	_, err = f.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// The gap between the old end and the write is zero-filled.
	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("test\x00\x00\x00\x00\x00hi"), data)
}

func testWriteOverlapThenAppend(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true})
	require.NoError(t, err)

	_, err = f.Seek(5, io.SeekStart)
	require.NoError(t, err)
	_, err = f.Write([]byte("overwrite and extend"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("test overwrite and extend"), data)
}

func testWriterIndependentCursors(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "0000000000")

	first, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true})
	require.NoError(t, err)
	second, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true})
	require.NoError(t, err)

	_, err = first.Write([]byte("aa"))
	require.NoError(t, err)
	_, err = second.Seek(5, io.SeekStart)
	require.NoError(t, err)
	_, err = second.Write([]byte("bb"))
	require.NoError(t, err)
	require.NoError(t, first.Close())
	require.NoError(t, second.Close())

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("aa000bb000"), data)
}

func testSetLenTruncates(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true})
	require.NoError(t, err)
	require.NoError(t, f.SetLen(4))
	require.NoError(t, f.Close())

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("test"), data)
}

func testSetLenExtends(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test")

	f, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true})
	require.NoError(t, err)
	require.NoError(t, f.SetLen(7))
	require.NoError(t, f.Close())

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("test\x00\x00\x00"), data)
}

func testSetLenKeepsCursor(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true})
	require.NoError(t, err)

	_, err = f.Seek(5, io.SeekStart)
	require.NoError(t, err)
	require.NoError(t, f.SetLen(2))

	// Writing from the old cursor position zero-fills the gap.
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("te\x00\x00\x00x"), data)
}

func testHandleMetadataDetached(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	md, err := f.Metadata()
	require.NoError(t, err)
	require.Equal(t, uint64(len("test text")), md.Len())

	// Growing the file does not mutate the snapshot already taken.
	require.NoError(t, fsys.WriteFile(p, []byte("much longer replacement text")))
	assert.Equal(t, uint64(len("test text")), md.Len())
}

func testCreateTruncates(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "previous contents")

	f, err := fsys.Create(p)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func testCreateReadonly(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "contents")
	setReadonly(t, fsys, p, true)
	defer setReadonly(t, fsys, p, false)

	_, err := fsys.Create(p)

	require.Error(t, err)
	assert.True(t, fserrors.IsPermissionDenied(err))
}

func testCreateOnDir(t *testing.T, fsys Backend, tmp string) {
	dir := path.Join(tmp, "dir")
	require.NoError(t, fsys.CreateDir(dir))

	_, err := fsys.Create(dir)

	assert.Error(t, err)
	assert.True(t, fsys.IsDir(dir))
}

func testOpenWriteOnlyPreservesContent(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "test text")

	f, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true})
	require.NoError(t, err)

	// Unlike Create, a plain write handle keeps the existing bytes and
	// starts at the beginning.
	_, err = f.Write([]byte("best"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("best text"), data)
}

func testOpenWriteOnlyMissing(t *testing.T, fsys Backend, tmp string) {
	p := path.Join(tmp, "missing.txt")

	_, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true})

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
	// The failed open does not create the file as a side effect.
	assert.False(t, fsys.IsFile(p))
}

func testCreateNewFailsIfExists(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "contents")

	_, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true, CreateNew: true})

	require.Error(t, err)
	assert.True(t, fserrors.IsAlreadyExists(err))

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("contents"), data)
}

func testTruncateWriteRequiresExistence(t *testing.T, fsys Backend, tmp string) {
	p := path.Join(tmp, "missing.txt")

	_, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true, Truncate: true})

	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}

func testReadOnWriteHandle(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "contents")

	f, err := fsys.OpenWithOptions(p, fs.OpenOptions{Write: true})
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Read(make([]byte, 4))
	assert.Error(t, err)
}

func testWriteOnReadHandle(t *testing.T, fsys Backend, tmp string) {
	p := writeSeeded(t, fsys, tmp, "file.txt", "contents")

	f, err := fsys.Open(p)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("nope"))
	assert.Error(t, err)

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("contents"), data)
}

func testSyncIsHarmless(t *testing.T, fsys Backend, tmp string) {
	p := path.Join(tmp, "file.txt")

	f, err := fsys.Create(p)
	require.NoError(t, err)
	_, err = f.Write([]byte("durable"))
	require.NoError(t, err)

	assert.NoError(t, f.SyncAll())
	assert.NoError(t, f.SyncData())
	require.NoError(t, f.Close())

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("durable"), data)
}

func testTempDirCreatesAndCloses(t *testing.T, fsys Backend, tmp string) {
	td, err := fsys.TempDir("suite")
	require.NoError(t, err)

	assert.True(t, fsys.IsDir(td.Path()))
	require.NoError(t, fsys.WriteFile(path.Join(td.Path(), "scratch.txt"), []byte("x")))

	require.NoError(t, td.Close())
	assert.False(t, fsys.IsDir(td.Path()))
}

func testTempDirUnique(t *testing.T, fsys Backend, tmp string) {
	first, err := fsys.TempDir("suite")
	require.NoError(t, err)
	defer first.Close()
	second, err := fsys.TempDir("suite")
	require.NoError(t, err)
	defer second.Close()

	assert.NotEqual(t, first.Path(), second.Path())
}
