package fakefs

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fserrors "github.com/miragefs/miragefs/pkg/fs/errors"
)

// ============================================================================
// Shared Cells
// ============================================================================

func TestSharedBytesCopiesInput(t *testing.T) {
	source := []byte("original")
	cell := newSharedBytes(source)

	source[0] = 'X'

	assert.Equal(t, []byte("original"), cell.snapshot())
}

func TestSharedBytesSnapshotIsDetached(t *testing.T) {
	cell := newSharedBytes([]byte("original"))

	snap := cell.snapshot()
	snap[0] = 'X'

	assert.Equal(t, []byte("original"), cell.snapshot())
}

func TestSharedBytesReadAt(t *testing.T) {
	cell := newSharedBytes([]byte("test text"))
	buf := make([]byte, 4)

	assert.Equal(t, 4, cell.readAt(buf, 0))
	assert.Equal(t, "test", string(buf))

	assert.Equal(t, 4, cell.readAt(buf, 5))
	assert.Equal(t, "text", string(buf))

	// Reads at or past the end transfer nothing.
	assert.Equal(t, 1, cell.readAt(buf, 8))
	assert.Equal(t, 0, cell.readAt(buf, 9))
	assert.Equal(t, 0, cell.readAt(buf, 100))
}

func TestSharedBytesWriteAt(t *testing.T) {
	cell := newSharedBytes([]byte("test text"))

	// Overlap then extend past the end.
	cell.writeAt([]byte("best of texts"), 0)
	assert.Equal(t, []byte("best of texts"), cell.snapshot())

	// A write past the end zero-fills the gap.
	cell.writeAt([]byte("!!"), 15)
	assert.Equal(t, []byte("best of texts\x00\x00!!"), cell.snapshot())
}

func TestSharedBytesResize(t *testing.T) {
	cell := newSharedBytes([]byte("test text"))

	cell.resize(4)
	assert.Equal(t, []byte("test"), cell.snapshot())

	cell.resize(6)
	assert.Equal(t, []byte("test\x00\x00"), cell.snapshot())
}

func TestSharedModeMasks(t *testing.T) {
	mode := newSharedMode(0o644)
	assert.True(t, mode.canRead())
	assert.True(t, mode.canWrite())

	mode.setReadonly(true)
	assert.Equal(t, uint32(0o444), mode.get())
	assert.True(t, mode.canRead())
	assert.False(t, mode.canWrite())

	mode.setReadonly(false)
	assert.True(t, mode.canWrite())

	mode.set(0o200)
	assert.False(t, mode.canRead())
	assert.True(t, mode.canWrite())
}

// ============================================================================
// Handles
// ============================================================================

func TestFileSharesCellWithNode(t *testing.T) {
	n := newFileNode([]byte("before"))
	f := newFile(n, accessRead)

	// Handle reads observe in-place cell mutations.
	n.contents.replace([]byte("after"))

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), data)
}

func TestFileReadHonorsAccessMode(t *testing.T) {
	n := newFileNode([]byte("contents"))

	writer := newFile(n, accessWrite)
	_, err := writer.Read(make([]byte, 4))
	require.Error(t, err)
	assert.True(t, fserrors.IsUnsupported(err))

	reader := newFile(n, accessRead)
	_, err = reader.Write([]byte("nope"))
	require.Error(t, err)
	assert.True(t, fserrors.IsUnsupported(err))
}

func TestFileSeekWhence(t *testing.T) {
	n := newFileNode([]byte("test text"))
	f := newFile(n, accessRead)

	pos, err := f.Seek(4, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	pos, err = f.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	pos, err = f.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(7), pos)

	// Seeking past the end is allowed without growing the file.
	pos, err = f.Seek(100, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(100), pos)
	assert.Equal(t, 9, n.contents.length())
}

func TestFileSeekNegativeLeavesCursor(t *testing.T) {
	n := newFileNode([]byte("test text"))
	f := newFile(n, accessRead)

	_, err := f.Seek(5, io.SeekStart)
	require.NoError(t, err)

	_, err = f.Seek(-55, io.SeekCurrent)
	require.Error(t, err)
	assert.True(t, fserrors.IsInvalidInput(err))

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, []byte("text"), data)
}

func TestFileWriteAdvancesCursor(t *testing.T) {
	n := newFileNode(nil)
	f := newFile(n, accessWrite)

	count, err := f.Write([]byte("test"))
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	count, err = f.Write([]byte(" text"))
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	assert.Equal(t, []byte("test text"), n.contents.snapshot())
}

func TestFileSetLenLeavesCursor(t *testing.T) {
	n := newFileNode([]byte("test text"))
	f := newFile(n, accessWrite)

	_, err := f.Seek(9, io.SeekStart)
	require.NoError(t, err)

	require.NoError(t, f.SetLen(4))

	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(9), pos)
	assert.Equal(t, []byte("test"), n.contents.snapshot())
}

func TestFileSetLenRejectsHugeSize(t *testing.T) {
	n := newFileNode([]byte("test"))
	f := newFile(n, accessWrite)

	err := f.SetLen(math.MaxUint64)

	require.Error(t, err)
	assert.True(t, fserrors.IsInvalidInput(err))
	assert.Equal(t, []byte("test"), n.contents.snapshot())
}

func TestFileMetadataSnapshot(t *testing.T) {
	n := newFileNode([]byte("test text"))
	f := newFile(n, accessRead)

	md, err := f.Metadata()
	require.NoError(t, err)
	assert.True(t, md.IsFile())
	assert.Equal(t, uint64(9), md.Len())

	n.contents.replace([]byte("much longer replacement"))
	assert.Equal(t, uint64(9), md.Len())
}
