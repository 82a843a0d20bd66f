package fakefs

import (
	"io"
	"math"

	"github.com/miragefs/miragefs/pkg/fs"
	fserrors "github.com/miragefs/miragefs/pkg/fs/errors"
)

// accessMode is fixed at open time: a handle reads or writes, never both.
type accessMode int

const (
	accessRead accessMode = iota
	accessWrite
)

// File is an open handle on a fake file. It holds clones of the file's
// shared cells rather than the path that produced it, so it performs no
// registry locking after creation and stays valid after the path is
// deleted, renamed, overwritten or has its ancestry restructured. Handles
// sharing one cell observe each other's mutations.
type File struct {
	contents *sharedBytes
	mode     *sharedMode
	pos      int
	access   accessMode
}

var _ fs.File = (*File)(nil)

func newFile(n *node, access accessMode) *File {
	return &File{
		contents: n.contents,
		mode:     n.mode,
		access:   access,
	}
}

func (f *File) verifyAccess(access accessMode) error {
	if f.access != access {
		if access == accessRead {
			return fserrors.NewUnsupported("file handle is write-only")
		}
		return fserrors.NewUnsupported("file handle is read-only")
	}
	return nil
}

// Read copies bytes from the cursor onward into p. Reading at or past the
// end of content reports io.EOF rather than a failure; the cursor may point
// beyond the end when the file shrank underneath the handle.
func (f *File) Read(p []byte) (int, error) {
	if err := f.verifyAccess(accessRead); err != nil {
		return 0, err
	}
	n := f.contents.readAt(p, f.pos)
	f.pos += n
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write writes all of p at the cursor. A cursor past the current end
// zero-extends the content first; overlapping bytes are overwritten in
// place and the remainder appended. Partial writes are not modeled: the
// whole buffer succeeds or the call fails.
func (f *File) Write(p []byte) (int, error) {
	if err := f.verifyAccess(accessWrite); err != nil {
		return 0, err
	}
	f.contents.writeAt(p, f.pos)
	f.pos += len(p)
	return len(p), nil
}

// Seek moves the cursor. A negative target fails with InvalidInput and
// leaves the cursor unmodified; seeking past the content length is legal
// and does not extend the file by itself.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = int64(f.pos) + offset
	case io.SeekEnd:
		target = int64(f.contents.length()) + offset
	default:
		return 0, fserrors.NewInvalidInput("invalid seek whence")
	}
	if target < 0 {
		return 0, fserrors.NewInvalidInput("seek before start of file")
	}
	f.pos = int(target)
	return target, nil
}

// Metadata snapshots the current length and permissions. The snapshot is
// detached and never reflects later mutations.
func (f *File) Metadata() (fs.Metadata, error) {
	return fs.NewMetadata(uint64(f.contents.length()), false, fs.FromMode(f.mode.get())), nil
}

// SetLen truncates or zero-extends the content to exactly size bytes. The
// cursor does not move.
func (f *File) SetLen(size uint64) error {
	if err := f.verifyAccess(accessWrite); err != nil {
		return err
	}
	if size > math.MaxInt {
		return fserrors.NewInvalidInput("length exceeds the addressable size")
	}
	f.contents.resize(int(size))
	return nil
}

// SyncAll is a no-op: there is no backing medium to flush.
func (f *File) SyncAll() error {
	return nil
}

// SyncData is a no-op: there is no backing medium to flush.
func (f *File) SyncData() error {
	return nil
}

// Close releases the handle's reference to the shared cells. It never
// fails.
func (f *File) Close() error {
	return nil
}
