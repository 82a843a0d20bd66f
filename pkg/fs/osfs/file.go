package osfs

import (
	"os"

	"github.com/miragefs/miragefs/pkg/fs"
)

// File wraps an *os.File behind the shared handle interface.
type File struct {
	f *os.File
}

var _ fs.File = (*File)(nil)

func (f *File) Read(p []byte) (int, error) {
	return f.f.Read(p)
}

func (f *File) Write(p []byte) (int, error) {
	return f.f.Write(p)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.f.Seek(offset, whence)
}

func (f *File) Close() error {
	return f.f.Close()
}

// Metadata stats the open file.
func (f *File) Metadata() (fs.Metadata, error) {
	info, err := f.f.Stat()
	if err != nil {
		return fs.Metadata{}, err
	}
	return metadataFromInfo(info), nil
}

// SetLen truncates or extends the file to exactly size bytes.
func (f *File) SetLen(size uint64) error {
	return f.f.Truncate(int64(size))
}

// SyncAll flushes file contents and metadata to stable storage.
func (f *File) SyncAll() error {
	return f.f.Sync()
}

// SyncData flushes file contents to stable storage.
func (f *File) SyncData() error {
	return f.f.Sync()
}
