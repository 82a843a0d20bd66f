package fs

import "io"

// File is an open file handle supporting byte-level I/O.
//
// A handle is bound to the file's contents at open time, not to the path
// that produced it: registry-level mutations to that path (removal, rename,
// replacement) never invalidate the handle. A handle is opened for reading
// or for writing, never both; operations in the opposite access mode fail
// with an Unsupported error.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Metadata snapshots the file's current length and kind. The snapshot
	// is detached: it never reflects later mutations.
	Metadata() (Metadata, error)

	// SetLen truncates or zero-extends the file to exactly size bytes
	// without moving the cursor. Requires write access.
	SetLen(size uint64) error

	// SyncAll flushes file contents and metadata to the backing medium.
	SyncAll() error

	// SyncData flushes file contents to the backing medium, possibly
	// skipping metadata.
	SyncData() error
}

// Metadata is a point-in-time snapshot of a node's length, kind and
// permissions.
type Metadata struct {
	length uint64
	dir    bool
	perm   Permissions
}

// NewMetadata builds a metadata snapshot. It is exported for filesystem
// implementations; callers obtain snapshots from Metadata methods.
func NewMetadata(length uint64, dir bool, perm Permissions) Metadata {
	return Metadata{length: length, dir: dir, perm: perm}
}

// IsDir reports whether the snapshot describes a directory.
func (m Metadata) IsDir() bool {
	return m.dir
}

// IsFile reports whether the snapshot describes a regular file.
func (m Metadata) IsFile() bool {
	return !m.dir
}

// Len returns the size in bytes recorded at snapshot time.
func (m Metadata) Len() uint64 {
	return m.length
}

// Permissions returns the permissions recorded at snapshot time.
func (m Metadata) Permissions() Permissions {
	return m.perm
}
