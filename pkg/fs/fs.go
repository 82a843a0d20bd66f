// Package fs defines the uniform file-system abstraction implemented by the
// in-memory backend (fakefs) and the operating-system backend (osfs).
//
// All paths are slash-separated. Relative paths are resolved against the
// working directory owned by the filesystem instance, not the process:
// every instance carries its own working directory, so multiple independent
// filesystems can coexist in one process.
package fs

// FileSystem provides standard file-system operations.
//
// The in-memory implementation reproduces operating-system semantics that
// are easy to get wrong, in particular that an already-open handle keeps
// observing and mutating the file's bytes after the file has been deleted,
// renamed, overwritten, or had its ancestry restructured.
type FileSystem interface {
	// Open opens the file at path in read-only mode.
	Open(path string) (File, error)

	// Create opens the file at path in write-only mode, creating it if it
	// does not exist and truncating it if it does.
	Create(path string) (File, error)

	// OpenWithOptions opens path with an explicit option combination. Only
	// the combinations documented on OpenOptions are recognized; any other
	// combination fails with an InvalidInput error.
	OpenWithOptions(path string, options OpenOptions) (File, error)

	// SetPermissions changes the permissions of the file or directory at
	// path.
	SetPermissions(path string, perm Permissions) error

	// Metadata returns a detached metadata snapshot for the node at path.
	Metadata(path string) (Metadata, error)

	// CurrentDir returns the working directory of this instance.
	CurrentDir() (string, error)

	// SetCurrentDir updates the working directory of this instance.
	SetCurrentDir(path string) error

	// IsDir reports whether path exists and is a directory. It never fails;
	// an absent path reports false.
	IsDir(path string) bool

	// IsFile reports whether path exists and is a regular file. It never
	// fails; an absent path reports false.
	IsFile(path string) bool

	// CreateDir creates a new, empty directory at path.
	CreateDir(path string) error

	// CreateDirAll creates a directory at path along with any missing
	// ancestors, tolerating components that already exist as directories.
	CreateDirAll(path string) error

	// RemoveDir removes the empty directory at path. Removal is strictly
	// non-recursive: a directory with any descendant fails.
	RemoveDir(path string) error

	// RemoveDirAll removes the directory at path and all of its
	// descendants. The operation is all-or-nothing: it fails before
	// deleting anything if any descendant is unreadable.
	RemoveDirAll(path string) error

	// ReadDir returns the immediate children of the directory at path as a
	// finite, non-restartable sequence.
	ReadDir(path string) (*ReadDir, error)

	// RemoveFile removes the file at path. Open handles on the file keep
	// their access to its bytes.
	RemoveFile(path string) error

	// CopyFile copies the full contents of the file at from to the path to.
	CopyFile(from, to string) error

	// Rename renames a file or directory. If both from and to are files,
	// to is replaced. Renaming a directory carries all of its descendants.
	Rename(from, to string) error

	// Canonicalize resolves path to its normalized, existence-verified
	// absolute form.
	Canonicalize(path string) (string, error)

	// WriteFile writes data to the file at path, creating it if absent and
	// replacing its contents if present and writable.
	WriteFile(path string, data []byte) error

	// OverwriteFile replaces the contents of the existing, writable file at
	// path. Unlike WriteFile it fails if the file does not exist.
	OverwriteFile(path string, data []byte) error

	// ReadFile returns the full contents of the readable file at path.
	ReadFile(path string) ([]byte, error)

	// ReadFileToString returns the contents of the file at path decoded as
	// UTF-8, failing with an InvalidData error on undecodable bytes.
	ReadFileToString(path string) (string, error)
}

// TempDir tracks a temporary directory that is deleted when closed.
type TempDir interface {
	// Path returns the absolute path of the temporary directory.
	Path() string

	// Close deletes the temporary directory and everything beneath it.
	Close() error
}

// TempFileSystem is implemented by filesystems that can mint temporary
// directories. It layers cleanup-on-close over CreateDirAll and
// RemoveDirAll; no other operations are consumed.
type TempFileSystem interface {
	// TempDir creates a new, uniquely named temporary directory whose name
	// starts with prefix.
	TempDir(prefix string) (TempDir, error)
}
