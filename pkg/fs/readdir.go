package fs

import (
	"io"
	"path"
)

// DirEntry is one entry of a directory listing.
type DirEntry struct {
	parent string
	name   string
}

// NewDirEntry builds a directory entry for name under parent.
func NewDirEntry(parent, name string) DirEntry {
	return DirEntry{parent: parent, name: name}
}

// FileName returns the bare file name of the entry without any leading path
// component.
func (e DirEntry) FileName() string {
	return e.name
}

// Path returns the full path of the entry.
func (e DirEntry) Path() string {
	return path.Join(e.parent, e.name)
}

// ReadDir is a finite, non-restartable sequence of directory entries. The
// entries are snapshotted when the listing is taken; later mutations of the
// directory are not reflected.
type ReadDir struct {
	entries []DirEntry
	pos     int
}

// NewReadDir builds a listing over entries.
func NewReadDir(entries []DirEntry) *ReadDir {
	return &ReadDir{entries: entries}
}

// Next returns the next entry, or io.EOF once the sequence is exhausted.
func (r *ReadDir) Next() (DirEntry, error) {
	if r.pos >= len(r.entries) {
		return DirEntry{}, io.EOF
	}
	entry := r.entries[r.pos]
	r.pos++
	return entry, nil
}
