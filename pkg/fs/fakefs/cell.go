package fakefs

import "sync"

// sharedBytes is the lock-protected cell holding one file's contents. The
// registry entry (if any) and every open handle share the same cell through
// its pointer; the garbage collector plays the role of the reference count,
// keeping the cell alive as long as any holder remains. All holders observe
// the same mutations, serialized by the cell's mutex.
//
// The mutex is held only for the duration of one logical operation (read
// slice, write slice, resize), never across a caller-visible boundary.
type sharedBytes struct {
	mu   sync.Mutex
	data []byte
}

func newSharedBytes(data []byte) *sharedBytes {
	c := &sharedBytes{}
	if len(data) > 0 {
		c.data = append([]byte(nil), data...)
	}
	return c
}

// length returns the current content length.
func (c *sharedBytes) length() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// snapshot returns a detached copy of the contents.
func (c *sharedBytes) snapshot() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.data...)
}

// replace swaps in a copy of data as the new contents.
func (c *sharedBytes) replace(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append([]byte(nil), data...)
}

// readAt copies bytes starting at off into p and returns the number copied.
// Reading at or past the end copies nothing; the offset may legitimately
// point beyond the end when the file shrank under an open handle.
func (c *sharedBytes) readAt(p []byte, off int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if off >= len(c.data) {
		return 0
	}
	return copy(p, c.data[off:])
}

// writeAt writes all of p at off. If off is past the current end the
// contents are zero-extended up to off first; bytes overlapping existing
// content are overwritten in place and the remainder is appended.
func (c *sharedBytes) writeAt(p []byte, off int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if off > len(c.data) {
		c.data = append(c.data, make([]byte, off-len(c.data))...)
	}
	n := copy(c.data[off:], p)
	c.data = append(c.data, p[n:]...)
}

// resize truncates or zero-extends the contents to exactly size bytes.
func (c *sharedBytes) resize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if size <= len(c.data) {
		c.data = c.data[:size]
		return
	}
	c.data = append(c.data, make([]byte, size-len(c.data))...)
}

// sharedMode is the lock-protected cell holding one node's permission word.
// Like sharedBytes it is shared by pointer between the registry entry and
// any metadata snapshots taken while it was reachable.
type sharedMode struct {
	mu   sync.Mutex
	mode uint32
}

func newSharedMode(mode uint32) *sharedMode {
	return &sharedMode{mode: mode}
}

func (m *sharedMode) get() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *sharedMode) set(mode uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
}

func (m *sharedMode) canRead() bool {
	return m.get()&readMask != 0
}

func (m *sharedMode) canWrite() bool {
	return m.get()&writeMask != 0
}

// setReadonly clears the write bits when readonly is true and sets them
// otherwise.
func (m *sharedMode) setReadonly(readonly bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if readonly {
		m.mode &^= writeMask
	} else {
		m.mode |= writeMask
	}
}
