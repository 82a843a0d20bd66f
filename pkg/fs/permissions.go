package fs

// Permission bit masks over the POSIX-style mode word. The read mask gates
// reads of file contents; the write mask gates mutation. Directories use the
// write bits to gate mutation of their children, not of their own metadata.
const (
	ReadMask  uint32 = 0o444
	WriteMask uint32 = 0o222
)

// Permissions is a POSIX-style permission word for a file or directory.
type Permissions struct {
	mode uint32
}

// FromMode builds a Permissions value from raw Unix permission bits.
func FromMode(mode uint32) Permissions {
	return Permissions{mode: mode}
}

// Readonly reports whether the permissions describe an unwritable node.
func (p Permissions) Readonly() bool {
	return p.mode&WriteMask == 0
}

// SetReadonly clears the write bits when readonly is true and sets them
// otherwise.
func (p *Permissions) SetReadonly(readonly bool) {
	if readonly {
		p.mode &^= WriteMask
	} else {
		p.mode |= WriteMask
	}
}

// Mode returns the raw mode bits.
func (p Permissions) Mode() uint32 {
	return p.mode
}

// SetMode replaces the raw mode bits.
func (p *Permissions) SetMode(mode uint32) {
	p.mode = mode
}
