package fakefs

import "github.com/miragefs/miragefs/pkg/fs"

// Permission masks and the default mode word. Files and directories share
// the same default; a directory's write bits gate mutation of its children.
const (
	readMask  = fs.ReadMask
	writeMask = fs.WriteMask

	defaultMode uint32 = 0o644
)

type nodeKind int

const (
	kindFile nodeKind = iota
	kindDir
)

// node is a File or Dir entry in the registry. A node has no path of its
// own; the registry map is the sole owner of the path association. The
// contents cell is nil for directories.
type node struct {
	kind     nodeKind
	contents *sharedBytes
	mode     *sharedMode
}

func newFileNode(data []byte) *node {
	return &node{
		kind:     kindFile,
		contents: newSharedBytes(data),
		mode:     newSharedMode(defaultMode),
	}
}

func newDirNode() *node {
	return &node{
		kind: kindDir,
		mode: newSharedMode(defaultMode),
	}
}

func (n *node) isFile() bool {
	return n.kind == kindFile
}

func (n *node) isDir() bool {
	return n.kind == kindDir
}
