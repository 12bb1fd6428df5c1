// Package vfs implements the in-memory hierarchical filesystem backing all
// shell file operations.
//
// The tree is held in an arena: a flat node table addressed by stable
// [NodeID] handles, with directory entries mapping names to child handles
// rather than child values. Descending to the current working directory is
// then a handle walk, never a chain of live references into the tree.
package vfs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind discriminates between file and directory nodes.
type Kind uint8

const (
	// KindFile marks a node holding byte content.
	KindFile Kind = iota

	// KindDirectory marks a node holding named children.
	KindDirectory
)

// String implements [fmt.Stringer] for [Kind].
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

const (
	// FilePerms is the fixed permission default for created files.
	FilePerms = 0o644

	// DirPerms is the fixed permission default for created directories.
	DirPerms = 0o755
)

// NodeID is a stable handle into the filesystem's node arena.
type NodeID int32

const rootID NodeID = 0

// Inode carries the per-node metadata attached 1:1 to every node.
type Inode struct {
	OwnerUID uint32
	Perms    uint32
	Kind     Kind
}

type node struct {
	inode   Inode
	data    []byte
	entries map[string]NodeID
}

// Entry is one (name, kind) listing of a directory.
type Entry struct {
	Name string
	Kind Kind
}

// Filesystem is the single shared in-memory tree with a current working
// directory. Every operation takes whole-structure exclusive access for its
// duration and releases it before returning; nothing is held across a task
// suspension point.
type Filesystem struct {
	sync.Mutex
	nodes []node
	free  []NodeID
	cwd   []string
}

// New returns a pointer to a new [Filesystem] whose root directory is owned
// by the given uid. The root is always a directory and can never be removed.
func New(rootUID uint32) *Filesystem {
	f := &Filesystem{}
	f.nodes = append(f.nodes, node{
		inode:   Inode{OwnerUID: rootUID, Perms: DirPerms, Kind: KindDirectory},
		entries: make(map[string]NodeID),
	})

	return f
}

func (f *Filesystem) alloc(n node) NodeID {
	if len(f.free) > 0 {
		id := f.free[len(f.free)-1]
		f.free = f.free[:len(f.free)-1]
		f.nodes[id] = n

		return id
	}

	f.nodes = append(f.nodes, n)

	return NodeID(len(f.nodes) - 1)
}

// release returns a node and its entire subtree to the free list.
func (f *Filesystem) release(id NodeID) {
	for _, child := range f.nodes[id].entries {
		f.release(child)
	}

	f.nodes[id] = node{}
	f.free = append(f.free, id)
}

// cwdNode walks the handle path from root to the current working directory.
// The cwd invariant (every segment resolves to an existing directory) makes a
// failed step an invariant violation, not a user error.
func (f *Filesystem) cwdNode() NodeID {
	id := rootID
	for _, seg := range f.cwd {
		child, ok := f.nodes[id].entries[seg]
		if !ok || f.nodes[child].inode.Kind != KindDirectory {
			panic(fmt.Sprintf("vfs: cwd segment %q does not resolve to a directory", seg))
		}
		id = child
	}

	return id
}

// List returns the entries of the current working directory in name order,
// matching the sorted iteration of the original flat store.
func (f *Filesystem) List() []Entry {
	f.Lock()
	defer f.Unlock()

	dir := f.cwdNode()

	entries := make([]Entry, 0, len(f.nodes[dir].entries))
	for name, id := range f.nodes[dir].entries {
		entries = append(entries, Entry{Name: name, Kind: f.nodes[id].inode.Kind})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries
}

// CreateFile inserts or overwrites a file node under name in the current
// working directory, owned by uid. Overwriting an existing file is allowed
// and replaces both content and inode; an existing directory under the same
// name is a name conflict.
func (f *Filesystem) CreateFile(name, content string, uid uint32) error {
	if name == "" {
		return fmt.Errorf("(vfs) %w", ErrInvalidName)
	}

	f.Lock()
	defer f.Unlock()

	dir := f.cwdNode()

	if existing, ok := f.nodes[dir].entries[name]; ok {
		if f.nodes[existing].inode.Kind == KindDirectory {
			return fmt.Errorf("(vfs) %q: %w", name, ErrNameConflict)
		}
		f.release(existing)
	}

	id := f.alloc(node{
		inode: Inode{OwnerUID: uid, Perms: FilePerms, Kind: KindFile},
		data:  []byte(content),
	})
	f.nodes[dir].entries[name] = id

	return nil
}

// ReadFile returns the content of the named file in the current working
// directory, or false when the name does not resolve to a file node.
func (f *Filesystem) ReadFile(name string) (string, bool) {
	f.Lock()
	defer f.Unlock()

	dir := f.cwdNode()

	id, ok := f.nodes[dir].entries[name]
	if !ok || f.nodes[id].inode.Kind != KindFile {
		return "", false
	}

	return string(f.nodes[id].data), true
}

// Remove deletes the named entry from the current working directory and, for
// directories, the entire subtree rooted there. It reports whether anything
// was removed.
func (f *Filesystem) Remove(name string) bool {
	f.Lock()
	defer f.Unlock()

	dir := f.cwdNode()

	id, ok := f.nodes[dir].entries[name]
	if !ok {
		return false
	}

	delete(f.nodes[dir].entries, name)
	f.release(id)

	return true
}

// MakeDirectory inserts a new empty directory under name in the current
// working directory, owned by uid. Unlike file creation, an existing entry of
// any kind is a name conflict and leaves the first owner in place.
func (f *Filesystem) MakeDirectory(name string, uid uint32) error {
	if name == "" {
		return fmt.Errorf("(vfs) %w", ErrInvalidName)
	}

	f.Lock()
	defer f.Unlock()

	dir := f.cwdNode()

	if _, ok := f.nodes[dir].entries[name]; ok {
		return fmt.Errorf("(vfs) %q: %w", name, ErrNameConflict)
	}

	id := f.alloc(node{
		inode:   Inode{OwnerUID: uid, Perms: DirPerms, Kind: KindDirectory},
		entries: make(map[string]NodeID),
	})
	f.nodes[dir].entries[name] = id

	return nil
}

// ChangeDirectory moves the current working directory: "/" resets to root,
// ".." pops one segment (a no-op at root) and any other literal name descends
// into an existing child directory. On failure the working directory is left
// unmodified.
func (f *Filesystem) ChangeDirectory(path string) error {
	f.Lock()
	defer f.Unlock()

	switch path {
	case "/":
		f.cwd = nil

		return nil

	case "..":
		if len(f.cwd) > 0 {
			f.cwd = f.cwd[:len(f.cwd)-1]
		}

		return nil
	}

	dir := f.cwdNode()

	child, ok := f.nodes[dir].entries[path]
	if !ok || f.nodes[child].inode.Kind != KindDirectory {
		return fmt.Errorf("(vfs) %q: %w", path, ErrNotFound)
	}

	f.cwd = append(f.cwd, path)

	return nil
}

// WorkingDirectory returns the current working directory as an absolute path.
func (f *Filesystem) WorkingDirectory() string {
	f.Lock()
	defer f.Unlock()

	return "/" + strings.Join(f.cwd, "/")
}

// Stat returns the inode of the named entry in the current working directory.
func (f *Filesystem) Stat(name string) (Inode, bool) {
	f.Lock()
	defer f.Unlock()

	dir := f.cwdNode()

	id, ok := f.nodes[dir].entries[name]
	if !ok {
		return Inode{}, false
	}

	return f.nodes[id].inode, true
}

// Stats traverses the whole tree from root and returns the number of file
// nodes and the sum of their content lengths. Directories are neither counted
// nor measured.
func (f *Filesystem) Stats() (int, uint64) {
	f.Lock()
	defer f.Unlock()

	return f.statsFrom(rootID)
}

func (f *Filesystem) statsFrom(id NodeID) (int, uint64) {
	if f.nodes[id].inode.Kind == KindFile {
		return 1, uint64(len(f.nodes[id].data))
	}

	files := 0
	bytes := uint64(0)

	for _, child := range f.nodes[id].entries {
		cf, cb := f.statsFrom(child)
		files += cf
		bytes += cb
	}

	return files, bytes
}
