package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew_Success tests the filesystem factory function.
func TestNew_Success(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NotNil(t, f)
	assert.Equal(t, "/", f.WorkingDirectory())
	assert.Empty(t, f.List())

	files, bytes := f.Stats()
	assert.Equal(t, 0, files)
	assert.Equal(t, uint64(0), bytes)
}

// TestCreateReadRemove_Success tests the file round trip.
func TestCreateReadRemove_Success(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.CreateFile("a.txt", "hello", 1000))

	content, ok := f.ReadFile("a.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", content)

	inode, ok := f.Stat("a.txt")
	require.True(t, ok)
	assert.Equal(t, uint32(1000), inode.OwnerUID)
	assert.Equal(t, uint32(FilePerms), inode.Perms)
	assert.Equal(t, KindFile, inode.Kind)

	assert.True(t, f.Remove("a.txt"))

	_, ok = f.ReadFile("a.txt")
	assert.False(t, ok)

	assert.False(t, f.Remove("a.txt"))
}

// TestCreateFile_Overwrite tests that file creation overwrites in place.
func TestCreateFile_Overwrite(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.CreateFile("a.txt", "first", 0))
	require.NoError(t, f.CreateFile("a.txt", "second", 1000))

	content, ok := f.ReadFile("a.txt")
	require.True(t, ok)
	assert.Equal(t, "second", content)

	inode, ok := f.Stat("a.txt")
	require.True(t, ok)
	assert.Equal(t, uint32(1000), inode.OwnerUID)

	files, bytes := f.Stats()
	assert.Equal(t, 1, files)
	assert.Equal(t, uint64(6), bytes)
}

// TestCreateFile_Error tests the file creation error cases.
func TestCreateFile_Error(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.ErrorIs(t, f.CreateFile("", "x", 0), ErrInvalidName)

	require.NoError(t, f.MakeDirectory("docs", 0))
	require.ErrorIs(t, f.CreateFile("docs", "x", 0), ErrNameConflict)
}

// TestReadFile_DirectoryMiss tests that reading a directory name misses.
func TestReadFile_DirectoryMiss(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.MakeDirectory("docs", 0))

	_, ok := f.ReadFile("docs")
	assert.False(t, ok)
}

// TestMakeDirectory_Conflict tests that the second creation fails and the
// owner of the first remains.
func TestMakeDirectory_Conflict(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.MakeDirectory("x", 1000))
	require.ErrorIs(t, f.MakeDirectory("x", 1001), ErrNameConflict)

	inode, ok := f.Stat("x")
	require.True(t, ok)
	assert.Equal(t, uint32(1000), inode.OwnerUID)
	assert.Equal(t, uint32(DirPerms), inode.Perms)
	assert.Equal(t, KindDirectory, inode.Kind)
}

// TestMakeDirectory_InvalidName tests the empty directory name case.
func TestMakeDirectory_InvalidName(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.ErrorIs(t, f.MakeDirectory("", 0), ErrInvalidName)
}

// TestChangeDirectory_Success tests descending, popping and resetting.
func TestChangeDirectory_Success(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.MakeDirectory("a", 0))
	require.NoError(t, f.ChangeDirectory("a"))
	require.NoError(t, f.MakeDirectory("b", 0))
	require.NoError(t, f.ChangeDirectory("b"))
	assert.Equal(t, "/a/b", f.WorkingDirectory())

	require.NoError(t, f.ChangeDirectory(".."))
	assert.Equal(t, "/a", f.WorkingDirectory())

	require.NoError(t, f.ChangeDirectory("/"))
	assert.Equal(t, "/", f.WorkingDirectory())
}

// TestChangeDirectory_RootParent tests that ".." at root is a no-op.
func TestChangeDirectory_RootParent(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.ChangeDirectory(".."))
	assert.Equal(t, "/", f.WorkingDirectory())
}

// TestChangeDirectory_NotFound tests that a failed descent leaves the working
// directory unchanged.
func TestChangeDirectory_NotFound(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.MakeDirectory("a", 0))
	require.NoError(t, f.ChangeDirectory("a"))

	require.ErrorIs(t, f.ChangeDirectory("nonexistent"), ErrNotFound)
	assert.Equal(t, "/a", f.WorkingDirectory())

	require.NoError(t, f.CreateFile("plain.txt", "x", 0))
	require.ErrorIs(t, f.ChangeDirectory("plain.txt"), ErrNotFound)
	assert.Equal(t, "/a", f.WorkingDirectory())
}

// TestList_Success tests name-ordered directory listings.
func TestList_Success(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.CreateFile("zeta.txt", "z", 0))
	require.NoError(t, f.MakeDirectory("alpha", 0))
	require.NoError(t, f.CreateFile("beta.txt", "b", 0))

	assert.Equal(t, []Entry{
		{Name: "alpha", Kind: KindDirectory},
		{Name: "beta.txt", Kind: KindFile},
		{Name: "zeta.txt", Kind: KindFile},
	}, f.List())
}

// TestRemove_Subtree tests that removing a directory destroys its subtree.
func TestRemove_Subtree(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.MakeDirectory("a", 0))
	require.NoError(t, f.ChangeDirectory("a"))
	require.NoError(t, f.CreateFile("one.txt", "11111", 0))
	require.NoError(t, f.MakeDirectory("b", 0))
	require.NoError(t, f.ChangeDirectory("b"))
	require.NoError(t, f.CreateFile("two.txt", "22", 0))
	require.NoError(t, f.ChangeDirectory("/"))

	files, bytes := f.Stats()
	assert.Equal(t, 2, files)
	assert.Equal(t, uint64(7), bytes)

	assert.True(t, f.Remove("a"))

	files, bytes = f.Stats()
	assert.Equal(t, 0, files)
	assert.Equal(t, uint64(0), bytes)
	assert.Empty(t, f.List())
}

// TestStats_Success tests the file-only counting rule.
func TestStats_Success(t *testing.T) {
	t.Parallel()

	f := New(0)

	files, bytes := f.Stats()
	assert.Equal(t, 0, files)
	assert.Equal(t, uint64(0), bytes)

	require.NoError(t, f.CreateFile("a.txt", "12345", 0))

	files, bytes = f.Stats()
	assert.Equal(t, 1, files)
	assert.Equal(t, uint64(5), bytes)

	require.NoError(t, f.MakeDirectory("empty", 0))

	files, bytes = f.Stats()
	assert.Equal(t, 1, files)
	assert.Equal(t, uint64(5), bytes)
}

// TestArenaReuse_Success tests that released handles are recycled without
// disturbing surviving nodes.
func TestArenaReuse_Success(t *testing.T) {
	t.Parallel()

	f := New(0)

	require.NoError(t, f.CreateFile("keep.txt", "keep", 0))

	for i := 0; i < 50; i++ {
		require.NoError(t, f.CreateFile("churn.txt", "churn", 0))
		require.True(t, f.Remove("churn.txt"))
	}

	assert.LessOrEqual(t, len(f.nodes), 4)

	content, ok := f.ReadFile("keep.txt")
	require.True(t, ok)
	assert.Equal(t, "keep", content)
}
