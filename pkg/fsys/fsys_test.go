// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fsys_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/syncrc/pkg/fsys"
)

// 🧪 backends returns every filesystem flavour rooted at a fresh directory
func backends(t *testing.T) map[string]struct {
	fs   *fsys.FS
	root string
} {
	return map[string]struct {
		fs   *fsys.FS
		root string
	}{
		"memory": {fs: fsys.NewMemory(), root: "/work"},
		"os":     {fs: fsys.NewOS(), root: t.TempDir()},
	}
}

func TestReadDirSortedWithKinds(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.fs.WriteFile(filepath.Join(b.root, "b.txt"), []byte("b")))
			require.NoError(t, b.fs.WriteFile(filepath.Join(b.root, "a.txt"), []byte("a")))
			require.NoError(t, b.fs.MkdirAll(filepath.Join(b.root, "c")))

			entries, err := b.fs.ReadDir(b.root)
			require.NoError(t, err)
			require.Len(t, entries, 3)

			assert.Equal(t, "a.txt", entries[0].Name)
			assert.Equal(t, fsys.KindFile, entries[0].Kind)
			assert.Equal(t, "b.txt", entries[1].Name)
			assert.Equal(t, "c", entries[2].Name)
			assert.Equal(t, fsys.KindDir, entries[2].Kind)
		})
	}
}

func TestLookup(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(b.root, "here.txt")
			require.NoError(t, b.fs.WriteFile(path, []byte("x")))

			entry, ok, err := b.fs.Lookup(path)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, fsys.KindFile, entry.Kind)

			_, ok, err = b.fs.Lookup(filepath.Join(b.root, "missing"))
			require.NoError(t, err, "missing paths are not an error")
			assert.False(t, ok)
		})
	}
}

func TestCopyFileOverwrites(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			src := filepath.Join(b.root, "src.txt")
			dst := filepath.Join(b.root, "dst.txt")
			require.NoError(t, b.fs.WriteFile(src, []byte("short")))
			require.NoError(t, b.fs.WriteFile(dst, []byte("a much longer old body")))

			require.NoError(t, b.fs.CopyFile(src, dst))

			data, err := b.fs.ReadFile(dst)
			require.NoError(t, err)
			assert.Equal(t, "short", string(data))
		})
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	fs := fsys.NewMemory()
	err := fs.CopyFile("/nope", "/dst")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemoveAll(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(b.root, "tree")
			require.NoError(t, b.fs.WriteFile(filepath.Join(dir, "x", "y.txt"), []byte("y")))
			require.NoError(t, b.fs.WriteFile(filepath.Join(dir, "z.txt"), []byte("z")))

			require.NoError(t, b.fs.RemoveAll(dir))

			_, ok, err := b.fs.Lookup(dir)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, fsys.KindOther, fsys.KindOf(nil))
	assert.Equal(t, "file", fsys.KindFile.String())
	assert.Equal(t, "directory", fsys.KindDir.String())
	assert.Equal(t, "other", fsys.KindOther.String())
}

// chdir moves into dir for the rest of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestNewOSRelativePaths(t *testing.T) {
	chdir(t, t.TempDir())
	fs := fsys.NewOS()

	require.NoError(t, fs.WriteFile(filepath.Join("s", "a.txt"), []byte("rel")))
	require.NoError(t, fs.CopyFile(filepath.Join("s", "a.txt"), "b.txt"))

	entry, ok, err := fs.Lookup("b.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fsys.KindFile, entry.Kind)

	data, err := os.ReadFile("b.txt")
	require.NoError(t, err)
	assert.Equal(t, "rel", string(data))
}

func TestLookupReportsLinks(t *testing.T) {
	fs := fsys.NewOS()
	root := t.TempDir()
	target := filepath.Join(root, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("t"), 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link")))
	require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(root, "dangling")))

	tests := []struct {
		name string
		kind fsys.Kind
		link bool
	}{
		{name: "target.txt", kind: fsys.KindFile, link: false},
		{name: "link", kind: fsys.KindFile, link: true},
		{name: "dangling", kind: fsys.KindOther, link: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok, err := fs.Lookup(filepath.Join(root, tt.name))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, entry.Kind)
			assert.Equal(t, tt.link, entry.Link)
		})
	}

	entries, err := fs.ReadDir(root)
	require.NoError(t, err, "a dangling link does not break the listing")
	require.Len(t, entries, 3)
	assert.Equal(t, "dangling", entries[0].Name)
	assert.Equal(t, fsys.KindOther, entries[0].Kind)
	assert.True(t, entries[1].Link)
	assert.False(t, entries[2].Link)
}

func TestCopyFileReplacesLink(t *testing.T) {
	fs := fsys.NewOS()
	root := t.TempDir()
	outside := filepath.Join(root, "outside.txt")
	src := filepath.Join(root, "src.txt")
	dst := filepath.Join(root, "dst.txt")
	require.NoError(t, os.WriteFile(outside, []byte("precious"), 0o644))
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.Symlink(outside, dst))

	require.NoError(t, fs.CopyFile(src, dst))

	data, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(data), "the link target is left alone")

	info, err := os.Lstat(dst)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "the link is replaced by a regular file")
	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCopyFileReadOnlyDestination(t *testing.T) {
	fs := fsys.NewOS()
	root := t.TempDir()
	src := filepath.Join(root, "src.txt")
	dst := filepath.Join(root, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o444))

	require.NoError(t, fs.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm(), "the mode follows the source")
}
