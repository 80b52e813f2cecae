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

// Package fsys is the filesystem access layer used by the reconciler. It wraps
// a go-billy filesystem so the same code runs against the OS or an in-memory
// tree.
package fsys

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"gitlab.com/tozd/go/errors"
)

const dirPerm os.FileMode = 0o755

// 📂 Kind is the type of a filesystem node as far as syncing is concerned
type Kind int

const (
	KindOther Kind = iota // Anything that is neither a regular file nor a directory
	KindFile
	KindDir
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "other"
	}
}

// 🔍 KindOf classifies a stat result
func KindOf(info os.FileInfo) Kind {
	switch {
	case info == nil:
		return KindOther
	case info.IsDir():
		return KindDir
	case info.Mode().IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// 📄 Entry is a named node inside a directory
type Entry struct {
	Name string      // Base name within the parent directory
	Kind Kind        // File, directory or other
	Info os.FileInfo // Stat result, symlinks already followed
	Link bool        // Reached through a symbolic link
}

// 💾 Filesystem is everything the reconciler needs from a filesystem
type Filesystem interface {
	// ReadDir lists a directory, sorted by name
	ReadDir(path string) ([]Entry, error)
	// Lookup stats a path, reporting false when it does not exist
	Lookup(path string) (Entry, bool, error)
	ReadFile(path string) ([]byte, error)
	// CopyFile copies a regular file, overwriting the destination
	CopyFile(src, dst string) error
	// RemoveAll removes a path and everything below it
	RemoveAll(path string) error
	// MkdirAll creates a directory and any missing ancestors
	MkdirAll(path string) error
	Join(elem ...string) string
}

// Backend is the part of go-billy the layer calls into. Backends that also
// implement billy.Symlink get links reported, billy.Change gets modes fixed.
type Backend interface {
	billy.Basic
	billy.Dir
}

// 🔧 FS implements Filesystem on top of go-billy
type FS struct {
	fs Backend
	// serializes calls into backends that are not safe for concurrent use
	mu *sync.Mutex
}

var (
	_ Filesystem = (*FS)(nil)
	_ Backend    = (*osfs.ChrootOS)(nil)
)

// 🏭 New wraps a go-billy filesystem
func New(fsys Backend) *FS {
	return &FS{fs: fsys}
}

// 🏭 NewOS returns a filesystem that passes paths straight to the OS, so
// relative paths resolve against the working directory
func NewOS() *FS {
	return New(osfs.Default)
}

// 🏭 NewMemory returns an empty in-memory filesystem. Calls are serialized so
// it can back a parallel sync.
func NewMemory() *FS {
	return &FS{fs: memfs.New(), mu: &sync.Mutex{}}
}

func (f *FS) Join(elem ...string) string {
	return f.fs.Join(elem...)
}

func (f *FS) lock() func() {
	if f.mu == nil {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

func (f *FS) ReadDir(path string) ([]Entry, error) {
	defer f.lock()()

	infos, err := f.fs.ReadDir(path)
	if err != nil {
		return nil, errors.Errorf("reading directory %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		// listings may come from lstat; follow links the way stat does
		if info.Mode()&os.ModeSymlink != 0 {
			entry, err := f.follow(f.fs.Join(path, info.Name()), info)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
			continue
		}
		entries = append(entries, Entry{Name: info.Name(), Kind: KindOf(info), Info: info})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// follow stats the target of a link. A dangling link is KindOther with the
// link's own info.
func (f *FS) follow(path string, link os.FileInfo) (Entry, error) {
	target, err := f.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Entry{Name: link.Name(), Kind: KindOther, Info: link, Link: true}, nil
		}
		return Entry{}, errors.Errorf("following link %s: %w", path, err)
	}
	return Entry{Name: link.Name(), Kind: KindOf(target), Info: target, Link: true}, nil
}

func (f *FS) Lookup(path string) (Entry, bool, error) {
	defer f.lock()()

	stat := f.fs.Stat
	if sl, ok := f.fs.(billy.Symlink); ok {
		stat = sl.Lstat
	}

	info, err := stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Entry{}, false, nil
		}
		return Entry{}, false, errors.Errorf("stat %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		entry, err := f.follow(path, info)
		return entry, err == nil, err
	}
	return Entry{Name: info.Name(), Kind: KindOf(info), Info: info}, true, nil
}

func (f *FS) ReadFile(path string) ([]byte, error) {
	defer f.lock()()

	data, err := util.ReadFile(f.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

func (f *FS) CopyFile(src, dst string) error {
	defer f.lock()()

	info, err := f.fs.Stat(src)
	if err != nil {
		return errors.Errorf("stat %s: %w", src, err)
	}
	perm := info.Mode().Perm()

	in, err := f.fs.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	// unlink first so a link at dst is replaced rather than written through
	if err := f.fs.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Errorf("replacing %s: %w", dst, err)
	}

	out, err := f.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}

	// perm went through the umask on create
	if ch, ok := f.fs.(billy.Change); ok {
		if err := ch.Chmod(dst, perm); err != nil {
			return errors.Errorf("setting mode on %s: %w", dst, err)
		}
	}

	return nil
}

func (f *FS) RemoveAll(path string) error {
	defer f.lock()()

	if err := util.RemoveAll(f.fs, path); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}
	return nil
}

func (f *FS) MkdirAll(path string) error {
	defer f.lock()()

	if err := f.fs.MkdirAll(path, dirPerm); err != nil {
		return errors.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// WriteFile writes data to path, creating parent directories
func (f *FS) WriteFile(path string, data []byte) error {
	defer f.lock()()

	if err := f.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}
	if err := util.WriteFile(f.fs, path, data, 0o644); err != nil {
		return errors.Errorf("writing file %s: %w", path, err)
	}
	return nil
}
