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

// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/walteh/syncrc/pkg/fsys"
)

// Tree describes a directory tree by relative path. Keys ending in "/" are
// directories, every other key is a file with the value as its content.
type Tree map[string]string

// 🧪 Context returns a context whose logger writes to the test log
func Context(t testing.TB) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🌱 WriteTree creates root and everything in tree below it
func WriteTree(t testing.TB, fs *fsys.FS, root string, tree Tree) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(root), "creating %s", root)
	for p, content := range tree {
		full := filepath.Join(root, p)
		if strings.HasSuffix(p, "/") {
			require.NoError(t, fs.MkdirAll(full), "creating %s", full)
			continue
		}
		require.NoError(t, fs.WriteFile(full, []byte(content)), "writing %s", full)
	}
}

// 📸 Snapshot reads the tree below root back in the shape WriteTree accepts
func Snapshot(t testing.TB, fs *fsys.FS, root string) Tree {
	t.Helper()
	out := Tree{}

	var walk func(dir, rel string)
	walk = func(dir, rel string) {
		entries, err := fs.ReadDir(dir)
		require.NoError(t, err, "listing %s", dir)
		for _, e := range entries {
			r := path.Join(rel, e.Name)
			full := filepath.Join(dir, e.Name)
			if e.Kind == fsys.KindDir {
				out[r+"/"] = ""
				walk(full, r)
				continue
			}
			data, err := fs.ReadFile(full)
			require.NoError(t, err, "reading %s", full)
			out[r] = string(data)
		}
	}
	walk(root, "")

	return out
}

// ReadFile returns the content of one file
func ReadFile(t testing.TB, fs *fsys.FS, p string) string {
	t.Helper()
	data, err := fs.ReadFile(p)
	require.NoError(t, err, "reading %s", p)
	return string(data)
}
