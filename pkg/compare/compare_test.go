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

package compare_test

import (
	"hash/crc32"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/syncrc/pkg/compare"
	"github.com/walteh/syncrc/pkg/fsys"
)

func TestSameContent(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "identical", a: "hello world", b: "hello world", want: true},
		{name: "different", a: "hello world", b: "hello there", want: false},
		{name: "both_empty", a: "", b: "", want: true},
		{name: "empty_vs_content", a: "", b: "x", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := fsys.NewMemory()
			require.NoError(t, fs.WriteFile("/a", []byte(tt.a)))
			require.NoError(t, fs.WriteFile("/b", []byte(tt.b)))

			same, err := compare.SameContent(fs, "/a", "/b")
			require.NoError(t, err)
			assert.Equal(t, tt.want, same)
		})
	}
}

func TestSameContentPropagatesReadErrors(t *testing.T) {
	fs := fsys.NewMemory()
	require.NoError(t, fs.WriteFile("/a", []byte("a")))

	_, err := compare.SameContent(fs, "/a", "/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "checksumming /missing")

	_, err = compare.SameContent(fs, "/missing", "/a")
	require.Error(t, err)
}

func TestChecksum(t *testing.T) {
	fs := fsys.NewMemory()
	require.NoError(t, fs.WriteFile("/f", []byte("yo")))

	sum, err := compare.Checksum(fs, "/f")
	require.NoError(t, err)
	assert.Equal(t, crc32.ChecksumIEEE([]byte("yo")), sum)
}
