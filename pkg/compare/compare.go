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

// Package compare decides whether two files hold the same content.
package compare

import (
	"hash/crc32"

	"github.com/walteh/syncrc/pkg/fsys"
	"gitlab.com/tozd/go/errors"
)

// FileReader is the slice of the filesystem layer the comparator needs
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

var _ FileReader = (fsys.Filesystem)(nil)

// 🔍 Checksum returns the CRC-32 (IEEE) of a file's full content
func Checksum(fs FileReader, path string) (uint32, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return 0, errors.Errorf("checksumming %s: %w", path, err)
	}
	return crc32.ChecksumIEEE(data), nil
}

// ⚖️ SameContent reports whether two files have equal checksums.
//
// Equal checksums are taken as equal content; a CRC-32 collision would make
// a changed file look unchanged.
func SameContent(fs FileReader, a, b string) (bool, error) {
	sumA, err := Checksum(fs, a)
	if err != nil {
		return false, err
	}
	sumB, err := Checksum(fs, b)
	if err != nil {
		return false, err
	}
	return sumA == sumB, nil
}
