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

package status

import (
	"fmt"
)

// 🎨 FileFormatter renders reports for humans
type FileFormatter interface {
	// FormatSummary formats the totals of a report
	FormatSummary(r *Report) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatSummary formats the totals of a report
func (f *DefaultFileFormatter) FormatSummary(r *Report) string {
	if r == nil || r.Empty() {
		return "already in sync"
	}
	return fmt.Sprintf("%d added, %d updated, %d deleted", r.Added(), r.Updated(), r.Deleted())
}
