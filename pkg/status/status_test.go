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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	r := NewReport()
	assert.True(t, r.Empty(), "new report should be empty")

	r.Record(StatusDeleted, "src/c.txt", "dst/c.txt")
	r.Record(StatusNew, "src/sub/b.txt", "dst/sub/b.txt")
	r.Record(StatusModified, "src/a.txt", "dst/a.txt")
	r.Record(StatusNew, "src/d.txt", "dst/d.txt")

	assert.False(t, r.Empty())
	assert.Equal(t, 2, r.Added())
	assert.Equal(t, 1, r.Updated())
	assert.Equal(t, 1, r.Deleted())
	assert.Equal(t, []string{"dst/sub/b.txt", "dst/d.txt"}, r.Destinations(StatusNew))

	actions := r.Actions()
	require.Len(t, actions, 4)
	assert.Equal(t, Action{Kind: StatusDeleted, Source: "src/c.txt", Destination: "dst/c.txt"}, actions[0])

	// returned slice is a copy
	actions[0].Kind = StatusUnknown
	assert.Equal(t, StatusDeleted, r.Actions()[0].Kind)
}

func TestReportMerge(t *testing.T) {
	a := NewReport()
	a.Record(StatusNew, "s/1", "d/1")
	b := NewReport()
	b.Record(StatusDeleted, "s/2", "d/2")

	a.Merge(b)
	a.Merge(nil)
	a.Merge(a)

	require.Len(t, a.Actions(), 2)
	assert.Equal(t, StatusDeleted, a.Actions()[1].Kind)
}

func TestReportConcurrentRecord(t *testing.T) {
	r := NewReport()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record(StatusNew, "s", "d")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Added())
}

func TestFileStatusString(t *testing.T) {
	tests := []struct {
		status FileStatus
		want   string
	}{
		{StatusNew, "add"},
		{StatusModified, "update"},
		{StatusDeleted, "delete"},
		{StatusUnknown, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.String())
	}
}
