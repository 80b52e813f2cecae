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
)

// 📊 FileStatus is the kind of change a sync applied to an entry
type FileStatus int

const (
	StatusUnknown  FileStatus = iota
	StatusNew                 // Entry only existed in the source and was added
	StatusModified            // Entry existed on both sides and was overwritten or replaced
	StatusDeleted             // Entry only existed in the destination and was removed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "add"
	case StatusModified:
		return "update"
	case StatusDeleted:
		return "delete"
	default:
		return "unknown"
	}
}

// 📄 Action is one change applied to the destination tree
type Action struct {
	Kind        FileStatus
	Source      string // Path on the source side, which may not exist for deletes
	Destination string
}

// 📈 Report collects the actions of a sync run. It is safe for concurrent use.
type Report struct {
	mu      sync.Mutex
	actions []Action
}

// 🏭 NewReport creates an empty report
func NewReport() *Report {
	return &Report{}
}

// Record appends an action
func (r *Report) Record(kind FileStatus, source, destination string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.actions = append(r.actions, Action{Kind: kind, Source: source, Destination: destination})
}

// Actions returns a copy of the recorded actions in the order they happened
func (r *Report) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Count returns how many actions of the given kind were recorded
func (r *Report) Count(kind FileStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, a := range r.actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Destinations returns the destination paths of every action of the given kind
func (r *Report) Destinations(kind FileStatus) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, a := range r.actions {
		if a.Kind == kind {
			out = append(out, a.Destination)
		}
	}
	return out
}

func (r *Report) Added() int   { return r.Count(StatusNew) }
func (r *Report) Updated() int { return r.Count(StatusModified) }
func (r *Report) Deleted() int { return r.Count(StatusDeleted) }

// Empty reports whether the run changed nothing
func (r *Report) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.actions) == 0
}

// Merge appends every action of other, keeping their order
func (r *Report) Merge(other *Report) {
	if other == nil || other == r {
		return
	}
	actions := other.Actions()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, actions...)
}
