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

package operation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestRunnerSync(t *testing.T) {
	var mu sync.Mutex
	var order []int
	record := func(i int) Task {
		return func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, i)
			return nil
		}
	}

	runner := NewRunner(nil, false)
	require.NoError(t, runner.Run(context.Background(), record(1), record(2), record(3)))
	assert.Equal(t, []int{1, 2, 3}, order, "tasks should run in order")
}

func TestRunnerSyncStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	ran := 0
	tasks := []Task{
		func(ctx context.Context) error { ran++; return boom },
		func(ctx context.Context) error { ran++; return nil },
	}

	err := NewRunner(nil, false).Run(context.Background(), tasks...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 1, ran)
}

func TestRunnerSyncCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRunner(nil, false).Run(ctx, func(ctx context.Context) error {
		t.Error("task should not run")
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunnerAsync(t *testing.T) {
	var count atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	tasks := []Task{
		func(ctx context.Context) error {
			close(started)
			<-release
			count.Add(1)
			return nil
		},
		func(ctx context.Context) error {
			// only finishes if the first task runs at the same time
			<-started
			close(release)
			count.Add(1)
			return nil
		},
	}

	require.NoError(t, NewRunner(nil, true).Run(context.Background(), tasks...))
	assert.Equal(t, int32(2), count.Load())
}

func TestRunnerAsyncCancelsOnError(t *testing.T) {
	boom := errors.New("boom")
	tasks := []Task{
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}

	err := NewRunner(nil, true).Run(context.Background(), tasks...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom), "first error should win")
}
