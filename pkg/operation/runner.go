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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📋 Task is one unit of work handed to the runner
type Task func(ctx context.Context) error

// 🏃 OperationRunner executes tasks
type OperationRunner struct {
	logger *zerolog.Logger
	async  bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, async bool) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
		async:  async,
	}
}

// 🏃 Run executes every task
func (r *OperationRunner) Run(ctx context.Context, tasks ...Task) error {
	r.logger.Debug().Int("tasks", len(tasks)).Bool("async", r.async).Msg("running tasks")
	if r.async {
		return r.runAsync(ctx, tasks)
	}
	return r.runSync(ctx, tasks)
}

// 🔄 runSync runs the tasks in order and stops at the first failure
func (r *OperationRunner) runSync(ctx context.Context, tasks []Task) error {
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := task(ctx); err != nil {
			return errors.Errorf("executing operation: %w", err)
		}
	}
	return nil
}

// ⚡ runAsync runs the tasks at once; the first failure cancels the others
func (r *OperationRunner) runAsync(ctx context.Context, tasks []Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("executing operation: %w", err)
	}
	return nil
}
