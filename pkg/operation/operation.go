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
	"github.com/walteh/syncrc/pkg/config"
	"github.com/walteh/syncrc/pkg/fsys"
	"github.com/walteh/syncrc/pkg/log"
	"github.com/walteh/syncrc/pkg/reconcile"
	"github.com/walteh/syncrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrOverlappingJobs is returned when async jobs would touch the same tree
var ErrOverlappingJobs = errors.Base("overlapping jobs")

// 🎯 Operator runs the configured jobs
type Operator interface {
	// Sync makes every destination match its source
	Sync(ctx context.Context) (*Result, error)
	// Status reports what Sync would do without changing anything
	Status(ctx context.Context) (*Result, error)
}

// 🔧 Config defines the interface for configuration
type Config interface {
	// GetJobs returns the jobs to run
	GetJobs() []config.Job
}

// 📣 JobTracker is implemented by listeners that want to know where one job
// ends and the next begins. It is only used when jobs run sequentially.
type JobTracker interface {
	StartJob(ctx context.Context, op log.JobOperation)
	EndJob(ctx context.Context) *status.Report
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Config provides the jobs
	Config Config
	// Filesystem is where sources and destinations live
	Filesystem fsys.Filesystem
	// Listener is told about every action, defaults to structured logging
	Listener reconcile.Listener
	// Async runs all jobs at once
	Async bool
}

// 📊 JobResult is the outcome of one job
type JobResult struct {
	Job    config.Job
	Report *status.Report
}

// 📊 Result holds the outcome of every job that ran, in config order
type Result struct {
	Jobs []JobResult
}

// Total merges the reports of all jobs
func (r *Result) Total() *status.Report {
	total := status.NewReport()
	for _, job := range r.Jobs {
		if job.Report != nil {
			total.Merge(job.Report)
		}
	}
	return total
}

// InSync reports whether no job had anything to do
func (r *Result) InSync() bool {
	return r.Total().Empty()
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Filesystem == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	return &operator{
		config:   opts.Config,
		fs:       opts.Filesystem,
		listener: opts.Listener,
		async:    opts.Async,
	}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	config   Config
	fs       fsys.Filesystem
	listener reconcile.Listener
	async    bool
}

func (o *operator) Sync(ctx context.Context) (*Result, error) {
	return o.run(ctx, false)
}

func (o *operator) Status(ctx context.Context) (*Result, error) {
	return o.run(ctx, true)
}

func (o *operator) run(ctx context.Context, dryRun bool) (*Result, error) {
	jobs := o.config.GetJobs()
	if len(jobs) == 0 {
		return nil, errors.Errorf("no jobs configured")
	}

	if o.async {
		if err := checkOverlap(jobs); err != nil {
			return nil, err
		}
	}

	result := &Result{Jobs: make([]JobResult, len(jobs))}
	tasks := make([]Task, len(jobs))
	for i, job := range jobs {
		result.Jobs[i].Job = job
		tasks[i] = func(ctx context.Context) error {
			report, err := o.runJob(ctx, job, dryRun)
			// each task owns its slot
			result.Jobs[i].Report = report
			if err != nil {
				return errors.Errorf("job %q: %w", job.Name, err)
			}
			return nil
		}
	}

	runner := NewRunner(zerolog.Ctx(ctx), o.async)
	if err := runner.Run(ctx, tasks...); err != nil {
		return result, err
	}
	return result, nil
}

func (o *operator) runJob(ctx context.Context, job config.Job, dryRun bool) (*status.Report, error) {
	logger := zerolog.Ctx(ctx).With().Str("job", job.Name).Logger()
	ctx = logger.WithContext(ctx)

	ignore, err := job.Filter()
	if err != nil {
		return nil, errors.Errorf("building ignore filter: %w", err)
	}

	opts := []reconcile.Option{
		reconcile.WithRecursive(job.IsRecursive()),
		reconcile.WithIgnore(ignore),
		reconcile.WithConcurrency(job.Concurrency),
		reconcile.WithDryRun(dryRun),
	}
	if o.listener != nil {
		opts = append(opts, reconcile.WithListener(o.listener))
	}

	if tracker, ok := o.listener.(JobTracker); ok && !o.async {
		tracker.StartJob(ctx, log.JobOperation{
			Name:        job.Name,
			Source:      job.Source,
			Destination: job.Destination,
			DryRun:      dryRun,
		})
		defer tracker.EndJob(ctx)
	}

	return reconcile.Sync(ctx, o.fs, job.Source, job.Destination, opts...)
}

// 🚧 checkOverlap rejects job sets where one job writes into a tree another
// job reads or writes
func checkOverlap(jobs []config.Job) error {
	for i := range jobs {
		for j := i + 1; j < len(jobs); j++ {
			a, b := jobs[i], jobs[j]
			pairs := [][2]string{
				{a.Destination, b.Destination},
				{a.Destination, b.Source},
				{a.Source, b.Destination},
			}
			for _, p := range pairs {
				overlap, err := reconcile.Overlaps(p[0], p[1])
				if err != nil {
					return errors.Errorf("checking jobs %q and %q: %w", a.Name, b.Name, err)
				}
				if overlap {
					return errors.Errorf("%w: jobs %q and %q cannot run async", ErrOverlappingJobs, a.Name, b.Name)
				}
			}
		}
	}
	return nil
}
