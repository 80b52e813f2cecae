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

package reconcile

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/syncrc/pkg/filter"
)

// 👂 Listener observes the actions of a sync run. Before hooks fire ahead of
// the filesystem mutation, after hooks once it completed. With a concurrency
// above one the hooks may be called from several goroutines at once.
type Listener interface {
	BeforeAdd(ctx context.Context, src string)
	Added(ctx context.Context, src, dst string)
	BeforeUpdate(ctx context.Context, src string)
	Updated(ctx context.Context, src, dst string)
	BeforeDelete(ctx context.Context, src string)
	Deleted(ctx context.Context, src, dst string)
}

// 📝 LogListener writes one structured log line per action to the logger in
// the context
type LogListener struct{}

var _ Listener = LogListener{}

func (LogListener) BeforeAdd(ctx context.Context, src string) {
	zerolog.Ctx(ctx).Debug().Str("source", src).Msg("adding file")
}

func (LogListener) Added(ctx context.Context, src, dst string) {
	zerolog.Ctx(ctx).Info().Str("source", src).Str("destination", dst).Msg("file addition synced")
}

func (LogListener) BeforeUpdate(ctx context.Context, src string) {
	zerolog.Ctx(ctx).Debug().Str("source", src).Msg("updating file")
}

func (LogListener) Updated(ctx context.Context, src, dst string) {
	zerolog.Ctx(ctx).Info().Str("source", src).Str("destination", dst).Msg("file modification synced")
}

func (LogListener) BeforeDelete(ctx context.Context, src string) {
	zerolog.Ctx(ctx).Debug().Str("source", src).Msg("deleting file")
}

func (LogListener) Deleted(ctx context.Context, src, dst string) {
	zerolog.Ctx(ctx).Info().Str("source", src).Str("destination", dst).Msg("file deletion synced")
}

// 🪝 Hooks is a Listener built from plain callbacks. Unset before hooks do
// nothing; unset after hooks fall back to LogListener.
type Hooks struct {
	BeforeAddFile    func(path string)
	AddFile          func(src, dst string)
	BeforeUpdateFile func(path string)
	UpdateFile       func(src, dst string)
	BeforeDeleteFile func(path string)
	DeleteFile       func(src, dst string)
}

var _ Listener = Hooks{}

func (h Hooks) BeforeAdd(ctx context.Context, src string) {
	if h.BeforeAddFile != nil {
		h.BeforeAddFile(src)
	}
}

func (h Hooks) Added(ctx context.Context, src, dst string) {
	if h.AddFile != nil {
		h.AddFile(src, dst)
		return
	}
	LogListener{}.Added(ctx, src, dst)
}

func (h Hooks) BeforeUpdate(ctx context.Context, src string) {
	if h.BeforeUpdateFile != nil {
		h.BeforeUpdateFile(src)
	}
}

func (h Hooks) Updated(ctx context.Context, src, dst string) {
	if h.UpdateFile != nil {
		h.UpdateFile(src, dst)
		return
	}
	LogListener{}.Updated(ctx, src, dst)
}

func (h Hooks) BeforeDelete(ctx context.Context, src string) {
	if h.BeforeDeleteFile != nil {
		h.BeforeDeleteFile(src)
	}
}

func (h Hooks) Deleted(ctx context.Context, src, dst string) {
	if h.DeleteFile != nil {
		h.DeleteFile(src, dst)
		return
	}
	LogListener{}.Deleted(ctx, src, dst)
}

// 🔧 Options configures one Sync call
type Options struct {
	// Recursive descends into subdirectories on both sides
	Recursive bool
	// Ignore suppresses every action for matching names
	Ignore filter.NameFilter
	// Listener is told about every action
	Listener Listener
	// Concurrency above one reconciles sibling subdirectories in parallel
	Concurrency int
	// DryRun reports actions without touching the destination
	DryRun bool
}

// Option is a functional option for Sync
type Option func(*Options)

// 🏭 NewOptions applies opts on top of the defaults
func NewOptions(opts ...Option) Options {
	o := Options{
		Recursive:   true,
		Listener:    LogListener{},
		Concurrency: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Listener == nil {
		o.Listener = LogListener{}
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	return o
}

// WithRecursive toggles descending into subdirectories
func WithRecursive(recursive bool) Option {
	return func(o *Options) { o.Recursive = recursive }
}

// WithIgnore sets the ignore filter. Several filters are combined with AnyOf.
func WithIgnore(filters ...filter.NameFilter) Option {
	return func(o *Options) {
		switch len(filters) {
		case 0:
			o.Ignore = nil
		case 1:
			o.Ignore = filters[0]
		default:
			o.Ignore = filter.AnyOf(filters...)
		}
	}
}

// WithListener sets the action listener
func WithListener(l Listener) Option {
	return func(o *Options) { o.Listener = l }
}

// WithHooks sets callback style hooks as the listener
func WithHooks(h Hooks) Option {
	return WithListener(h)
}

// WithConcurrency sets how many directories may be reconciled at once
func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

// WithDryRun reports what would change without changing it
func WithDryRun(dryRun bool) Option {
	return func(o *Options) { o.DryRun = dryRun }
}
