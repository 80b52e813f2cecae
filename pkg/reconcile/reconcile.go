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

// Package reconcile makes a destination directory tree match a source tree.
//
// A run is two passes over the trees. The deletion pass walks the
// destination and removes every entry the source does not have. The addition
// pass walks the source, copies new files, overwrites changed ones and
// creates missing directories. When a name is a file on one side and a
// directory on the other, the destination entry is replaced by the source's
// kind and reported as a single update. A symbolic link in the destination
// is replaced the same way, so nothing is written through it.
package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/syncrc/pkg/compare"
	"github.com/walteh/syncrc/pkg/filter"
	"github.com/walteh/syncrc/pkg/fsys"
	"github.com/walteh/syncrc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidArgument is returned, before any filesystem access, when the
// source or destination argument is unusable
var ErrInvalidArgument = errors.Base("invalid argument")

// 🔄 Sync makes destination match source on fs.
//
// The returned report lists the applied actions. On error it holds what was
// applied before the failure; the destination is left partially synced.
func Sync(ctx context.Context, fs fsys.Filesystem, source, destination string, opts ...Option) (*status.Report, error) {
	if err := validateArgs(fs, source, destination); err != nil {
		return nil, err
	}

	r := &run{
		fs:     fs,
		opts:   NewOptions(opts...),
		report: status.NewReport(),
	}

	logger := zerolog.Ctx(ctx).With().
		Str("src_root", source).
		Str("dst_root", destination).
		Logger()
	ctx = logger.WithContext(ctx)

	logger.Debug().
		Bool("recursive", r.opts.Recursive).
		Bool("dry_run", r.opts.DryRun).
		Int("concurrency", r.opts.Concurrency).
		Msg("starting sync")

	if err := r.execute(ctx, source, destination); err != nil {
		return r.report, err
	}

	logger.Debug().
		Int("added", r.report.Added()).
		Int("updated", r.report.Updated()).
		Int("deleted", r.report.Deleted()).
		Msg("sync complete")

	return r.report, nil
}

// 🔍 validateArgs checks the arguments without touching the filesystem
func validateArgs(fs fsys.Filesystem, source, destination string) error {
	if fs == nil {
		return errors.Errorf("%w: filesystem is required", ErrInvalidArgument)
	}
	if err := validatePath("source", source); err != nil {
		return err
	}
	if err := validatePath("destination", destination); err != nil {
		return err
	}

	overlap, err := Overlaps(source, destination)
	if err != nil {
		return errors.Errorf("%w: %s", ErrInvalidArgument, err.Error())
	}
	if overlap {
		return errors.Errorf("%w: source %q and destination %q overlap", ErrInvalidArgument, source, destination)
	}

	return nil
}

// Overlaps reports whether one of the two paths is the other or lies below it
func Overlaps(a, b string) (bool, error) {
	aAbs, err := filepath.Abs(a)
	if err != nil {
		return false, errors.Errorf("resolving %s: %w", a, err)
	}
	bAbs, err := filepath.Abs(b)
	if err != nil {
		return false, errors.Errorf("resolving %s: %w", b, err)
	}
	return within(aAbs, bAbs) || within(bAbs, aAbs), nil
}

func validatePath(which, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.Errorf("%w: missing %s directory", ErrInvalidArgument, which)
	}
	if strings.ContainsRune(path, 0) {
		return errors.Errorf("%w: %s directory %q is not a valid path", ErrInvalidArgument, which, path)
	}
	return nil
}

// within reports whether child is parent or below it
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// pair is a source directory and its destination counterpart. fresh means
// the destination side is known to be empty, either created by this run or,
// in a dry run, not there at all.
type pair struct {
	src, dst string
	fresh    bool
}

type visitFunc func(ctx context.Context, p pair, descend func(pair) error) error

// 🎮 run holds the state of one Sync call
type run struct {
	fs     fsys.Filesystem
	opts   Options
	report *status.Report
}

func (r *run) execute(ctx context.Context, source, destination string) error {
	src, ok, err := r.fs.Lookup(source)
	if err != nil {
		return errors.Errorf("checking source: %w", err)
	}
	if !ok {
		return errors.Errorf("source directory %s: %w", source, os.ErrNotExist)
	}
	if src.Kind != fsys.KindDir {
		return errors.Errorf("source %s is not a directory", source)
	}

	dst, ok, err := r.fs.Lookup(destination)
	if err != nil {
		return errors.Errorf("checking destination: %w", err)
	}
	if ok && dst.Kind != fsys.KindDir {
		return errors.Errorf("destination %s is not a directory", destination)
	}

	root := pair{src: source, dst: destination, fresh: !ok}
	if !ok && !r.opts.DryRun {
		if err := r.fs.MkdirAll(destination); err != nil {
			return errors.Errorf("creating destination: %w", err)
		}
	}

	// every deletion lands before the first addition
	if err := r.walk(ctx, root, r.prune); err != nil {
		return errors.Errorf("deletion pass: %w", err)
	}
	if err := r.walk(ctx, root, r.populate); err != nil {
		return errors.Errorf("addition pass: %w", err)
	}

	return nil
}

// ⚡ walk runs visit on root and every pair it descends into. Serially this is
// plain depth-first recursion. In parallel a subdirectory goes to a free
// errgroup slot, or is handled inline when none is free.
func (r *run) walk(ctx context.Context, root pair, visit visitFunc) error {
	if r.opts.Concurrency <= 1 {
		var descend func(pair) error
		descend = func(p pair) error {
			return visit(ctx, p, descend)
		}
		return descend(root)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	var descend func(pair) error
	descend = func(p pair) error {
		if g.TryGo(func() error { return visit(gctx, p, descend) }) {
			return nil
		}
		return visit(gctx, p, descend)
	}

	g.Go(func() error { return visit(gctx, root, descend) })
	return g.Wait()
}

// ignored evaluates the filter against whichever sides exist, so a name is
// skipped identically by both passes
func (r *run) ignored(ctx context.Context, name string, infos ...os.FileInfo) bool {
	for _, info := range infos {
		if info != nil && filter.Match(r.opts.Ignore, info, name) {
			zerolog.Ctx(ctx).Debug().Str("name", name).Msg("ignored")
			return true
		}
	}
	return false
}

// recreates reports whether the addition pass will build the source entry
func (r *run) recreates(src fsys.Entry) bool {
	switch src.Kind {
	case fsys.KindFile:
		return true
	case fsys.KindDir:
		return r.opts.Recursive
	default:
		return false
	}
}

// 🗑️ prune is the deletion pass for one directory pair
func (r *run) prune(ctx context.Context, p pair, descend func(pair) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.fresh {
		return nil
	}

	zerolog.Ctx(ctx).Trace().Str("dir", p.dst).Msg("pruning directory")

	entries, err := r.fs.ReadDir(p.dst)
	if err != nil {
		return err
	}

	for _, dst := range entries {
		srcPath := r.fs.Join(p.src, dst.Name)
		dstPath := r.fs.Join(p.dst, dst.Name)

		if r.ignored(ctx, dst.Name, dst.Info) {
			continue
		}
		if dst.Kind == fsys.KindDir && !r.opts.Recursive {
			continue
		}

		src, ok, err := r.fs.Lookup(srcPath)
		if err != nil {
			return err
		}
		if ok && r.ignored(ctx, dst.Name, src.Info) {
			continue
		}

		switch {
		case !ok, !r.recreates(src):
			if err := r.remove(ctx, srcPath, dstPath); err != nil {
				return err
			}
		case src.Kind != dst.Kind, dst.Link:
			// replaced by the addition pass and reported as an update
		case dst.Kind == fsys.KindDir:
			if err := descend(pair{src: srcPath, dst: dstPath}); err != nil {
				return err
			}
		}
	}

	return nil
}

// ✨ populate is the addition pass for one directory pair
func (r *run) populate(ctx context.Context, p pair, descend func(pair) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Trace().Str("dir", p.src).Msg("populating directory")

	entries, err := r.fs.ReadDir(p.src)
	if err != nil {
		return err
	}

	for _, src := range entries {
		srcPath := r.fs.Join(p.src, src.Name)
		dstPath := r.fs.Join(p.dst, src.Name)

		if r.ignored(ctx, src.Name, src.Info) {
			continue
		}
		if src.Kind == fsys.KindDir && !r.opts.Recursive {
			continue
		}

		var dst fsys.Entry
		var exists bool
		if !p.fresh {
			dst, exists, err = r.fs.Lookup(dstPath)
			if err != nil {
				return err
			}
			if exists && r.ignored(ctx, src.Name, dst.Info) {
				continue
			}
		}

		switch src.Kind {
		case fsys.KindFile:
			if err := r.syncFile(ctx, srcPath, dstPath, dst, exists); err != nil {
				return err
			}
		case fsys.KindDir:
			fresh, err := r.syncDir(ctx, srcPath, dstPath, dst, exists)
			if err != nil {
				return err
			}
			if err := descend(pair{src: srcPath, dst: dstPath, fresh: fresh}); err != nil {
				return err
			}
		default:
			zerolog.Ctx(ctx).Debug().Str("path", srcPath).Msg("skipping entry that is neither file nor directory")
		}
	}

	return nil
}

// 📄 syncFile adds, replaces or overwrites one destination file
func (r *run) syncFile(ctx context.Context, srcPath, dstPath string, dst fsys.Entry, exists bool) error {
	switch {
	case !exists:
		r.opts.Listener.BeforeAdd(ctx, srcPath)
		if err := r.copy(srcPath, dstPath); err != nil {
			return err
		}
		r.report.Record(status.StatusNew, srcPath, dstPath)
		r.opts.Listener.Added(ctx, srcPath, dstPath)

	case dst.Kind != fsys.KindFile, dst.Link:
		r.opts.Listener.BeforeUpdate(ctx, srcPath)
		if err := r.clear(dstPath); err != nil {
			return err
		}
		if err := r.copy(srcPath, dstPath); err != nil {
			return err
		}
		r.report.Record(status.StatusModified, srcPath, dstPath)
		r.opts.Listener.Updated(ctx, srcPath, dstPath)

	default:
		same, err := compare.SameContent(r.fs, srcPath, dstPath)
		if err != nil {
			return err
		}
		if same {
			return nil
		}
		r.opts.Listener.BeforeUpdate(ctx, srcPath)
		if err := r.copy(srcPath, dstPath); err != nil {
			return err
		}
		r.report.Record(status.StatusModified, srcPath, dstPath)
		r.opts.Listener.Updated(ctx, srcPath, dstPath)
	}

	return nil
}

// 📁 syncDir makes sure dstPath is a directory and reports whether it is
// empty from here on
func (r *run) syncDir(ctx context.Context, srcPath, dstPath string, dst fsys.Entry, exists bool) (bool, error) {
	switch {
	case !exists:
		if !r.opts.DryRun {
			if err := r.fs.MkdirAll(dstPath); err != nil {
				return false, err
			}
		}
		return true, nil

	case dst.Kind != fsys.KindDir, dst.Link:
		r.opts.Listener.BeforeUpdate(ctx, srcPath)
		if err := r.clear(dstPath); err != nil {
			return false, err
		}
		if !r.opts.DryRun {
			if err := r.fs.MkdirAll(dstPath); err != nil {
				return false, err
			}
		}
		r.report.Record(status.StatusModified, srcPath, dstPath)
		r.opts.Listener.Updated(ctx, srcPath, dstPath)
		return true, nil

	default:
		return false, nil
	}
}

// remove deletes a destination-only entry
func (r *run) remove(ctx context.Context, srcPath, dstPath string) error {
	r.opts.Listener.BeforeDelete(ctx, srcPath)
	if err := r.clear(dstPath); err != nil {
		return err
	}
	r.report.Record(status.StatusDeleted, srcPath, dstPath)
	r.opts.Listener.Deleted(ctx, srcPath, dstPath)
	return nil
}

func (r *run) clear(dstPath string) error {
	if r.opts.DryRun {
		return nil
	}
	return r.fs.RemoveAll(dstPath)
}

func (r *run) copy(srcPath, dstPath string) error {
	if r.opts.DryRun {
		return nil
	}
	return r.fs.CopyFile(srcPath, dstPath)
}
