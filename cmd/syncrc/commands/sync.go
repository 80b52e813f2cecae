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

package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/cmd/syncrc/opts"
	"github.com/walteh/syncrc/pkg/config"
	"github.com/walteh/syncrc/pkg/operation"
	"github.com/walteh/syncrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// jobFlags describe the ad-hoc job built from SOURCE DESTINATION
type jobFlags struct {
	recursive   bool
	ignore      []string
	ignoreRegex []string
	ignoreGlob  []string
	concurrency int
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.recursive, "recursive", true, "descend into subdirectories")
	cmd.Flags().StringArrayVar(&f.ignore, "ignore", nil, "exact name to ignore (repeatable)")
	cmd.Flags().StringArrayVar(&f.ignoreRegex, "ignore-regex", nil, "regular expression of names to ignore (repeatable)")
	cmd.Flags().StringArrayVar(&f.ignoreGlob, "ignore-glob", nil, "glob of names to ignore (repeatable)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 1, "directories reconciled at once")
}

// job turns the flags into a single validated job
func (f *jobFlags) job(source, destination string) (*config.Config, error) {
	recursive := f.recursive
	job := config.Job{
		Name:        "cli",
		Source:      source,
		Destination: destination,
		Recursive:   &recursive,
		Concurrency: f.concurrency,
	}
	if len(f.ignore)+len(f.ignoreRegex)+len(f.ignoreGlob) > 0 {
		job.Ignore = &config.Ignore{
			Names:    f.ignore,
			Patterns: f.ignoreRegex,
			Globs:    f.ignoreGlob,
		}
	}

	cfg := &config.Config{Jobs: []config.Job{job}}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid arguments: %w", err)
	}
	return cfg, nil
}

// pathArgs accepts either nothing (use the config file) or both paths
func pathArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return errors.Errorf("expected SOURCE and DESTINATION, or no arguments to use the config file, got %d arguments", len(args))
	}
	return nil
}

func resolveConfig(ctx context.Context, o *opts.RootOpts, flags *jobFlags, args []string) (*config.Config, error) {
	if len(args) == 2 {
		return flags.job(args[0], args[1])
	}

	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	mode := "one after another"
	if o.Async {
		mode = "in parallel"
	}
	o.Logger.Infof("%d jobs from %s, %s", len(cfg.Jobs), o.ConfigFile, mode)
	return cfg, nil
}

// NewSyncCmd creates the sync command
func NewSyncCmd(o *opts.RootOpts) *cobra.Command {
	flags := &jobFlags{}
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync [SOURCE DESTINATION]",
		Short: "Make destination directories match their sources",
		Long: `Sync makes each destination tree an exact copy of its source.
It will:
1. Delete destination entries the source does not have
2. Copy new files and overwrite files whose content changed
3. Replace entries that are a file on one side and a directory on the other

Without arguments every job of the config file is synced.`,
		Args: pathArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := resolveConfig(ctx, o, flags, args)
			if err != nil {
				return err
			}

			op, err := operation.New(operation.Options{
				Config:     cfg,
				Filesystem: o.Filesystem,
				Listener:   o.Logger,
				Async:      o.Async,
			})
			if err != nil {
				return errors.Errorf("creating operator: %w", err)
			}

			run := op.Sync
			header := "syncing directories"
			if dryRun {
				o.Logger.SetDryRun(true)
				run = op.Status
				header = "dry run, nothing will change"
			}

			o.Logger.Header(header)
			result, err := run(ctx)
			if err != nil {
				return errors.Errorf("syncing: %w", err)
			}

			printSummary(o, result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without changing it")

	return cmd
}

// printSummary writes one line per job
func printSummary(o *opts.RootOpts, result *operation.Result) {
	formatter := status.NewDefaultFileFormatter()
	o.Logger.LogNewline()
	for _, job := range result.Jobs {
		o.Logger.Successf("%s: %s", job.Job.Name, formatter.FormatSummary(job.Report))
	}
}
