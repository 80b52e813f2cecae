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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/cmd/syncrc/opts"
	"github.com/walteh/syncrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ErrOutOfSync is returned by status when a destination differs from its source
var ErrOutOfSync = errors.Base("destination out of sync")

// NewStatusCmd creates the status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	flags := &jobFlags{}

	cmd := &cobra.Command{
		Use:   "status [SOURCE DESTINATION]",
		Short: "Check if destinations need to be synced",
		Long: `Status runs a sync without touching anything and lists the pending
actions. It exits non-zero when any destination differs from its source.`,
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

			o.Logger.SetDryRun(true)
			o.Logger.Header("checking status")

			result, err := op.Status(ctx)
			if err != nil {
				return errors.Errorf("checking status: %w", err)
			}

			printSummary(o, result)

			if !result.InSync() {
				pending := len(result.Total().Actions())
				o.Logger.Warning(fmt.Sprintf("%d pending actions, run sync to apply them", pending))
				return errors.Errorf("%w: %d pending actions", ErrOutOfSync, pending)
			}

			o.Logger.Success("destinations are up to date")
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
