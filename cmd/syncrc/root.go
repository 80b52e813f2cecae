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

package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/cmd/syncrc/commands"
	"github.com/walteh/syncrc/cmd/syncrc/opts"
	"github.com/walteh/syncrc/pkg/fsys"
	"github.com/walteh/syncrc/pkg/log"
)

// rootFlags are the persistent flags shared by all commands
type rootFlags struct {
	configFile string
	debug      bool
	async      bool
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", ".syncrc.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.async, "async", false, "run config jobs in parallel")
}

// setupLogging builds the structured logger based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}

// newRootCmd wires the commands; the returned options are filled once flags
// and arguments are accepted
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *opts.RootOpts) {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "syncrc",
		Short: "One-way directory tree sync",
		Long: `syncrc makes destination directory trees match their sources: new files
are copied, changed files overwritten and extra files deleted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zlog := setupLogging(stderr, flags.debug)
			cmd.SetContext(zlog.WithContext(cmd.Context()))

			rootOpts.ConfigFile = flags.configFile
			rootOpts.Async = flags.async
			rootOpts.Filesystem = fsys.NewOS()
			rootOpts.Logger = log.New(stdout, zlog)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewSyncCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
		commands.NewVersionCmd(),
	)

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd, rootOpts
}

