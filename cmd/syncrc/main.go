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
	"context"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/walteh/syncrc/cmd/syncrc/commands"
	"gitlab.com/tozd/go/errors"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code: 1 on failure, 2
// when status found pending actions
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd, rootOpts := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	// status already listed what is pending
	if errors.Is(err, commands.ErrOutOfSync) {
		return 2
	}

	// the console logger only exists once flags and arguments were accepted
	if rootOpts.Logger != nil {
		rootOpts.Logger.Error(err.Error())
	} else {
		pterm.Error.WithWriter(stderr).WithPrefix(pterm.Prefix{Text: "❌"}).Println(err)
	}
	return 1
}
