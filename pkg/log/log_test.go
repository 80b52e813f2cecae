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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/syncrc/pkg/status"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Source:      "/src/test.txt",
					Destination: "/dst/test.txt",
					Action:      status.StatusNew,
				})
			},
			wantLogs: []string{
				"    ✓ /dst/test.txt                       add        synced",
			},
		},
		{
			name: "job_header_and_relative_paths",
			op: func(t *testing.T, logger *Logger) {
				logger.StartJob(context.Background(), JobOperation{
					Name:        "assets",
					Source:      "/src",
					Destination: "/dst",
				})
				logger.Updated(context.Background(), "/src/css/site.css", "/dst/css/site.css")
			},
			wantLogs: []string{
				"[syncing /dst]",
				"◆ assets • sync",
				"⟳ css/site.css                        update     synced",
			},
		},
		{
			name: "dry_run_job_marks_pending",
			op: func(t *testing.T, logger *Logger) {
				logger.StartJob(context.Background(), JobOperation{
					Name:        "assets",
					Destination: "/dst",
					DryRun:      true,
				})
				logger.Deleted(context.Background(), "/src/old", "/dst/old")
			},
			wantLogs: []string{
				"[syncing /dst]",
				"◆ assets • dry run",
				"✗ old                                 delete     pending",
			},
		},
		{
			name: "set_dry_run_without_job",
			op: func(t *testing.T, logger *Logger) {
				logger.SetDryRun(true)
				logger.Added(context.Background(), "/src/a", "/dst/a")
			},
			wantLogs: []string{
				"✓ /dst/a                              add        pending",
			},
		},
		{
			name: "before_hooks_print_nothing",
			op: func(t *testing.T, logger *Logger) {
				logger.BeforeAdd(context.Background(), "/src/a")
				logger.BeforeUpdate(context.Background(), "/src/a")
				logger.BeforeDelete(context.Background(), "/src/a")
				logger.Info("done")
			},
			wantLogs: []string{
				"ℹ️  done",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Successf("success %d", 2)
			},
			wantLogs: []string{
				"ℹ️  info test",
				"✅ success 2",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("syncing directories")
			},
			wantLogs: []string{
				"syncrc • syncing directories",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, strings.TrimSpace(want), strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerJobReport(t *testing.T) {
	ctx := context.Background()
	zbuf := &bytes.Buffer{}
	logger := New(io.Discard, zerolog.New(zbuf))

	logger.StartJob(ctx, JobOperation{Name: "docs", Source: "/s", Destination: "/d"})
	logger.Added(ctx, "/s/a", "/d/a")
	logger.Added(ctx, "/s/b", "/d/b")
	logger.Deleted(ctx, "/s/c", "/d/c")
	report := logger.EndJob(ctx)

	require.NotNil(t, report)
	assert.Equal(t, 2, report.Added())
	assert.Equal(t, 1, report.Deleted())
	assert.Contains(t, zbuf.String(), `"message":"sync job complete"`)
	assert.Contains(t, zbuf.String(), `"action":"add"`)

	// a new job starts from an empty report
	logger.StartJob(ctx, JobOperation{Name: "next", Destination: "/e"})
	assert.True(t, logger.EndJob(ctx).Empty())
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.Nop())

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}
