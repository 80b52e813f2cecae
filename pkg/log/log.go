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
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/syncrc/pkg/reconcile"
	"github.com/walteh/syncrc/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for the destination path
	actionWidth  = 10 // Width for the action name
	outcomeWidth = 10 // Width for synced / pending
)

// 🎯 FileOperation is one reconciled entry as shown on the console
type FileOperation struct {
	Source      string            // Source path
	Destination string            // Destination path
	Action      status.FileStatus // What happened to the destination
	Pending     bool              // Dry run, nothing was changed
}

// 📦 JobOperation is a sync job as shown on the console
type JobOperation struct {
	Name        string // Job name
	Source      string // Source root
	Destination string // Destination root
	DryRun      bool   // Whether actions are only reported
}

// 🎯 Logger writes sync progress to the console and to zerolog. It is a
// reconcile.Listener and safe for concurrent use.
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *JobOperation
	report    *status.Report
	dryRun    bool
}

var _ reconcile.Listener = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		report:  status.NewReport(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func symbolFor(action status.FileStatus) (string, color.Attribute) {
	switch action {
	case status.StatusNew:
		return "✓", color.FgGreen
	case status.StatusModified:
		return "⟳", color.FgBlue
	case status.StatusDeleted:
		return "✗", color.FgRed
	default:
		return "•", color.FgCyan
	}
}

// 📝 formatFileOperation formats a file operation for display. Paths are shown
// relative to the current job's destination when there is one.
func (l *Logger) formatFileOperation(op FileOperation) string {
	symbol, symbolColor := symbolFor(op.Action)

	name := op.Destination
	if l.currentOp != nil {
		if rel, err := filepath.Rel(l.currentOp.Destination, op.Destination); err == nil {
			name = rel
		}
	}

	outcome, outcomeColor := "synced", color.Faint
	if op.Pending {
		outcome, outcomeColor = "pending", color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(symbol),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", actionWidth, op.Action)),
		color.New(outcomeColor).Sprint(fmt.Sprintf("%-*s", outcomeWidth, outcome)))
}

// 📝 LogFileOperation prints a file operation and records it
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.report.Record(op.Action, op.Source, op.Destination)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Stringer("action", op.Action).
		Bool("pending", op.Pending).
		Msg("file operation")
}

// 📝 StartJob prints the job header; file operations that follow belong to it
func (l *Logger) StartJob(ctx context.Context, op JobOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.report = status.NewReport()

	fmt.Fprintf(l.console, "[syncing %s]\n",
		color.New(color.FgCyan).Sprint(op.Destination))

	mode := "sync"
	if op.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	l.zlog.Info().
		Str("job", op.Name).
		Str("source", op.Source).
		Str("destination", op.Destination).
		Bool("dry_run", op.DryRun).
		Msg("starting sync job")
}

// 📝 EndJob closes the current job and returns what it recorded
func (l *Logger) EndJob(ctx context.Context) *status.Report {
	l.mu.Lock()
	defer l.mu.Unlock()

	report := l.report
	if l.currentOp == nil {
		return report
	}

	l.zlog.Info().
		Str("job", l.currentOp.Name).
		Int("added", report.Added()).
		Int("updated", report.Updated()).
		Int("deleted", report.Deleted()).
		Msg("sync job complete")

	l.currentOp = nil
	l.report = status.NewReport()
	return report
}

// SetDryRun marks every following file operation as pending, also outside
// of a job
func (l *Logger) SetDryRun(dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dryRun = dryRun
}

func (l *Logger) pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dryRun || (l.currentOp != nil && l.currentOp.DryRun)
}

func (l *Logger) BeforeAdd(ctx context.Context, src string) {
	l.zlog.Debug().Str("source", src).Msg("adding file")
}

func (l *Logger) Added(ctx context.Context, src, dst string) {
	l.LogFileOperation(ctx, FileOperation{Source: src, Destination: dst, Action: status.StatusNew, Pending: l.pending()})
}

func (l *Logger) BeforeUpdate(ctx context.Context, src string) {
	l.zlog.Debug().Str("source", src).Msg("updating file")
}

func (l *Logger) Updated(ctx context.Context, src, dst string) {
	l.LogFileOperation(ctx, FileOperation{Source: src, Destination: dst, Action: status.StatusModified, Pending: l.pending()})
}

func (l *Logger) BeforeDelete(ctx context.Context, src string) {
	l.zlog.Debug().Str("source", src).Msg("deleting file")
}

func (l *Logger) Deleted(ctx context.Context, src, dst string) {
	l.LogFileOperation(ctx, FileOperation{Source: src, Destination: dst, Action: status.StatusDeleted, Pending: l.pending()})
}

// line prints one console message and mirrors it to zerolog at level
func (l *Logger) line(symbol string, attr color.Attribute, level zerolog.Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", symbol, color.New(attr).Sprint(msg))
	l.zlog.WithLevel(level).Msg(msg)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("syncrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Success(msg string) { l.line("✅", color.FgGreen, zerolog.InfoLevel, msg) }
func (l *Logger) Warning(msg string) { l.line("⚠️ ", color.FgYellow, zerolog.WarnLevel, msg) }
func (l *Logger) Error(msg string)   { l.line("❌", color.FgRed, zerolog.ErrorLevel, msg) }
func (l *Logger) Info(msg string)    { l.line("ℹ️ ", color.FgCyan, zerolog.InfoLevel, msg) }

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
