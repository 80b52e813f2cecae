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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/syncrc/pkg/filter"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🙈 Ignore lists the names a job never touches
type Ignore struct {
	Names    []string `json:"names,omitempty" yaml:"names,omitempty"`       // Exact names
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"` // Regular expressions, unanchored
	Globs    []string `json:"globs,omitempty" yaml:"globs,omitempty"`       // Doublestar globs
}

// 📦 Job is one source to destination sync
type Job struct {
	Name        string  `json:"name" yaml:"name"`
	Source      string  `json:"source" yaml:"source"`
	Destination string  `json:"destination" yaml:"destination"`
	Recursive   *bool   `json:"recursive,omitempty" yaml:"recursive,omitempty"`
	Concurrency int     `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	Ignore      *Ignore `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Jobs []Job `json:"jobs" yaml:"jobs"`
}

// 🎯 Load loads the configuration from a file. Relative job paths are
// resolved against the directory holding the file.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.resolve(filepath.Dir(path))

	logger.Debug().Int("jobs", len(cfg.Jobs)).Msg("configuration loaded")

	return cfg, nil
}

func (cfg *Config) resolve(base string) {
	for i := range cfg.Jobs {
		if !filepath.IsAbs(cfg.Jobs[i].Source) {
			cfg.Jobs[i].Source = filepath.Join(base, cfg.Jobs[i].Source)
		}
		if !filepath.IsAbs(cfg.Jobs[i].Destination) {
			cfg.Jobs[i].Destination = filepath.Join(base, cfg.Jobs[i].Destination)
		}
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Jobs) == 0 {
		return errors.Errorf("at least one job is required")
	}

	seen := make(map[string]bool, len(cfg.Jobs))
	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]

		if strings.TrimSpace(job.Source) == "" {
			return errors.Errorf("jobs[%d].source is required", i)
		}
		if strings.TrimSpace(job.Destination) == "" {
			return errors.Errorf("jobs[%d].destination is required", i)
		}
		if job.Concurrency < 0 {
			return errors.Errorf("jobs[%d].concurrency must not be negative", i)
		}

		job.Source = filepath.Clean(job.Source)
		job.Destination = filepath.Clean(job.Destination)

		// unnamed jobs are called after their destination
		if job.Name == "" {
			job.Name = job.Destination
		}
		if seen[job.Name] {
			return errors.Errorf("duplicate job name %q", job.Name)
		}
		seen[job.Name] = true

		if _, err := job.Filter(); err != nil {
			return errors.Errorf("job %q: %w", job.Name, err)
		}
	}

	return nil
}

// GetJobs returns the configured jobs
func (cfg *Config) GetJobs() []Job {
	return cfg.Jobs
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	jobs := make([]string, 0, len(cfg.Jobs))
	for _, job := range cfg.Jobs {
		jobs = append(jobs, job.String())
	}
	return strings.Join(jobs, ", ")
}

// 📝 String returns a string representation of the job
func (j Job) String() string {
	return fmt.Sprintf("%s: %s -> %s", j.Name, j.Source, j.Destination)
}

// IsRecursive reports whether the job descends into subdirectories, true
// unless disabled
func (j Job) IsRecursive() bool {
	return j.Recursive == nil || *j.Recursive
}

// 🙈 Filter builds the job's ignore filter. A job without ignore rules gets
// a nil filter, which matches nothing.
func (j Job) Filter() (filter.NameFilter, error) {
	if j.Ignore == nil {
		return nil, nil
	}

	var filters []filter.NameFilter
	for _, name := range j.Ignore.Names {
		filters = append(filters, filter.Exact(name))
	}
	for _, expr := range j.Ignore.Patterns {
		f, err := filter.CompilePattern(expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	for _, pattern := range j.Ignore.Globs {
		f, err := filter.Glob(pattern)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}

	if len(filters) == 0 {
		return nil, nil
	}
	return filter.AnyOf(filters...), nil
}
