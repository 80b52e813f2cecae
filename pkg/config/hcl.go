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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclIgnore struct {
	Names    []string `hcl:"names,optional"`
	Patterns []string `hcl:"patterns,optional"`
	Globs    []string `hcl:"globs,optional"`
}

type hclJob struct {
	Name        string     `hcl:"name,label"`
	Source      string     `hcl:"source"`
	Destination string     `hcl:"destination"`
	Recursive   *bool      `hcl:"recursive,optional"`
	Concurrency *int       `hcl:"concurrency,optional"`
	Ignore      *hclIgnore `hcl:"ignore,block"`
}

type hclConfig struct {
	Jobs []hclJob `hcl:"job,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context; env exposes the process environment
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	for _, j := range hclCfg.Jobs {
		job := Job{
			Name:        j.Name,
			Source:      j.Source,
			Destination: j.Destination,
			Recursive:   j.Recursive,
		}
		if j.Concurrency != nil {
			job.Concurrency = *j.Concurrency
		}
		if j.Ignore != nil {
			job.Ignore = &Ignore{
				Names:    j.Ignore.Names,
				Patterns: j.Ignore.Patterns,
				Globs:    j.Ignore.Globs,
			}
		}
		cfg.Jobs = append(cfg.Jobs, job)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
