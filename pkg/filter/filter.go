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

// Package filter implements the ignore rules applied to entry names during a
// sync. A NameFilter is one of Exact, Pattern, Glob, Predicate or AnyOf, and
// Match evaluates any of them.
package filter

import (
	"os"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🎯 NameFilter decides whether an entry name is ignored.
//
// The set of implementations is closed; build one with the constructors below.
type NameFilter interface {
	match(info os.FileInfo, name string) bool
}

// 🔍 Match reports whether f ignores the entry. A nil filter ignores nothing.
func Match(f NameFilter, info os.FileInfo, name string) bool {
	if f == nil {
		return false
	}
	return f.match(info, name)
}

type exact string

// Exact ignores entries whose name equals s
func Exact(s string) NameFilter {
	return exact(s)
}

func (e exact) match(_ os.FileInfo, name string) bool {
	return string(e) == name
}

type pattern struct {
	re *regexp.Regexp
}

// Pattern ignores entries whose name the regular expression matches anywhere.
// Anchor the expression to match whole names.
func Pattern(re *regexp.Regexp) NameFilter {
	return pattern{re: re}
}

// CompilePattern compiles expr and returns it as a Pattern filter
func CompilePattern(expr string) (NameFilter, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling ignore pattern %q: %w", expr, err)
	}
	return Pattern(re), nil
}

func (p pattern) match(_ os.FileInfo, name string) bool {
	return p.re != nil && p.re.MatchString(name)
}

type glob string

// Glob ignores entries whose name matches a doublestar glob
func Glob(pattern string) (NameFilter, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid ignore glob %q", pattern)
	}
	return glob(pattern), nil
}

func (g glob) match(_ os.FileInfo, name string) bool {
	// validated at construction, so Match cannot fail
	ok, _ := doublestar.Match(string(g), name)
	return ok
}

// PredicateFunc receives the entry's stat result and its name
type PredicateFunc func(info os.FileInfo, name string) bool

type predicate PredicateFunc

// Predicate ignores entries for which fn returns true
func Predicate(fn PredicateFunc) NameFilter {
	return predicate(fn)
}

func (p predicate) match(info os.FileInfo, name string) bool {
	return p != nil && p(info, name)
}

type anyOf []NameFilter

// AnyOf ignores an entry when any of the filters does. An empty AnyOf
// ignores nothing.
func AnyOf(filters ...NameFilter) NameFilter {
	return anyOf(filters)
}

func (a anyOf) match(info os.FileInfo, name string) bool {
	for _, f := range a {
		if Match(f, info, name) {
			return true
		}
	}
	return false
}
