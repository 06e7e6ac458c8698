// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/woozymasta/pathrules"
)

// firstPartRe matches a first-part filename (index 001) case-insensitively.
var firstPartRe = regexp.MustCompile(`(?i)^.+\.001\.[^.]+$`)

// ScanDir lists the immediate entries of dir and returns the path of every
// archive first part (<base>.001.<ext>, matched case-insensitively) selected
// by the scan rules, sorted ascending. Without rules every candidate is
// selected. Subdirectories are not descended into.
func ScanDir(dir string, opts ScanOptions) ([]string, error) {
	opts.applyDefaults()

	matcher, err := newScanMatcher(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan dir: %w", err)
	}

	found := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !firstPartRe.MatchString(entry.Name()) {
			continue
		}
		if !matcher.Match(entry.Name()) {
			continue
		}

		found = append(found, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(found)

	return found, nil
}

// scanMatcher holds compiled include/exclude rules for archive selection.
type scanMatcher struct {
	matcher *pathrules.Matcher
}

// newScanMatcher compiles scan rules after dropping empty patterns.
// Returns a match-everything matcher when no usable rules remain.
func newScanMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*scanMatcher, error) {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimSpace(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(normalized, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidScanPattern, err)
	}

	return &scanMatcher{matcher: matcher}, nil
}

// Match reports whether a candidate file name is selected. Archives are
// selected by default, so a nil matcher includes everything.
func (m *scanMatcher) Match(name string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	return m.matcher.Included(name, false)
}
