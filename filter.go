// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// entryMatcher holds compiled include rules for entry selection.
// A nil matcher selects every entry.
type entryMatcher struct {
	matcher *pathrules.Matcher
}

// newEntryMatcher compiles entry selection rules.
func newEntryMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*entryMatcher, error) {
	rules = normalizeIncludeRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidIncludePattern, err)
	}

	return &entryMatcher{matcher: matcher}, nil
}

// normalizeIncludeRules normalizes rule patterns and drops empty patterns.
func normalizeIncludeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether the entry path is selected. With no compiled rules
// every path is selected.
func (m *entryMatcher) Match(path string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	candidate := NormalizePath(path)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}

// filterEntriesByRules keeps entries whose output path is selected by the matcher.
func filterEntriesByRules(entries []EntryInfo, matcher *entryMatcher) []EntryInfo {
	if matcher == nil {
		return entries
	}

	out := make([]EntryInfo, 0, len(entries))
	for i := range entries {
		if !matcher.Match(entries[i].OutputPath()) {
			continue
		}

		out = append(out, entries[i])
	}

	return out
}

// filterEntriesByPrefix keeps entries under prefix (or exact match if it
// points to a file).
func filterEntriesByPrefix(entries []EntryInfo, prefix string) []EntryInfo {
	prefix = NormalizePath(prefix)
	if prefix == "" {
		return entries
	}

	prefixWithSlash := prefix + "/"
	out := make([]EntryInfo, 0, len(entries))
	for i := range entries {
		entryPath := NormalizePath(entries[i].OutputPath())
		if entryPath == prefix || strings.HasPrefix(entryPath, prefixWithSlash) {
			out = append(out, entries[i])
		}
	}

	return out
}
