// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"errors"
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"a/b/c.txt", "a/b/c.txt"},
		{"./a/b.txt", "a/b.txt"},
		{"/a/b.txt", "a/b.txt"},
		{`a\b\c.txt`, "a/b/c.txt"},
		{"a//b/./c.txt", "a/b/c.txt"},
		{"  a/b.txt  ", "a/b.txt"},
		{".", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeExtractEntryPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "a/b.txt", want: "a/b.txt"},
		{in: `a\b.txt`, want: "a/b.txt"},
		{in: "./a/./b.txt", want: "a/b.txt"},
		{in: "a//b.txt", want: "a/b.txt"},
		{in: "", wantErr: ErrInvalidEntryPath},
		{in: "a\x00b", wantErr: ErrInvalidEntryPath},
		{in: ".", wantErr: ErrInvalidEntryPath},
		{in: "/etc/passwd", wantErr: ErrExtractPathOutsideRoot},
		{in: `\\share\x`, wantErr: ErrExtractPathOutsideRoot},
		{in: "C:/x.txt", wantErr: ErrExtractPathOutsideRoot},
		{in: "../x.txt", wantErr: ErrExtractPathOutsideRoot},
		{in: "a/../../x.txt", wantErr: ErrExtractPathOutsideRoot},
	}
	for _, tt := range tests {
		got, err := normalizeExtractEntryPath(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("normalizeExtractEntryPath(%q) err=%v, want %v", tt.in, err, tt.wantErr)
			}

			continue
		}
		if err != nil {
			t.Errorf("normalizeExtractEntryPath(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeExtractEntryPath(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntryMatcher_NilSelectsEverything(t *testing.T) {
	t.Parallel()

	matcher, err := newEntryMatcher(nil, pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("newEntryMatcher: %v", err)
	}
	if matcher != nil {
		t.Fatal("empty rule set should compile to a nil matcher")
	}
	if !matcher.Match("anything/at/all.bin") {
		t.Fatal("nil matcher must select every path")
	}
}

func TestEntryMatcher_Rules(t *testing.T) {
	t.Parallel()

	matcher, err := newEntryMatcher([]pathrules.Rule{
		{Action: pathrules.ActionInclude, Pattern: "docs/**"},
		{Action: pathrules.ActionExclude, Pattern: "docs/internal/**"},
	}, pathrules.MatcherOptions{DefaultAction: pathrules.ActionExclude})
	if err != nil {
		t.Fatalf("newEntryMatcher: %v", err)
	}

	if !matcher.Match("docs/readme.txt") {
		t.Error("included path rejected")
	}
	if matcher.Match("src/main.c") {
		t.Error("default-excluded path selected")
	}
}

func TestFilterEntriesByPrefix(t *testing.T) {
	t.Parallel()

	entries := []EntryInfo{
		{Name: "sub/a.txt"},
		{Name: "sub/deep/b.txt"},
		{Name: "subway/c.txt"},
		{Name: "top.txt"},
	}

	got := filterEntriesByPrefix(entries, "sub")
	if len(got) != 2 || got[0].Name != "sub/a.txt" || got[1].Name != "sub/deep/b.txt" {
		t.Fatalf("filtered=%v, want only the two entries under sub/", got)
	}

	exact := filterEntriesByPrefix(entries, "top.txt")
	if len(exact) != 1 || exact[0].Name != "top.txt" {
		t.Fatalf("exact=%v, want the single exact match", exact)
	}

	all := filterEntriesByPrefix(entries, "")
	if len(all) != len(entries) {
		t.Fatalf("empty prefix kept %d entries, want all %d", len(all), len(entries))
	}
}
