// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import "errors"

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrMetadata means filesystem metadata for a member could not be gathered,
	// either because stat failed or the numeric owner/group has no name.
	ErrMetadata = errors.New("member metadata unavailable")
	// ErrIO means an open, read, write, seek, or truncate on the archive or a
	// member file failed.
	ErrIO = errors.New("archive I/O failed")
	// ErrFormat means a decoded header block fails a sanity check.
	ErrFormat = errors.New("malformed archive header")
	// ErrMemberNotFound means an update was requested for a name absent from the archive.
	ErrMemberNotFound = errors.New("member not present in archive")
	// ErrNoMembers means no member paths were provided.
	ErrNoMembers = errors.New("no members provided")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrInvalidEntryPath means an entry path is empty or invalid after normalization.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrExtractPathOutsideRoot means a resolved extraction path escapes the destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
	// ErrInvalidIncludePattern means one or more entry selection rules are invalid.
	ErrInvalidIncludePattern = errors.New("invalid include rules")
)
