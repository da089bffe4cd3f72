// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	blockSize    = 512                      // fixed size of every archive block
	footerBlocks = 2                        // all-zero blocks terminating an archive
	footerSize   = blockSize * footerBlocks // trailing bytes dropped before append
)

// Header field layout. Each numeric field stores zero-padded octal ASCII with
// a NUL in its last byte; the version field is the raw two bytes "00".
const (
	nameOff, nameLen         = 0, 100
	modeOff, modeLen         = 100, 8
	uidOff, uidLen           = 108, 8
	gidOff, gidLen           = 116, 8
	sizeOff, sizeLen         = 124, 12
	mtimeOff, mtimeLen       = 136, 12
	chksumOff, chksumLen     = 148, 8
	typeFlagOff              = 156
	linknameOff, linknameLen = 157, 100
	magicOff, magicLen       = 257, 6
	versionOff, versionLen   = 263, 2
	unameOff, unameLen       = 265, 32
	gnameOff, gnameLen       = 297, 32
	devMajorOff, devMajorLen = 329, 8
	devMinorOff, devMinorLen = 337, 8
	prefixOff, prefixLen     = 345, 155
)

const (
	// magicValue identifies a ustar header; stored with a trailing NUL.
	magicValue = "ustar"
	// versionValue is stored as raw bytes without termination.
	versionValue = "00"
	// typeFlagRegular marks a regular file, the only type this engine writes.
	typeFlagRegular byte = '0'
	// typeFlagRegularOld is the pre-POSIX regular file marker tolerated on read.
	typeFlagRegularOld byte = 0
)

// Default writer tuning values.
const (
	DefaultWriteBufferSize = 64 * 1024
	minWriteBufferSize     = 4096
)

// EntryInfo describes a single parsed archive member header.
type EntryInfo struct {
	// Name is the member name as stored in the 100-byte header field.
	Name string `json:"name" yaml:"name"`
	// Prefix is the optional path prefix from the ustar prefix field.
	// This engine never populates it on write but honors it on read.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	// Size is the unpadded content length in bytes.
	Size int64 `json:"size" yaml:"size"`
	// TypeFlag stores the raw header type byte.
	TypeFlag byte `json:"type_flag,omitempty" yaml:"type_flag,omitempty"`
	// HeaderOffset is the byte offset of the header block in the archive.
	HeaderOffset int64 `json:"header_offset" yaml:"header_offset"`
	// DataOffset is the byte offset of the first content block.
	DataOffset int64 `json:"data_offset" yaml:"data_offset"`
	// Blocks is the number of 512-byte content blocks following the header.
	Blocks int64 `json:"blocks" yaml:"blocks"`
}

// IsRegular reports whether this entry is a regular file.
func (e *EntryInfo) IsRegular() bool {
	return e.TypeFlag == typeFlagRegular || e.TypeFlag == typeFlagRegularOld
}

// OutputPath returns the slash-joined extraction path, prefix first when set.
func (e *EntryInfo) OutputPath() string {
	if e.Prefix == "" {
		return e.Name
	}

	return e.Prefix + "/" + e.Name
}

// WriteEntryProgress contains one completed member write event.
type WriteEntryProgress struct {
	// Path is the member path written into the archive name field.
	Path string `json:"path" yaml:"path"`
	// Size is the unpadded content length recorded in the header.
	Size int64 `json:"size" yaml:"size"`
	// Blocks is the number of content blocks written after the header.
	Blocks int64 `json:"blocks" yaml:"blocks"`
	// HeaderOffset is the archive offset of the member header block.
	HeaderOffset int64 `json:"header_offset" yaml:"header_offset"`
}

// WriteOptions configures Create, Append, and Update behavior.
type WriteOptions struct {
	// OnEntryDone is called after one member is fully written to the archive.
	OnEntryDone func(entry WriteEntryProgress) `json:"-" yaml:"-"`
	// BufferSize is the buffered writer size in bytes.
	BufferSize int `json:"buffer_size,omitempty" yaml:"buffer_size,omitempty"`
}

// WriteResult contains write output statistics.
type WriteResult struct {
	// WrittenMembers is the number of members written to the archive.
	WrittenMembers int `json:"written_members" yaml:"written_members"`
	// DataBytes is the total unpadded content bytes written.
	DataBytes int64 `json:"data_bytes" yaml:"data_bytes"`
	// PaddingBytes is the total zero padding written into final content blocks.
	PaddingBytes int64 `json:"padding_bytes,omitempty" yaml:"padding_bytes,omitempty"`
}

// ReaderOptions configures listing behavior.
type ReaderOptions struct {
	// Include defines ordered path rules selecting which entries are listed.
	// An empty rule set selects every entry.
	Include []pathrules.Rule `json:"include,omitempty" yaml:"include,omitempty"`
	// MatcherOptions control include rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
	// PathPrefix limits listing to entries under the given path prefix.
	PathPrefix string `json:"path_prefix,omitempty" yaml:"path_prefix,omitempty"`
	// VerifyChecksums recomputes header checksums and fails on mismatch.
	VerifyChecksums bool `json:"verify_checksums,omitempty" yaml:"verify_checksums,omitempty"`
}

// ExtractFileMode controls output file open behavior during extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeAuto first tries create-only, then falls back to truncate
	// for existing files.
	ExtractFileModeAuto ExtractFileMode = "auto"
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	// Archives holding several versions of one name cannot extract in this mode.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// ExtractOptions configures ExtractAll behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to disk.
	OnEntryDone func(entry EntryInfo, written int64, outputPath string) `json:"-" yaml:"-"`
	// Include defines ordered path rules selecting which entries are extracted.
	// An empty rule set selects every entry.
	Include []pathrules.Rule `json:"include,omitempty" yaml:"include,omitempty"`
	// MatcherOptions control include rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// MakeParentDirs pre-creates parent directories for entry output paths.
	// When false, directories in entry paths are assumed to already exist.
	MakeParentDirs bool `json:"make_parent_dirs,omitempty" yaml:"make_parent_dirs,omitempty"`
	// RawNames disables entry path normalization and traversal checks.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
}

// applyDefaults fills zero-valued write options with defaults.
func (opts *WriteOptions) applyDefaults() {
	if opts.BufferSize < minWriteBufferSize {
		opts.BufferSize = DefaultWriteBufferSize
	}
}

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			DefaultAction: pathrules.ActionExclude,
		}
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeAuto
	}

	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			DefaultAction: pathrules.ActionExclude,
		}
	}
}

// contentBlocks returns the number of 512-byte blocks covering size bytes.
func contentBlocks(size int64) int64 {
	return (size + blockSize - 1) / blockSize
}
