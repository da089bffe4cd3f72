// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

package ustar

import (
	"fmt"
	"io"
	"os"
)

// Scanner streams member headers from an archive one block at a time.
// Content blocks are skipped by seeking, never materialized. A Scanner is
// finite and not restartable; create a new one to traverse again.
type Scanner struct {
	r io.ReadSeeker
	// pending holds a peeked block that turned out to be the next real header.
	pending []byte
	err     error
	entry   EntryInfo
	// offset is the archive position of the next block r will read.
	offset int64
	block  [blockSize]byte
	peek   [blockSize]byte
	verify bool
	done   bool
}

// NewScanner returns a scanner reading headers from r, which must be
// positioned at the start of an archive.
func NewScanner(r io.ReadSeeker) *Scanner {
	return &Scanner{r: r}
}

// NewScannerWithOptions returns a scanner honoring ReaderOptions.VerifyChecksums.
// Listing filters from ReaderOptions are applied by List and ListEntries, not
// by the scanner itself.
func NewScannerWithOptions(r io.ReadSeeker, opts ReaderOptions) *Scanner {
	return &Scanner{r: r, verify: opts.VerifyChecksums}
}

// Entry returns the member decoded by the last successful Next call.
func (s *Scanner) Entry() EntryInfo {
	return s.entry
}

// Err returns the first error encountered during scanning.
// Reaching the end-of-archive marker or end of file is not an error.
func (s *Scanner) Err() error {
	return s.err
}

// Next advances to the next member header. It returns false at the
// end-of-archive marker, at end of file, or on error.
//
// End detection is tolerant of stray padding: a single all-zero block only
// terminates the stream when the block after it is also zero (or the file
// ends). Otherwise the peeked block is treated as the next header.
func (s *Scanner) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	if s.r == nil {
		s.err = ErrNilReader
		return false
	}

	for {
		headerOffset := s.offset
		var header []byte

		if s.pending != nil {
			header = s.pending
			s.pending = nil
			headerOffset = s.offset - blockSize
		} else {
			n, err := io.ReadFull(s.r, s.block[:])
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// A truncated or footer-less archive ends the stream quietly.
				s.done = true
				return false
			}
			if err != nil {
				s.err = fmt.Errorf("%w: read header block: %w", ErrIO, err)
				return false
			}

			s.offset += int64(n)
			header = s.block[:]
		}

		if isEndOfArchiveBlock(header) {
			n, err := io.ReadFull(s.r, s.peek[:])
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				s.done = true
				return false
			}
			if err != nil {
				s.err = fmt.Errorf("%w: peek after zero block: %w", ErrIO, err)
				return false
			}

			s.offset += int64(n)
			if isEndOfArchiveBlock(s.peek[:]) {
				// Two consecutive zero blocks: the end-of-archive marker.
				s.done = true
				return false
			}

			// A lone zero block followed by data: keep the peeked block as
			// the next header instead of stopping early.
			s.pending = s.peek[:]
			continue
		}

		entry, err := parseHeader(header)
		if err != nil {
			s.err = err
			return false
		}

		if s.verify {
			if err := verifyChecksum(header); err != nil {
				s.err = fmt.Errorf("%w (entry %q)", err, entry.Name)
				return false
			}
		}

		entry.HeaderOffset = headerOffset
		entry.DataOffset = headerOffset + blockSize

		skip := entry.Blocks * blockSize
		if skip > 0 {
			if _, err := s.r.Seek(skip, io.SeekCurrent); err != nil {
				s.err = fmt.Errorf("%w: skip content of %q: %w", ErrIO, entry.Name, err)
				return false
			}
		}

		s.offset = entry.DataOffset + skip
		s.entry = entry

		return true
	}
}

// List returns member names in archive order, duplicates included.
func List(archivePath string) ([]string, error) {
	return ListWithOptions(archivePath, ReaderOptions{})
}

// ListWithOptions returns member names in archive order using explicit
// reader options.
func ListWithOptions(archivePath string, opts ReaderOptions) ([]string, error) {
	entries, err := ListEntriesWithOptions(archivePath, opts)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(entries))
	for i := range entries {
		names[i] = entries[i].Name
	}

	return names, nil
}

// ListEntries returns member metadata in archive order without reading content.
func ListEntries(archivePath string) ([]EntryInfo, error) {
	return ListEntriesWithOptions(archivePath, ReaderOptions{})
}

// ListEntriesWithOptions returns member metadata in archive order using
// explicit reader options.
func ListEntriesWithOptions(archivePath string, opts ReaderOptions) ([]EntryInfo, error) {
	opts.applyDefaults()

	matcher, err := newEntryMatcher(opts.Include, opts.MatcherOptions)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open archive %s: %w", ErrIO, archivePath, err)
	}
	defer func() { _ = f.Close() }()

	entries := make([]EntryInfo, 0, 16)
	s := NewScannerWithOptions(f, opts)
	for s.Next() {
		entries = append(entries, s.Entry())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	entries = filterEntriesByPrefix(entries, opts.PathPrefix)
	entries = filterEntriesByRules(entries, matcher)

	return entries, nil
}

// Contains reports whether an entry with exactly the given name occurs in the
// archive. Scanning stops at the first match.
func Contains(archivePath string, name string) (bool, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return false, fmt.Errorf("%w: open archive %s: %w", ErrIO, archivePath, err)
	}
	defer func() { _ = f.Close() }()

	s := NewScanner(f)
	for s.Next() {
		if s.Entry().Name == name {
			return true, nil
		}
	}

	return false, s.Err()
}
