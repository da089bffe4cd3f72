// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Tapeworks
// Source: github.com/tapeworks/ustar

/*
Package ustar provides create, list, extract, append, and update operations
for archives in a POSIX ustar subset holding regular files. It is designed
for streaming workflows: content always moves through a single 512-byte
block buffer, and listing skips content blocks without materializing them.

The on-disk format is block-oriented: one 512-byte header block per member,
followed by the member content in whole 512-byte blocks (final block
zero-padded), with two all-zero blocks terminating the archive. Headers
carry the "ustar" magic, octal ASCII numeric fields, and a checksum computed
over the block with the checksum field blanked to spaces.

Append and update mutate an existing archive with a three-phase protocol:
the trailing two-block marker is dropped by truncation, new members are
appended, and a fresh marker is written. The sequence is deliberately not
atomic: an interruption between phases leaves the archive without a valid
footer and no recovery is attempted. The engine assumes exclusive external
ownership of the archive file for the duration of each call.

Known limitation: the write path never populates the ustar prefix field, so
member paths longer than 100 bytes are silently truncated on create and
append, while extraction does honor a prefix found on read.

# Creating

Pack files into a new archive:

	res, err := ustar.Create(ctx, "backup.tar", []string{"notes.txt", "data.bin"}, ustar.WriteOptions{})
	if err != nil {
	    return err
	}
	_ = res.WrittenMembers

Member order is preserved exactly; duplicates are legal and meaningful.

# Listing

List member names or full metadata without reading content:

	names, err := ustar.List("backup.tar")
	if err != nil {
	    return err
	}
	entries, err := ustar.ListEntries("backup.tar")
	if err != nil {
	    return err
	}
	_, _ = names, entries

Listing can verify header checksums and select entries with path rules:

	entries, err = ustar.ListEntriesWithOptions("backup.tar", ustar.ReaderOptions{
	    VerifyChecksums: true,
	    Include: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.txt"},
	    },
	})

For streaming traversal over an open file, use a Scanner:

	s := ustar.NewScanner(f)
	for s.Next() {
	    e := s.Entry()
	    _ = e.Name
	}
	if err := s.Err(); err != nil {
	    return err
	}

# Extracting

Extract every entry into a directory:

	if err := ustar.ExtractAll(ctx, "backup.tar", "out/", ustar.ExtractOptions{}); err != nil {
	    return err
	}

Entries are written in archive order, so a name appended several times ends
up holding its most recent content. Entry paths are normalized and traversal
attempts rejected unless RawNames is set.

# Appending and updating

Append adds new members to an existing archive; Update does the same but
only after verifying that every given name already occurs in the archive:

	if _, err := ustar.Append(ctx, "backup.tar", []string{"notes.txt"}, ustar.WriteOptions{}); err != nil {
	    return err
	}
	if _, err := ustar.Update(ctx, "backup.tar", []string{"notes.txt"}, ustar.WriteOptions{}); err != nil {
	    return err
	}
*/
package ustar
